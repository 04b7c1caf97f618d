package strategy

import (
	"testing"

	"github.com/alejandrodnm/polyladder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaNeutralPairs_DirectionalNeighbours(t *testing.T) {
	e := New(DefaultConfig())
	markets := []domain.Market{
		buildMarket(900, 0.22, 0.78),
		buildMarket(1000, 0.30, 0.65),
		buildMarket(1100, 0.25, 0.72),
		buildMarket(1200, 0.20, 0.80),
	}

	pairs := e.DeltaNeutralPairs(markets, 1050, 7)

	down, ok := pairs[domain.KeyFor(1000)]
	require.True(t, ok)
	assert.Equal(t, domain.DirectionDownside, down.Direction)
	assert.Equal(t, 900.0, down.YesStrike)
	assert.Equal(t, 1000.0, down.NoStrike)
	assert.Equal(t, 0.22, down.YesPrice)
	assert.Equal(t, 0.65, down.NoPrice)
	assert.InDelta(t, 0.87, down.Cost, 1e-9)
	assert.InDelta(t, 0.13, down.PnL, 1e-9)
	assert.Equal(t, "market_900", down.YesMarketID)
	assert.Equal(t, "market_1000", down.NoMarketID)

	up, ok := pairs[domain.KeyFor(1100)]
	require.True(t, ok)
	assert.Equal(t, domain.DirectionUpside, up.Direction)
	assert.Equal(t, 1200.0, up.YesStrike)
	assert.InDelta(t, 0.92, up.Cost, 1e-9)
	assert.InDelta(t, 0.08, up.PnL, 1e-9)

	// sin vecino en su lado: el primer strike bajista y el último alcista
	assert.NotContains(t, pairs, domain.KeyFor(900))
	assert.NotContains(t, pairs, domain.KeyFor(1200))
	assert.Len(t, pairs, 2)
}

func TestDeltaNeutralPairs_CostPlusPnLIsOne(t *testing.T) {
	e := New(DefaultConfig())
	pairs := e.DeltaNeutralPairs(btcLadder(), 100_000, 10)

	require.NotEmpty(t, pairs)
	for _, k := range domain.SortedKeys(pairs) {
		p := pairs[k]
		assert.InDelta(t, 1.0, p.Cost+p.PnL, 1e-12)
		assert.Equal(t, p.Strike, p.NoStrike)
		assert.Equal(t, k, domain.KeyFor(p.Strike))
	}
}

func TestDeltaNeutralPairs_SkipsResolved(t *testing.T) {
	e := New(DefaultConfig())
	markets := []domain.Market{
		buildMarket(900, 0.22, 0.78),
		buildMarket(1000, 0.995, 0.005),
		buildMarket(1100, 0.25, 0.72),
		buildMarket(1200, 0.20, 0.80),
	}

	pairs := e.DeltaNeutralPairs(markets, 1050, 7)

	assert.NotContains(t, pairs, domain.KeyFor(1000))
	for _, p := range pairs {
		assert.NotEqual(t, 1000.0, p.YesStrike)
	}
	// 1100 sigue emparejado con 1200
	assert.Contains(t, pairs, domain.KeyFor(1100))
}

func TestDeltaNeutralPairs_UnsortedInputAndNoStrike(t *testing.T) {
	e := New(DefaultConfig())
	markets := []domain.Market{
		buildMarket(1200, 0.20, 0.80),
		{ID: "sin-strike", YesPrice: 0.5, NoPrice: 0.5},
		buildMarket(900, 0.22, 0.78),
		buildMarket(1100, 0.25, 0.72),
		buildMarket(1000, 0.30, 0.65),
	}

	pairs := e.DeltaNeutralPairs(markets, 1050, 7)
	require.Len(t, pairs, 2)
	assert.Equal(t, 900.0, pairs[domain.KeyFor(1000)].YesStrike)
	assert.Equal(t, 1200.0, pairs[domain.KeyFor(1100)].YesStrike)
}

func TestDeltaNeutralPairs_APY(t *testing.T) {
	e := New(DefaultConfig())
	markets := []domain.Market{
		buildMarket(900, 0.22, 0.78),
		buildMarket(1000, 0.30, 0.65),
	}

	pairs := e.DeltaNeutralPairs(markets, 1050, 7)
	p := pairs[domain.KeyFor(1000)]
	assert.InDelta(t, 0.13/0.87*100*365/7, p.APY, 1e-6)

	expired := e.DeltaNeutralPairs(markets, 1050, 0)
	assert.Equal(t, 0.0, expired[domain.KeyFor(1000)].APY)
}

func TestCalculateAPY(t *testing.T) {
	assert.InDelta(t, 0.13/0.87*100*365/7, CalculateAPY(0.13, 0.87, 7), 1e-9)
	assert.InDelta(t, 365.0, CalculateAPY(0.5, 0.5, 100), 1e-9)
	assert.Equal(t, 0.0, CalculateAPY(0.1, 0, 7))
	assert.Equal(t, 0.0, CalculateAPY(0.1, -1, 7))
	assert.Equal(t, 0.0, CalculateAPY(0.1, 0.9, 0))
	assert.Equal(t, 0.0, CalculateAPY(0.1, 0.9, -3))
}

func TestSplitMarketsByAnchor(t *testing.T) {
	markets := []domain.Market{
		buildMarket(100_000, 0.9, 0.1),
		buildMarket(130_000, 0.1, 0.9),
		buildMarket(110_000, 0.6, 0.4),
		buildMarket(120_000, 0.3, 0.7),
		{ID: "sin-strike"},
	}

	upside, downside := SplitMarketsByAnchor(markets, 113_000)

	strikes := func(ms []domain.Market) []float64 {
		out := make([]float64, len(ms))
		for i, m := range ms {
			out[i] = m.Strike.Value
		}
		return out
	}
	assert.Equal(t, []float64{130_000, 120_000}, strikes(upside))
	assert.Equal(t, []float64{110_000, 100_000}, strikes(downside))
}

func TestSplitMarketsByAnchor_EqualStrikeIsDownside(t *testing.T) {
	upside, downside := SplitMarketsByAnchor([]domain.Market{buildMarket(100, 0.5, 0.5)}, 100)
	assert.Empty(t, upside)
	require.Len(t, downside, 1)
}

func TestHighlightStrikes_SkipsNearestPerSide(t *testing.T) {
	e := New(DefaultConfig())
	markets := []domain.Market{
		buildMarket(90, 0.5, 0.5),
		buildMarket(95, 0.5, 0.5),
		buildMarket(105, 0.5, 0.5),
		buildMarket(110, 0.5, 0.5),
	}
	pairs := map[domain.StrikeKey]domain.DeltaNeutralPair{
		domain.KeyFor(90):  {Strike: 90, PnL: 0.12},
		domain.KeyFor(95):  {Strike: 95, PnL: 0.12},
		domain.KeyFor(105): {Strike: 105, PnL: 0.12},
		domain.KeyFor(110): {Strike: 110, PnL: 0.05},
	}

	highlights := e.HighlightStrikes(markets, pairs, 100)

	assert.Equal(t, map[domain.StrikeKey]bool{domain.KeyFor(90): true}, highlights)
}

func TestHighlightStrikes_ThresholdInclusive(t *testing.T) {
	e := New(DefaultConfig())
	markets := []domain.Market{
		buildMarket(105, 0.5, 0.5),
		buildMarket(110, 0.5, 0.5),
	}
	pairs := map[domain.StrikeKey]domain.DeltaNeutralPair{
		domain.KeyFor(110): {Strike: 110, PnL: 0.10},
	}

	highlights := e.HighlightStrikes(markets, pairs, 100)
	assert.True(t, highlights[domain.KeyFor(110)])
	assert.False(t, highlights[domain.KeyFor(105)])
}

func TestHighlightStrikes_SingleStrikeNeverHighlighted(t *testing.T) {
	e := New(DefaultConfig())
	markets := []domain.Market{buildMarket(110, 0.5, 0.5)}
	pairs := map[domain.StrikeKey]domain.DeltaNeutralPair{
		domain.KeyFor(110): {Strike: 110, PnL: 0.5},
	}

	assert.Empty(t, e.HighlightStrikes(markets, pairs, 100))
}
