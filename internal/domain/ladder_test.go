package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCentsNoRound(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.163, "16.3"},
		{0.1667, "16.6"},
		{0.5, "50.0"},
		{0.999, "99.9"},
		{1, "100.0"},
		{0.0004, "0.0"},
		{0, "0.0"},
		{-0.2, "0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCentsNoRound(tt.in), "in=%v", tt.in)
	}
}

func TestTruncateQuestion(t *testing.T) {
	assert.Equal(t, "mkt-1", TruncateQuestion("", "mkt-1", 10))
	assert.Equal(t, "abcde...", TruncateQuestion("abcdefghijkl", "", 8))
	assert.Equal(t, "short", TruncateQuestion("short", "", 8))
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 0.42, ParsePrice("0.42"))
	assert.Equal(t, 0.0, ParsePrice(""))
	assert.Equal(t, 0.0, ParsePrice("abc"))
}

func TestExtractStrike(t *testing.T) {
	tests := []struct {
		text  string
		value float64
		unit  string
	}{
		{"Will Bitcoin reach $120k by October?", 120_000, "KUSD"},
		{"Will Bitcoin be above 112.5K on October 5?", 112_500, "KUSD"},
		{"Will the price of Bitcoin be above $108,000 on October 5?", 108_000, "USD"},
		{"Will Ethereum be above 4,200 on October 5?", 4_200, "USD"},
		{"Will XRP be above $2.5 on October 5?", 2.5, "USD"},
		{"Will Solana market cap hit $1.5M?", 1_500_000, "USD"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s, ok := ExtractStrike(tt.text)
			require.True(t, ok)
			assert.InDelta(t, tt.value, s.Value, 1e-9)
			assert.Equal(t, tt.unit, s.Unit)
			assert.NotEmpty(t, s.Raw)
		})
	}
}

func TestExtractStrike_NoNumber(t *testing.T) {
	_, ok := ExtractStrike("Will it rain tomorrow?")
	assert.False(t, ok)
}

func TestStrikeKey(t *testing.T) {
	assert.Equal(t, KeyFor(0.3), KeyFor(0.1+0.2))
	assert.Equal(t, StrikeKey(247), KeyFor(2.47))
	assert.Equal(t, 2.47, KeyFor(2.47).Float64())
	assert.Equal(t, 110_000.0, KeyFor(110_000).Float64())

	pairs := map[StrikeKey]DeltaNeutralPair{
		KeyFor(1100): {},
		KeyFor(900):  {},
		KeyFor(1000): {},
	}
	assert.Equal(t, []StrikeKey{90_000, 100_000, 110_000}, SortedKeys(pairs))
}

func TestMarket_ResolvedAndStrike(t *testing.T) {
	assert.True(t, Market{YesPrice: 0.995, NoPrice: 0.005}.IsResolved())
	assert.True(t, Market{YesPrice: 0.01, NoPrice: 0.99}.IsResolved())
	assert.False(t, Market{YesPrice: 0.6, NoPrice: 0.4}.IsResolved())

	_, ok := StrikeValue(Market{})
	assert.False(t, ok)
	v, ok := StrikeValue(Market{Strike: Strike{Value: 100}})
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestSortByStrike(t *testing.T) {
	in := []Market{
		{ID: "c", Strike: Strike{Value: 300}},
		{ID: "none"},
		{ID: "a", Strike: Strike{Value: 100}},
		{ID: "b", Strike: Strike{Value: 200}},
	}

	out := SortByStrike(in)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
	// la entrada no se modifica
	assert.Equal(t, "c", in[0].ID)
}

func TestSummarize(t *testing.T) {
	orders := []OrderRecommendation{
		{Side: SideYes, Cost: 10, MaxLoss: 10, MaxProfit: 20},
		{Side: SideNo, Cost: 5, MaxLoss: 5, MaxProfit: 1},
	}
	s := Summarize(orders)
	assert.Equal(t, 15.0, s.TotalCost)
	assert.Equal(t, 15.0, s.MaxLoss)
	assert.Equal(t, 21.0, s.MaxProfit)
	assert.Equal(t, 10.0, s.DownSideCost)
	assert.Equal(t, 5.0, s.UpSideCost)
	assert.Equal(t, 2, s.NumOrders)
}

func TestLookupAssetAndGridStep(t *testing.T) {
	a, ok := LookupAsset(" btc ")
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", a.SpotSymbol)

	_, ok = LookupAsset("DOGE")
	assert.False(t, ok)

	assert.Equal(t, 100.0, GridStep("eth", 3822))
	assert.InDelta(t, 0.002, GridStep("DOGE", 0.2), 1e-12)
	assert.Equal(t, 1, AssetRank("eth"))
	assert.Equal(t, len(Assets()), AssetRank("DOGE"))
}

func TestLadderClassification_Solana(t *testing.T) {
	sol, _ := LookupAsset("SOL")

	weekly := LadderCandidate{
		Title: "Solana above ___ on October 5?",
		Slug:  "solana-above-on-october-5",
		Tags:  []string{"Crypto", "Solana"},
	}
	monthly := LadderCandidate{
		Title: "What price will Solana hit in October?",
		Slug:  "what-price-will-solana-hit-in-october",
	}
	etf := LadderCandidate{
		Title: "Will a Solana ETF be approved in 2025?",
		Slug:  "solana-etf-approved-2025",
	}
	btc := LadderCandidate{
		Title: "Bitcoin above ___ on October 5?",
		Slug:  "bitcoin-above-on-october-5",
		Tags:  []string{"Bitcoin"},
	}

	assert.True(t, MatchesAsset(weekly, sol))
	assert.True(t, IsLadderEvent(weekly, sol))
	assert.True(t, MatchesAsset(monthly, sol))
	assert.True(t, IsLadderEvent(monthly, sol))
	assert.True(t, MatchesAsset(etf, sol))
	assert.False(t, IsLadderEvent(etf, sol))
	assert.False(t, MatchesAsset(btc, sol))
}

func TestIsLadderEvent_SeriesSlug(t *testing.T) {
	btc, _ := LookupAsset("BTC")
	assert.True(t, IsLadderEvent(LadderCandidate{SeriesSlug: "btc-multi-strikes-weekly"}, btc))
	assert.True(t, IsLadderEvent(LadderCandidate{Tags: []string{"Multi Strikes"}}, btc))
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "$1.8M", FormatVolume(1_843_201.55))
	assert.Equal(t, "$12.3k", FormatVolume(12_300))
	assert.Equal(t, "$950", FormatVolume(950))
	assert.Equal(t, "-", FormatVolume(0))
}
