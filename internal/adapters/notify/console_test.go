package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alejandrodnm/polyladder/internal/adapters/notify"
	"github.com/alejandrodnm/polyladder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReport() domain.MirrorReport {
	ev := 12.5
	return domain.MirrorReport{
		Slug:         "bitcoin-above-on-october-5",
		Title:        "Bitcoin above ___ on October 5?",
		Asset:        "BTC",
		Anchor:       111_234.5,
		AnchorSource: domain.AnchorSpot,
		Budget:       1000,
		DaysToExpiry: 16,
		Markets:      make([]domain.Market, 4),
		Orders: []domain.OrderRecommendation{
			{MarketID: "601002", Strike: 110_000, Side: domain.SideYes, Units: 600, LimitPrice: 0.875, Cost: 522, MaxProfit: 76.44, MaxLoss: 522, EV: &ev},
			{MarketID: "601003", Strike: 112_000, Side: domain.SideNo, Units: 1200, LimitPrice: 0.395, Cost: 468, MaxProfit: 717.36, MaxLoss: 468},
		},
		Summary: domain.PortfolioSummary{TotalCost: 990, MaxLoss: 990, MaxProfit: 793.8, UpSideCost: 468, DownSideCost: 522, NumOrders: 2},
		Pairs: map[domain.StrikeKey]domain.DeltaNeutralPair{
			domain.KeyFor(110_000): {Strike: 110_000, YesStrike: 108_000, NoStrike: 110_000, YesPrice: 0.22, NoPrice: 0.65, Cost: 0.87, PnL: 0.13, Direction: domain.DirectionDownside, APY: 340.9},
			domain.KeyFor(112_000): {Strike: 112_000, YesStrike: 114_000, NoStrike: 112_000, YesPrice: 0.20, NoPrice: 0.72, Cost: 0.92, PnL: 0.08, Direction: domain.DirectionUpside, APY: 198.4},
		},
		Highlights:  map[domain.StrikeKey]bool{domain.KeyFor(110_000): true},
		SnapshotID:  "snap-1",
		GeneratedAt: time.Date(2025, 9, 20, 12, 30, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	f, err := notify.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, notify.FormatTable, f)

	f, err = notify.ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, notify.FormatJSON, f)

	_, err = notify.ParseFormat("html")
	assert.Error(t, err)
}

func TestConsole_NotifyMirror_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsole(&buf, notify.FormatTable)

	require.NoError(t, n.NotifyMirror(context.Background(), makeReport()))

	out := buf.String()
	assert.Contains(t, out, "Bitcoin above ___ on October 5?")
	assert.Contains(t, out, "https://polymarket.com/event/bitcoin-above-on-october-5")
	assert.Contains(t, out, "Anchor BTC 11123")
	assert.Contains(t, out, "expiry 16d")
	assert.Contains(t, out, "$522.00")
	assert.Contains(t, out, "$12.50")
	assert.Contains(t, out, "108000")
	assert.Contains(t, out, "87.0")
	assert.Contains(t, out, "13.0")
	assert.Contains(t, out, "downside")
	assert.Contains(t, out, "*")
}

func TestConsole_NotifyMirror_NoOrders(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsole(&buf, notify.FormatTable)

	r := makeReport()
	r.Orders = nil
	r.Pairs = nil
	require.NoError(t, n.NotifyMirror(context.Background(), r))
	assert.Contains(t, buf.String(), "No orders")
}

func TestConsole_NotifyMirror_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsole(&buf, notify.FormatCompact)

	require.NoError(t, n.NotifyMirror(context.Background(), makeReport()))

	out := buf.String()
	assert.Contains(t, out, "[12:30:00] bitcoin-above-on-october-5")
	assert.Contains(t, out, "2 orders cost $990.00")
	assert.Contains(t, out, "*110000 pnl 13.0¢")
	assert.NotContains(t, out, "*112000")
}

func TestConsole_NotifyMirror_JSON(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsole(&buf, notify.FormatJSON)

	require.NoError(t, n.NotifyMirror(context.Background(), makeReport()))

	var got struct {
		Event struct {
			Slug       string `json:"slug"`
			NumMarkets int    `json:"num_markets"`
		} `json:"event"`
		Anchor float64 `json:"anchor"`
		Orders []struct {
			Side  string   `json:"side"`
			Units int      `json:"units"`
			EV    *float64 `json:"ev"`
		} `json:"orders"`
		Summary struct {
			NumOrders int `json:"num_orders"`
		} `json:"summary"`
		Pairs []struct {
			Strike    float64 `json:"strike"`
			Highlight bool    `json:"highlight"`
		} `json:"pairs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "bitcoin-above-on-october-5", got.Event.Slug)
	assert.Equal(t, 4, got.Event.NumMarkets)
	assert.Equal(t, 111_234.5, got.Anchor)
	require.Len(t, got.Orders, 2)
	assert.Equal(t, "YES", got.Orders[0].Side)
	require.NotNil(t, got.Orders[0].EV)
	assert.Nil(t, got.Orders[1].EV)
	assert.Equal(t, 2, got.Summary.NumOrders)
	require.Len(t, got.Pairs, 2)
	assert.Equal(t, 110_000.0, got.Pairs[0].Strike)
	assert.True(t, got.Pairs[0].Highlight)
	assert.False(t, got.Pairs[1].Highlight)
}

func TestConsole_PrintEvents(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsole(&buf, notify.FormatTable)

	n.PrintEvents([]domain.EventSummary{
		{Title: "Solana above ___ on October 5?", Slug: "solana-above-on-october-5", Asset: "SOL", Volume: 1_843_201, NumMarkets: 11},
	})
	out := buf.String()
	assert.Contains(t, out, "solana-above-on-october-5")
	assert.Contains(t, out, "$1.8M")

	buf.Reset()
	n.PrintEvents(nil)
	assert.Contains(t, buf.String(), "No ladder events found")
}

func TestConsole_PrintEvents_TruncatesLongTitles(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsole(&buf, notify.FormatTable)

	n.PrintEvents([]domain.EventSummary{{
		Title:  "What price will Bitcoin hit in the week of October 5 to October 12 endmarker",
		Slug:   "bitcoin-weekly",
		Asset:  "BTC",
		Volume: 10,
	}})
	out := buf.String()
	assert.Contains(t, out, "week of...")
	assert.NotContains(t, out, "endmarker")
}

func TestConsole_PrintHistory(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsole(&buf, notify.FormatTable)

	n.PrintHistory("bitcoin-above-on-october-5", []domain.LadderSnapshot{
		{ID: "snap-1", Asset: "BTC", Anchor: 99_500, TakenAt: time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC)},
		{ID: "snap-2", Asset: "BTC", Anchor: 101_250, TakenAt: time.Date(2025, 9, 20, 11, 0, 0, 0, time.UTC)},
	})
	out := buf.String()
	assert.Contains(t, out, "2 snapshots")
	assert.Contains(t, out, "2025-09-20 11:00:00")
	assert.Contains(t, out, "101250")
	assert.Contains(t, out, "snap-2")

	buf.Reset()
	n.PrintHistory("bitcoin-above-on-october-5", nil)
	assert.Contains(t, buf.String(), "No snapshots for bitcoin-above-on-october-5")
}

func TestConsole_PrintScenario(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsole(&buf, notify.FormatTable)

	n.PrintScenario(domain.ScenarioResult{
		Asset:  "ETH",
		Prices: []float64{3700, 3800, 3900},
		Rows: []domain.ScenarioRow{
			{Label: "YES 3700", Values: []float64{0.31, 0.40, 0.52}},
			{Label: "NO 3900", Values: []float64{0.61, 0.45, 0.33}},
		},
		ReturnRow:      []float64{123, 125, 137},
		Invested:       125,
		HighlightIndex: 1,
		AnchorPrice:    3822,
		YesUnits:       200,
		NoUnits:        100,
		YesLabel:       "YES 3700",
		NoLabel:        "NO 3900",
	})

	out := buf.String()
	assert.Contains(t, out, "YES 3700 x200")
	assert.Contains(t, out, "invested $125.00")
	assert.Contains(t, out, "3800")
	assert.Contains(t, out, "40.0")
	assert.Contains(t, out, "125.00")
}

func TestConsole_PrintScenario_Empty(t *testing.T) {
	var buf bytes.Buffer
	notify.NewConsole(&buf, notify.FormatTable).PrintScenario(domain.ScenarioResult{HighlightIndex: -1})
	assert.Contains(t, buf.String(), "invalid anchor")
}
