package polymarket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_EventFixture(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/gamma_event_btc.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	event, err := newTestClient(srv).FetchEvent(context.Background(), "bitcoin-above-on-october-5")
	require.NoError(t, err)

	assert.Equal(t, "48211", event.ID)
	assert.Equal(t, "Bitcoin above ___ on October 5?", event.Title)
	assert.Equal(t, "btc-multi-strikes-weekly", event.SeriesSlug)
	assert.Equal(t, []string{"Crypto", "Bitcoin"}, event.Tags)
	assert.Equal(t, "2025-10-05T16:00:00Z", event.ResolveTime)
	assert.InDelta(t, 1843201.55, event.Volume, 0.001)

	// cerrados, sin órdenes y sin strike quedan fuera
	require.Len(t, event.Markets, 5)
	ids := make([]string, len(event.Markets))
	for i, m := range event.Markets {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"601001", "601002", "601003", "601004", "601008"}, ids)

	m := event.Markets[1]
	assert.Equal(t, 110_000.0, m.Strike.Value)
	assert.Equal(t, "USD", m.Strike.Unit)
	assert.Equal(t, 0.87, m.YesPrice)
	assert.Equal(t, 0.13, m.NoPrice)
	assert.Equal(t, 0.01, m.Spread)
	assert.Equal(t, "binary", m.OutcomeType)
	require.NotNil(t, m.Liquidity)
	assert.InDelta(t, 22011.0, *m.Liquidity, 0.001)

	assert.True(t, event.Markets[0].IsResolved())
}

func TestMapping_OutcomePricesArrayAndStringNumbers(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/gamma_event_btc.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	event, err := newTestClient(srv).FetchEvent(context.Background(), "bitcoin-above-on-october-5")
	require.NoError(t, err)

	m := event.Markets[2]
	assert.Equal(t, 0.61, m.YesPrice)
	assert.Equal(t, 0.39, m.NoPrice)
	assert.Equal(t, 0.02, m.Spread)
	require.NotNil(t, m.Liquidity)
	assert.InDelta(t, 18044.7, *m.Liquidity, 0.001)

	// sin liquidez ni spread: nil y default
	assert.Nil(t, event.Markets[3].Liquidity)

	// sin outcomePrices: 0.5 / 0.5
	last := event.Markets[4]
	assert.Equal(t, 0.5, last.YesPrice)
	assert.Equal(t, 0.5, last.NoPrice)
	assert.Equal(t, 0.02, last.Spread)
}

func TestMapping_FallbacksFromSlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"markets":[{"question":"Will ETH be above $4,000?","outcomePrices":"[\"\", \"0.4\"]"}]}]`))
	}))
	defer srv.Close()

	event, err := newTestClient(srv).FetchEvent(context.Background(), "eth-ladder")
	require.NoError(t, err)

	assert.Equal(t, "eth-ladder", event.Slug)
	assert.Equal(t, "eth-ladder", event.ID)
	assert.Equal(t, "eth-ladder", event.Title)
	require.Len(t, event.Markets, 1)
	assert.Equal(t, "market_0", event.Markets[0].ID)
	assert.Equal(t, 0.5, event.Markets[0].YesPrice)
	assert.Equal(t, 0.4, event.Markets[0].NoPrice)
}
