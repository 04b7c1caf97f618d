// Package binance obtiene el precio spot que sirve de anchor para la escalera.
package binance

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/polyladder/internal/adapters/httpx"
	"github.com/alejandrodnm/polyladder/internal/domain"
)

const (
	defaultBase     = "https://api.binance.com"
	tickerPricePath = "/api/v3/ticker/price"

	// weight 2 por request sobre 6000/min: muy por debajo del límite
	ratePerSec = 10
	burst      = 5
)

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Client consulta precios spot en Binance.
type Client struct {
	http *httpx.Client
	base string
}

// NewClient crea un Client contra base. Si está vacío usa el URL de producción.
func NewClient(base string, opts ...httpx.Option) *Client {
	if base == "" {
		base = defaultBase
	}
	return &Client{
		http: httpx.New(ratePerSec, burst, opts...),
		base: base,
	}
}

// SpotPrice devuelve el último precio del par USDT del subyacente.
func (c *Client) SpotPrice(ctx context.Context, asset string) (float64, error) {
	a, ok := domain.LookupAsset(asset)
	if !ok || a.SpotSymbol == "" {
		return 0, fmt.Errorf("binance.SpotPrice: unknown asset %q", asset)
	}

	q := url.Values{}
	q.Set("symbol", a.SpotSymbol)

	var resp tickerPrice
	if err := c.http.GetJSON(ctx, c.base+tickerPricePath+"?"+q.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("binance.SpotPrice: %s: %w", a.SpotSymbol, err)
	}

	price, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("binance.SpotPrice: %s: invalid price %q", a.SpotSymbol, resp.Price)
	}
	return price, nil
}
