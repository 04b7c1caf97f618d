package polymarket

import (
	"github.com/alejandrodnm/polyladder/internal/adapters/httpx"
)

const (
	defaultGammaBase = "https://gamma-api.polymarket.com"

	// Gamma /events: 500/10s documentado, usamos el 60% → 30/s.
	gammaRatePerSec = 30
	gammaBurst      = 10
)

// Client es el cliente de la API Gamma de Polymarket.
// Es seguro para uso concurrente.
type Client struct {
	http      *httpx.Client
	gammaBase string
}

// NewClient crea un Client contra gammaBase. Si está vacío usa el URL de producción.
func NewClient(gammaBase string, opts ...httpx.Option) *Client {
	if gammaBase == "" {
		gammaBase = defaultGammaBase
	}
	return &Client{
		http:      httpx.New(gammaRatePerSec, gammaBurst, opts...),
		gammaBase: gammaBase,
	}
}
