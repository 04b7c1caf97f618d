package ports

import (
	"context"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

// EventProvider obtiene eventos escalera de Polymarket.
type EventProvider interface {
	// FetchEvent devuelve el evento con sus mercados abiertos y con strike.
	FetchEvent(ctx context.Context, slug string) (domain.Event, error)

	// FetchSeriesEvents lista los eventos escalera activos del subyacente.
	FetchSeriesEvents(ctx context.Context, asset string) ([]domain.EventSummary, error)
}
