package ports

import "context"

// PriceProvider devuelve el precio spot del subyacente, usado como anchor.
type PriceProvider interface {
	SpotPrice(ctx context.Context, asset string) (float64, error)
}
