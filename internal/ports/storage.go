package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

// SnapshotStorage persiste los inputs de cada cálculo (anchor y mercados) para
// poder recalcular sin red. Nunca guarda estrategias calculadas.
type SnapshotStorage interface {
	// SaveSnapshot persiste el snapshot y devuelve su ID.
	SaveSnapshot(ctx context.Context, snap domain.LadderSnapshot) (string, error)

	// LatestSnapshot devuelve el snapshot más reciente del evento.
	// Devuelve domain.ErrSnapshotNotFound si no hay ninguno.
	LatestSnapshot(ctx context.Context, slug string) (domain.LadderSnapshot, error)

	// ListSnapshots devuelve los snapshots del evento en el rango dado, sin mercados.
	ListSnapshots(ctx context.Context, slug string, from, to time.Time) ([]domain.LadderSnapshot, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
