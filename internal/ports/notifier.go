package ports

import (
	"context"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

// Notifier presenta el resultado de un ciclo de mirror al usuario.
type Notifier interface {
	// NotifyMirror muestra órdenes, resumen y pares de un evento.
	// En la implementación de consola, imprime tablas formateadas.
	NotifyMirror(ctx context.Context, report domain.MirrorReport) error
}
