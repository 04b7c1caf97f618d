package mirror

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Run ejecuta el loop de refresco hasta que el contexto se cancele.
// Si cfg.Once está activo, solo ejecuta un ciclo y devuelve su error.
func (s *Service) Run(ctx context.Context, reqs []Request) error {
	if len(reqs) == 0 {
		return errors.New("mirror.Run: no events to mirror")
	}

	slog.Info("mirror starting",
		"events", len(reqs),
		"interval", s.cfg.RefreshInterval,
		"once", s.cfg.Once,
		"workers", s.cfg.Workers,
	)

	if err := s.runCycle(ctx, reqs); err != nil {
		slog.Error("mirror cycle failed", "err", err)
		if s.cfg.Once {
			return err
		}
	}
	if s.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("mirror stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx, reqs); err != nil {
				slog.Error("mirror cycle failed", "err", err)
			}
		}
	}
}

// errNoReports indica que ningún evento del ciclo pudo calcularse.
var errNoReports = errors.New("no event could be mirrored")

// runCycle espeja todos los eventos y notifica cada reporte.
func (s *Service) runCycle(ctx context.Context, reqs []Request) error {
	start := time.Now()

	reports := s.MirrorMany(ctx, reqs)
	if len(reports) == 0 {
		return errNoReports
	}

	if s.notifier != nil {
		for _, r := range reports {
			if err := s.notifier.NotifyMirror(ctx, r); err != nil {
				slog.Warn("notifier error", "slug", r.Slug, "err", err)
			}
		}
	}

	slog.Info("mirror cycle complete",
		"events", len(reqs),
		"reports", len(reports),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
