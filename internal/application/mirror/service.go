// Package mirror orquesta un ciclo completo sobre un evento escalera:
// fetch del evento y del anchor, cálculo de la estrategia, persistencia del
// snapshot de inputs y notificación.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/alejandrodnm/polyladder/internal/domain"
	"github.com/alejandrodnm/polyladder/internal/ports"
	"github.com/alejandrodnm/polyladder/internal/strategy"
)

// Config contiene la configuración del servicio.
type Config struct {
	RefreshInterval time.Duration
	Workers         int // goroutines para MirrorMany (0 = NumCPU*2)
	Once            bool

	// Defaults para requests que no traen su propio valor.
	Budget      float64
	Bias        float64
	RiskCap     float64
	GridPercent float64 // rango del grid de escenarios, 0 = default
}

// DefaultConfig devuelve la configuración por defecto.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 60 * time.Second,
		Budget:          100,
	}
}

// Request describe un evento a espejar y los parámetros de la asignación.
// Bias y RiskCap nil usan el default de Config; un puntero a 0 es un valor explícito
// (reparto 50/50, sin límite de riesgo).
type Request struct {
	Slug    string
	Asset   string  // vacío = se infiere del evento
	Budget  float64 // 0 = Config.Budget
	Bias    *float64
	RiskCap *float64
	Anchor  float64 // > 0 fija el anchor manualmente y evita consultar el spot
	// SubjectiveProb en (0, 1) añade el EV de cada orden. 0 = sin EV.
	SubjectiveProb float64
}

// Service es el orquestador de mirror. Storage y notifier son opcionales.
type Service struct {
	cfg      Config
	engine   *strategy.Engine
	events   ports.EventProvider
	prices   ports.PriceProvider
	store    ports.SnapshotStorage
	notifier ports.Notifier
	now      func() time.Time
}

// New crea un Service con todas las dependencias inyectadas.
func New(
	cfg Config,
	engine *strategy.Engine,
	events ports.EventProvider,
	prices ports.PriceProvider,
	store ports.SnapshotStorage,
	notifier ports.Notifier,
) *Service {
	def := DefaultConfig()
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = def.RefreshInterval
	}
	if cfg.Budget <= 0 {
		cfg.Budget = def.Budget
	}
	if engine == nil {
		engine = strategy.New(strategy.DefaultConfig())
	}
	return &Service{
		cfg:      cfg,
		engine:   engine,
		events:   events,
		prices:   prices,
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Mirror ejecuta un ciclo sobre un evento y devuelve el reporte.
// Si el spot falla, usa el anchor del último snapshot guardado.
func (s *Service) Mirror(ctx context.Context, req Request) (domain.MirrorReport, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return domain.MirrorReport{}, errors.New("mirror.Mirror: empty slug")
	}

	event, err := s.events.FetchEvent(ctx, slug)
	if err != nil {
		return domain.MirrorReport{}, fmt.Errorf("mirror.Mirror: fetch event: %w", err)
	}

	asset := resolveAsset(req.Asset, event)
	anchor, source, err := s.anchor(ctx, slug, asset, req.Anchor)
	if err != nil {
		return domain.MirrorReport{}, fmt.Errorf("mirror.Mirror: %s: %w", slug, err)
	}

	snap := domain.LadderSnapshot{
		Slug:    slug,
		Asset:   asset,
		Anchor:  anchor,
		TakenAt: s.now(),
		Markets: event.Markets,
	}
	if s.store != nil && source != domain.AnchorSnapshot {
		id, err := s.store.SaveSnapshot(ctx, snap)
		if err != nil {
			slog.Warn("snapshot save failed", "slug", slug, "err", err)
		} else {
			snap.ID = id
		}
	}

	report := s.compute(req, event.Title, snap)
	report.AnchorSource = source

	slog.Debug("mirror computed",
		"slug", slug,
		"asset", asset,
		"anchor", anchor,
		"anchor_source", source,
		"markets", len(event.Markets),
		"orders", len(report.Orders),
		"pairs", len(report.Pairs),
	)
	return report, nil
}

// Replay recalcula el último snapshot guardado del evento sin tocar la red.
func (s *Service) Replay(ctx context.Context, req Request) (domain.MirrorReport, error) {
	if s.store == nil {
		return domain.MirrorReport{}, errors.New("mirror.Replay: no snapshot storage configured")
	}
	slug := strings.TrimSpace(req.Slug)
	snap, err := s.store.LatestSnapshot(ctx, slug)
	if err != nil {
		return domain.MirrorReport{}, fmt.Errorf("mirror.Replay: %s: %w", slug, err)
	}

	source := domain.AnchorSnapshot
	if req.Anchor > 0 {
		snap.Anchor = req.Anchor
		source = domain.AnchorManual
	}
	if req.Asset != "" {
		snap.Asset = strings.ToUpper(req.Asset)
	}

	report := s.compute(req, snap.Slug, snap)
	report.AnchorSource = source
	return report, nil
}

// Scenario proyecta un par sobre el grid de precios. Sin anchor usa el spot.
func (s *Service) Scenario(ctx context.Context, req domain.ScenarioRequest) (domain.ScenarioResult, error) {
	if req.Anchor <= 0 {
		if s.prices == nil {
			return domain.ScenarioResult{}, errors.New("mirror.Scenario: no anchor and no price provider")
		}
		spot, err := s.prices.SpotPrice(ctx, req.Asset)
		if err != nil {
			return domain.ScenarioResult{}, fmt.Errorf("mirror.Scenario: spot: %w", err)
		}
		req.Anchor = spot
	}
	if req.GridPercent <= 0 {
		req.GridPercent = s.cfg.GridPercent
	}
	return strategy.SimulatePairScenario(req), nil
}

// History devuelve los snapshots guardados del evento desde since hasta ahora,
// en orden cronológico y sin mercados.
func (s *Service) History(ctx context.Context, slug string, since time.Duration) ([]domain.LadderSnapshot, error) {
	if s.store == nil {
		return nil, errors.New("mirror.History: no snapshot storage configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("mirror.History: empty slug")
	}
	to := s.now()
	snaps, err := s.store.ListSnapshots(ctx, slug, to.Add(-since), to)
	if err != nil {
		return nil, fmt.Errorf("mirror.History: %s: %w", slug, err)
	}
	return snaps, nil
}

// ListEvents lista los eventos escalera activos del subyacente ("" = todos).
func (s *Service) ListEvents(ctx context.Context, asset string) ([]domain.EventSummary, error) {
	events, err := s.events.FetchSeriesEvents(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("mirror.ListEvents: %w", err)
	}
	return events, nil
}

// compute es la parte pura del ciclo: del snapshot de inputs al reporte.
func (s *Service) compute(req Request, title string, snap domain.LadderSnapshot) domain.MirrorReport {
	budget := req.Budget
	if budget <= 0 {
		budget = s.cfg.Budget
	}
	bias := s.cfg.Bias
	if req.Bias != nil {
		bias = *req.Bias
	}
	riskCap := s.cfg.RiskCap
	if req.RiskCap != nil {
		riskCap = math.Max(*req.RiskCap, 0)
	}

	days := strategy.DaysToExpiry(snap.Slug, s.now())
	orders, summary := s.engine.SymmetricStrategy(snap.Markets, strategy.SymmetricParams{
		Anchor:         snap.Anchor,
		Budget:         budget,
		Bias:           bias,
		RiskCap:        riskCap,
		SubjectiveProb: req.SubjectiveProb,
	})
	pairs := s.engine.DeltaNeutralPairs(snap.Markets, snap.Anchor, days)

	return domain.MirrorReport{
		Slug:         snap.Slug,
		Title:        title,
		Asset:        snap.Asset,
		Anchor:       snap.Anchor,
		Budget:       budget,
		Bias:         bias,
		RiskCap:      riskCap,
		DaysToExpiry: days,
		Markets:      snap.Markets,
		Orders:       orders,
		Summary:      summary,
		Pairs:        pairs,
		Highlights:   s.engine.HighlightStrikes(snap.Markets, pairs, snap.Anchor),
		SnapshotID:   snap.ID,
		GeneratedAt:  s.now(),
	}
}

// anchor resuelve el precio de referencia: manual, spot o último snapshot.
func (s *Service) anchor(ctx context.Context, slug, asset string, manual float64) (float64, domain.AnchorSource, error) {
	if manual > 0 {
		return manual, domain.AnchorManual, nil
	}

	var spotErr error
	if s.prices != nil && asset != "" {
		spot, err := s.prices.SpotPrice(ctx, asset)
		if err == nil && spot > 0 {
			return spot, domain.AnchorSpot, nil
		}
		spotErr = err
		if spotErr == nil {
			spotErr = fmt.Errorf("invalid spot price %v", spot)
		}
	} else {
		spotErr = fmt.Errorf("no spot source for asset %q", asset)
	}

	if s.store != nil {
		snap, err := s.store.LatestSnapshot(ctx, slug)
		if err == nil && snap.Anchor > 0 {
			slog.Warn("spot unavailable, using snapshot anchor",
				"slug", slug,
				"anchor", snap.Anchor,
				"taken_at", snap.TakenAt,
				"err", spotErr,
			)
			return snap.Anchor, domain.AnchorSnapshot, nil
		}
	}
	return 0, "", fmt.Errorf("anchor: %w", spotErr)
}

// resolveAsset usa el subyacente pedido o lo infiere del evento.
func resolveAsset(requested string, event domain.Event) string {
	if requested != "" {
		return strings.ToUpper(strings.TrimSpace(requested))
	}
	c := domain.LadderCandidate{
		Title:       event.Title,
		Slug:        event.Slug,
		SeriesSlug:  event.SeriesSlug,
		Description: event.Description,
		Tags:        event.Tags,
	}
	for _, a := range domain.Assets() {
		if domain.MatchesAsset(c, a) {
			return a.Symbol
		}
	}
	return ""
}
