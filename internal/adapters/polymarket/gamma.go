package polymarket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

const (
	gammaEventsPath = "/events"
	gammaSearchPath = "/public-search"
)

// ErrEventNotFound indica que Gamma no devolvió ningún evento para el slug.
var ErrEventNotFound = errors.New("event not found")

// FetchEvent obtiene un evento por slug con sus mercados abiertos.
func (c *Client) FetchEvent(ctx context.Context, slug string) (domain.Event, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Event{}, fmt.Errorf("gamma.FetchEvent: empty slug")
	}

	q := url.Values{}
	q.Set("slug", slug)

	var resp gammaEventsResponse
	if err := c.http.GetJSON(ctx, c.gammaBase+gammaEventsPath+"?"+q.Encode(), &resp); err != nil {
		return domain.Event{}, fmt.Errorf("gamma.FetchEvent: %s: %w", slug, err)
	}
	if len(resp) == 0 {
		return domain.Event{}, fmt.Errorf("gamma.FetchEvent: %s: %w", slug, ErrEventNotFound)
	}

	event := mapEvent(resp[0], slug)
	slog.Debug("gamma event fetched",
		"slug", slug,
		"markets_raw", len(resp[0].Markets),
		"markets", len(event.Markets),
	)
	return event, nil
}

// FetchSeriesEvents lista los eventos escalera activos del subyacente, recorriendo
// las series configuradas en la tabla de assets. asset vacío recorre todos.
// Si las series de un subyacente no devuelven eventos se usan sus SearchQueries
// contra la búsqueda pública de Gamma.
// El resultado va ordenado por ranking del asset, volumen descendente y título.
func (c *Client) FetchSeriesEvents(ctx context.Context, asset string) ([]domain.EventSummary, error) {
	var targets []domain.AssetConfig
	if asset == "" {
		targets = domain.Assets()
	} else {
		a, ok := domain.LookupAsset(asset)
		if !ok {
			return nil, fmt.Errorf("gamma.FetchSeriesEvents: unknown asset %q", asset)
		}
		targets = []domain.AssetConfig{a}
	}

	best := make(map[string]domain.EventSummary)
	failures := 0
	requests := 0
	for _, a := range targets {
		found := 0
		for _, series := range a.SeriesSlugs {
			requests++
			events, err := c.fetchSeries(ctx, series)
			if err != nil {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("gamma.FetchSeriesEvents: %w", ctx.Err())
				}
				failures++
				slog.Debug("gamma series failed, skipping", "series", series, "err", err)
				continue
			}
			found += len(events)
			collectLadders(best, a, events)
		}

		// series vacías o caídas: se prueba la búsqueda pública
		if found > 0 {
			continue
		}
		for _, query := range a.SearchQueries {
			events, err := c.search(ctx, query)
			if err != nil {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("gamma.FetchSeriesEvents: %w", ctx.Err())
				}
				slog.Debug("gamma search failed, skipping", "query", query, "err", err)
				continue
			}
			collectLadders(best, a, events)
		}
	}

	if requests > 0 && failures == requests && len(best) == 0 {
		return nil, fmt.Errorf("gamma.FetchSeriesEvents: all %d series requests failed", requests)
	}

	out := make([]domain.EventSummary, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := domain.AssetRank(out[i].Asset), domain.AssetRank(out[j].Asset)
		if ri != rj {
			return ri < rj
		}
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

func (c *Client) fetchSeries(ctx context.Context, series string) (gammaEventsResponse, error) {
	q := url.Values{}
	q.Set("series_slug", series)
	q.Set("active", "true")
	q.Set("closed", "false")

	var resp gammaEventsResponse
	if err := c.http.GetJSON(ctx, c.gammaBase+gammaEventsPath+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) search(ctx context.Context, query string) ([]gammaEvent, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("events_status", "active")

	var resp gammaSearchResponse
	if err := c.http.GetJSON(ctx, c.gammaBase+gammaSearchPath+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// collectLadders añade a best las escaleras del subyacente; ante duplicados gana el mayor volumen.
func collectLadders(best map[string]domain.EventSummary, a domain.AssetConfig, events []gammaEvent) {
	for _, ge := range events {
		if ge.Slug == "" {
			continue
		}
		cand := candidate(ge)
		if !domain.MatchesAsset(cand, a) || !domain.IsLadderEvent(cand, a) {
			continue
		}
		summary := domain.EventSummary{
			Title:      ge.Title,
			Slug:       ge.Slug,
			Asset:      a.Symbol,
			Volume:     float64(ge.Volume),
			NumMarkets: len(ge.Markets),
		}
		if summary.Title == "" {
			summary.Title = ge.Slug
		}
		key := a.Symbol + "|" + ge.Slug
		if cur, ok := best[key]; !ok || summary.Volume > cur.Volume {
			best[key] = summary
		}
	}
}
