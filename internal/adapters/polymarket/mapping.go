package polymarket

import (
	"fmt"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

const (
	defaultOutcomePrice = 0.5
	defaultSpread       = 0.02
	defaultOutcomeType  = "binary"
)

// mapEvent convierte un gammaEvent DTO a domain.Event.
func mapEvent(ge gammaEvent, slug string) domain.Event {
	e := domain.Event{
		ID:          ge.ID,
		Title:       ge.Title,
		Description: ge.Description,
		Slug:        ge.Slug,
		SeriesSlug:  seriesSlug(ge),
		Markets:     mapMarkets(ge.Markets),
		ResolveTime: ge.EndDate,
		Tags:        tagLabels(ge.Tags),
		Volume:      float64(ge.Volume),
	}
	if e.Slug == "" {
		e.Slug = slug
	}
	if e.ID == "" {
		e.ID = e.Slug
	}
	if e.Title == "" {
		e.Title = e.Slug
	}
	return e
}

// mapMarkets convierte los mercados del evento. Se descartan los cerrados, los que
// no aceptan órdenes y los que no tienen un strike reconocible en la pregunta.
func mapMarkets(raw []gammaMarket) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for i, r := range raw {
		if r.Closed || (r.AcceptingOrders != nil && !*r.AcceptingOrders) {
			continue
		}
		strike, ok := domain.ExtractStrike(r.Question)
		if !ok {
			continue
		}
		m := mapMarket(r, strike)
		if m.ID == "" {
			m.ID = fmt.Sprintf("market_%d", i)
		}
		markets = append(markets, m)
	}
	return markets
}

func mapMarket(r gammaMarket, strike domain.Strike) domain.Market {
	yes, no := outcomePrices(r.OutcomePrices)

	m := domain.Market{
		ID:          r.ID,
		Question:    r.Question,
		OutcomeType: r.MarketType,
		Strike:      strike,
		YesPrice:    yes,
		NoPrice:     no,
		Spread:      defaultSpread,
		EndDate:     r.EndDate,
	}
	if m.OutcomeType == "" {
		m.OutcomeType = defaultOutcomeType
	}
	if m.EndDate == "" {
		m.EndDate = r.EndDateISO
	}
	if r.Spread != nil {
		m.Spread = float64(*r.Spread)
	}

	switch {
	case r.LiquidityNum != nil && *r.LiquidityNum != 0:
		v := float64(*r.LiquidityNum)
		m.Liquidity = &v
	case r.Liquidity != nil:
		v := float64(*r.Liquidity)
		m.Liquidity = &v
	}
	return m
}

// outcomePrices devuelve los precios YES/NO. Precios ausentes o vacíos valen 0.5.
func outcomePrices(raw stringList) (yes, no float64) {
	yes, no = defaultOutcomePrice, defaultOutcomePrice
	if len(raw) < 2 {
		return yes, no
	}
	if v := domain.ParsePrice(raw[0]); raw[0] != "" {
		yes = v
	}
	if v := domain.ParsePrice(raw[1]); raw[1] != "" {
		no = v
	}
	return yes, no
}

func seriesSlug(ge gammaEvent) string {
	if ge.SeriesSlug != "" {
		return ge.SeriesSlug
	}
	for _, s := range ge.Series {
		if s.Slug != "" {
			return s.Slug
		}
	}
	return ""
}

func tagLabels(tags []gammaTag) []string {
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Label != "" {
			labels = append(labels, t.Label)
		}
	}
	return labels
}

// candidate construye la vista del evento que usa la clasificación de escaleras.
func candidate(ge gammaEvent) domain.LadderCandidate {
	return domain.LadderCandidate{
		Title:       ge.Title,
		Slug:        ge.Slug,
		Ticker:      ge.Ticker,
		SeriesSlug:  seriesSlug(ge),
		Description: ge.Description,
		Tags:        tagLabels(ge.Tags),
	}
}
