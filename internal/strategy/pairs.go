package strategy

import (
	"sort"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

// DeltaNeutralPairs forma un par por strike abierto: NO en el strike y YES en el
// strike abierto adyacente, el inferior si el strike está en el lado bajista
// (strike <= anchor) o el superior si está en el alcista.
//
// Los mercados resueltos no participan ni como clave ni como pareja. Un strike sin
// vecino en su lado no forma par.
func (e *Engine) DeltaNeutralPairs(markets []domain.Market, anchor float64, daysToExpiry int) map[domain.StrikeKey]domain.DeltaNeutralPair {
	open := make([]domain.Market, 0, len(markets))
	for _, m := range markets {
		if m.IsResolved() || !m.HasStrike() {
			continue
		}
		open = append(open, m)
	}
	open = domain.SortByStrike(open)

	pairs := make(map[domain.StrikeKey]domain.DeltaNeutralPair, len(open))
	for i, current := range open {
		strike := current.Strike.Value

		direction := domain.DirectionUpside
		partnerIdx := i + 1
		if strike <= anchor {
			direction = domain.DirectionDownside
			partnerIdx = i - 1
		}
		if partnerIdx < 0 || partnerIdx >= len(open) {
			continue
		}

		partner := open[partnerIdx]
		if partner.Strike.Value == strike {
			continue
		}

		cost := partner.YesPrice + current.NoPrice
		pnl := 1.0 - cost

		pairs[domain.KeyFor(strike)] = domain.DeltaNeutralPair{
			Strike:      strike,
			YesStrike:   partner.Strike.Value,
			NoStrike:    strike,
			YesMarketID: partner.ID,
			NoMarketID:  current.ID,
			YesPrice:    partner.YesPrice,
			NoPrice:     current.NoPrice,
			Cost:        cost,
			PnL:         pnl,
			Direction:   direction,
			APY:         CalculateAPY(pnl, cost, daysToExpiry),
		}
	}
	return pairs
}

// CalculateAPY anualiza (sin capitalizar) el retorno porcentual de un par.
// Devuelve 0 si cost <= 0 o days <= 0.
func CalculateAPY(pnl, cost float64, days int) float64 {
	if cost <= 0 || days <= 0 {
		return 0
	}
	return (pnl / cost * 100) * (365 / float64(days))
}

// SplitMarketsByAnchor separa los mercados con strike en alcistas (strike > anchor)
// y bajistas (strike <= anchor), ambos ordenados por strike descendente.
func SplitMarketsByAnchor(markets []domain.Market, anchor float64) (upside, downside []domain.Market) {
	for _, m := range markets {
		k, ok := domain.StrikeValue(m)
		if !ok {
			continue
		}
		if k > anchor {
			upside = append(upside, m)
		} else {
			downside = append(downside, m)
		}
	}
	byStrikeDesc := func(ms []domain.Market) {
		sort.SliceStable(ms, func(i, j int) bool { return ms[i].Strike.Value > ms[j].Strike.Value })
	}
	byStrikeDesc(upside)
	byStrikeDesc(downside)
	return upside, downside
}

// HighlightStrikes marca los pares con PnL >= HighlightMinPnL que no son el strike
// más cercano al anchor en su lado: ese hueco es lo que los hace interesantes.
func (e *Engine) HighlightStrikes(markets []domain.Market, pairs map[domain.StrikeKey]domain.DeltaNeutralPair, anchor float64) map[domain.StrikeKey]bool {
	upside, downside := SplitMarketsByAnchor(markets, anchor)
	highlights := make(map[domain.StrikeKey]bool)

	mark := func(ms []domain.Market, nearest int) {
		for i, m := range ms {
			if i == nearest {
				continue
			}
			key := domain.KeyFor(m.Strike.Value)
			pair, ok := pairs[key]
			if ok && pair.PnL >= e.cfg.HighlightMinPnL {
				highlights[key] = true
			}
		}
	}
	// ambos lados van en orden descendente: el más cercano al anchor es el último
	// alcista y el primero bajista
	mark(upside, len(upside)-1)
	mark(downside, 0)
	return highlights
}
