package domain

import (
	"sort"
	"time"
)

// ResolvedPriceThreshold es el precio a partir del cual un lado se considera
// resuelto: el mercado ya no cotiza como instrumento probabilístico.
const ResolvedPriceThreshold = 0.99

// Strike es el umbral de precio contra el que resuelve un contrato binario.
type Strike struct {
	Raw   string  // texto original, e.g. "$120k"
	Value float64 // valor numérico en USD; <= 0 significa "sin strike"
	Unit  string  // "USD" | "KUSD"
}

// Market es un contrato binario de una escalera (ladder) de strikes.
// Es un snapshot de solo lectura: el engine nunca lo modifica.
type Market struct {
	ID          string
	Question    string
	OutcomeType string
	Strike      Strike
	YesPrice    float64 // (0, 1]
	NoPrice     float64 // (0, 1]
	Spread      float64
	Liquidity   *float64
	EndDate     string
}

// IsResolved devuelve true si cualquiera de los dos lados cotiza a 0.99 o más.
func (m Market) IsResolved() bool {
	return m.YesPrice >= ResolvedPriceThreshold || m.NoPrice >= ResolvedPriceThreshold
}

// HasStrike devuelve true si el mercado tiene un strike positivo.
func (m Market) HasStrike() bool {
	return m.Strike.Value > 0
}

// StrikeValue devuelve el strike del mercado y si es utilizable.
func StrikeValue(m Market) (float64, bool) {
	if !m.HasStrike() {
		return 0, false
	}
	return m.Strike.Value, true
}

// SortByStrike ordena una copia de los mercados por strike ascendente.
// Los mercados sin strike quedan fuera.
func SortByStrike(markets []Market) []Market {
	out := make([]Market, 0, len(markets))
	for _, m := range markets {
		if m.HasStrike() {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Strike.Value < out[j].Strike.Value
	})
	return out
}

// Event es un evento de Polymarket que agrupa los mercados de una escalera.
type Event struct {
	ID          string
	Title       string
	Description string
	Slug        string
	SeriesSlug  string
	Markets     []Market
	ResolveTime string
	Tags        []string
	Volume      float64
}

// EventSummary es la versión ligera de un Event para listados.
type EventSummary struct {
	Title      string
	Slug       string
	Asset      string
	Volume     float64
	NumMarkets int
}

// LadderSnapshot es la foto de los inputs de un cálculo: mercados + anchor.
// Se persiste para poder recalcular (replay) sin red. Nunca contiene resultados.
type LadderSnapshot struct {
	ID      string
	Slug    string
	Asset   string
	Anchor  float64
	TakenAt time.Time
	Markets []Market
}
