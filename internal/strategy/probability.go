package strategy

import (
	"math"
	"sort"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

const (
	minProbability = 0.001
	maxProbability = 0.999
	maxExponent    = 60.0
	minGridSpan    = 1
	maxGridSpan    = 4
	minGridStep    = 0.01 // los precios bajo 1 se redondean a céntimos

	// DefaultGridPercent es el rango del grid alrededor del anchor (±5%).
	DefaultGridPercent = 0.05
)

// ClampProbability limita p a [0.001, 0.999] para que el logit sea finito.
func ClampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return minProbability
	}
	return math.Min(math.Max(p, minProbability), maxProbability)
}

// LogisticProbability calibra una logística de un parámetro que pasa exactamente por
// (anchor, anchorProb) para el contrato de strike dado y la evalúa en spot.
//
//	slope    = ln(1/anchorProb - 1) / (strike - anchor)
//	P(spot)  = 1 / (1 + e^(slope × (strike - spot)))
//
// Si strike coincide con anchor se usa delta = ±1 para no dividir por cero.
// El exponente se limita a [-60, 60].
func LogisticProbability(strike, anchor, spot, anchorProb float64) float64 {
	p := ClampProbability(anchorProb)

	delta := strike - anchor
	if math.Abs(delta) < 1e-6 {
		if delta < 0 {
			delta = -1
		} else {
			delta = 1
		}
	}

	slope := math.Log(1/p-1) / delta
	exponent := slope * (strike - spot)
	exponent = math.Min(math.Max(exponent, -maxExponent), maxExponent)
	return 1 / (1 + math.Exp(exponent))
}

// GeneratePriceGrid construye una escalera simétrica de precios hipotéticos alrededor
// del anchor, con el paso propio del subyacente. Devuelve entre 3 y 9 puntos ordenados.
// percent <= 0 usa DefaultGridPercent.
func GeneratePriceGrid(anchor float64, asset string, percent float64) []float64 {
	if anchor <= 0 || math.IsNaN(anchor) || math.IsInf(anchor, 0) {
		return nil
	}
	if percent <= 0 {
		percent = DefaultGridPercent
	}
	step := domain.GridStep(asset, anchor)
	if step <= 0 {
		return nil
	}
	// con un paso menor al céntimo el redondeo colapsaría el grid en un solo punto
	step = math.Max(step, minGridStep)

	span := int(math.Ceil(anchor * percent / step))
	span = min(max(span, minGridSpan), maxGridSpan)

	center := math.Round(anchor/step) * step

	seen := make(map[float64]bool, 2*span+1)
	grid := make([]float64, 0, 2*span+1)
	for i := -span; i <= span; i++ {
		p := center + float64(i)*step
		if p <= 0 {
			continue
		}
		if step < 1 {
			p = math.Round(p*100) / 100
		} else {
			p = math.Round(p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		grid = append(grid, p)
	}
	sort.Float64s(grid)
	return grid
}
