package strategy

import (
	"math"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

const maxLimitPrice = 0.99

// SymmetricParams son los inputs de una asignación simétrica.
type SymmetricParams struct {
	Anchor float64
	Budget float64
	// Bias en [-1, 1] desplaza presupuesto hacia el lado alcista (>0) o bajista (<0).
	Bias float64
	// RiskCap > 0 limita la pérdida máxima agregada. 0 = sin límite.
	RiskCap float64
	// SubjectiveProb en (0, 1) rellena el EV de cada orden. 0 = sin EV.
	SubjectiveProb float64
}

// leg es una orden en construcción, antes de aplicar el risk cap.
type leg struct {
	market domain.Market
	side   domain.Side
	price  float64
	units  int
}

// SymmetricStrategy reparte el presupuesto sobre la escalera:
//
//	strike <  anchor → YES (suelo), presupuesto (1-α)·budget
//	strike >= anchor → NO  (techo), presupuesto α·budget,  α = (bias+1)/2
//
// Dentro de cada bucket el peso es exp(-β·|K-anchor|/anchor) normalizado.
// Cada mercado con peso y precio positivos recibe al menos una unidad, aunque eso
// haga superar el presupuesto nominal.
func (e *Engine) SymmetricStrategy(markets []domain.Market, p SymmetricParams) ([]domain.OrderRecommendation, domain.PortfolioSummary) {
	if p.Anchor <= 0 || math.IsNaN(p.Anchor) {
		return nil, domain.PortfolioSummary{}
	}

	var below, above []domain.Market
	for _, m := range markets {
		k, ok := domain.StrikeValue(m)
		if !ok {
			continue
		}
		if k < p.Anchor {
			below = append(below, m)
		} else {
			above = append(above, m)
		}
	}
	if len(below) == 0 && len(above) == 0 {
		return nil, domain.PortfolioSummary{}
	}

	budgetDown, budgetUp := BudgetSplit(p.Budget, p.Bias)

	var legs []leg
	if len(below) > 0 {
		legs = append(legs, e.allocate(below, e.proximityWeights(below, p.Anchor), budgetDown, domain.SideYes)...)
	}
	if len(above) > 0 {
		legs = append(legs, e.allocate(above, e.proximityWeights(above, p.Anchor), budgetUp, domain.SideNo)...)
	}

	if p.RiskCap > 0 {
		legs = e.applyRiskCap(legs, p.Anchor, p.RiskCap)
	}

	orders := make([]domain.OrderRecommendation, 0, len(legs))
	for _, l := range legs {
		orders = append(orders, e.toOrder(l, p.SubjectiveProb))
	}
	return orders, domain.Summarize(orders)
}

// BudgetSplit devuelve el presupuesto del lado bajista (YES) y alcista (NO).
// Bias se limita a [-1, 1]; bias = 0 reparte exactamente a la mitad.
func BudgetSplit(budget, bias float64) (down, up float64) {
	if math.IsNaN(bias) {
		bias = 0
	}
	bias = math.Min(math.Max(bias, -1), 1)
	alpha := (bias + 1) / 2
	return (1 - alpha) * budget, alpha * budget
}

// proximityWeights calcula pesos exponenciales por distancia al anchor, normalizados
// para que sumen 1. El índice del peso coincide con el del mercado.
func (e *Engine) proximityWeights(markets []domain.Market, anchor float64) []float64 {
	weights := make([]float64, len(markets))
	total := 0.0
	for i, m := range markets {
		distance := math.Abs(m.Strike.Value-anchor) / anchor
		weights[i] = math.Exp(-e.cfg.Beta * distance)
		total += weights[i]
	}
	if total > 0 {
		for i := range weights {
			weights[i] /= total
		}
	}
	return weights
}

// allocate convierte el presupuesto del bucket en unidades enteras por mercado.
func (e *Engine) allocate(markets []domain.Market, weights []float64, budget float64, side domain.Side) []leg {
	legs := make([]leg, 0, len(markets))
	for i, m := range markets {
		weight := weights[i]
		if weight == 0 {
			continue
		}

		price := m.YesPrice
		if side == domain.SideNo {
			price = m.NoPrice
		}
		if price <= 0 {
			continue
		}

		marketBudget := budget * weight
		units := int(math.Max(1, math.RoundToEven(marketBudget/price)))
		legs = append(legs, leg{market: m, side: side, price: price, units: units})
	}
	return legs
}

// applyRiskCap escala las unidades para que la pérdida máxima agregada no supere limit.
// Si el mínimo de una unidad por orden aún lo impide, descarta las órdenes más
// alejadas del anchor hasta cumplirlo.
func (e *Engine) applyRiskCap(legs []leg, anchor, limit float64) []leg {
	total := legsMaxLoss(legs)
	if total <= limit {
		return legs
	}

	scale := limit / total
	scaled := make([]leg, len(legs))
	for i, l := range legs {
		l.units = max(1, int(math.Floor(float64(l.units)*scale)))
		scaled[i] = l
	}

	for len(scaled) > 0 && legsMaxLoss(scaled) > limit {
		farthest := 0
		for i, l := range scaled {
			if math.Abs(l.market.Strike.Value-anchor) >= math.Abs(scaled[farthest].market.Strike.Value-anchor) {
				farthest = i
			}
		}
		scaled = append(scaled[:farthest], scaled[farthest+1:]...)
	}
	return scaled
}

func legsMaxLoss(legs []leg) float64 {
	total := 0.0
	for _, l := range legs {
		total += l.price * float64(l.units)
	}
	return total
}

func (e *Engine) toOrder(l leg, subjectiveProb float64) domain.OrderRecommendation {
	maxProfit, maxLoss := e.CalculatePnL(l.price, l.side)
	units := float64(l.units)

	order := domain.OrderRecommendation{
		MarketID:   l.market.ID,
		Question:   l.market.Question,
		Strike:     l.market.Strike.Value,
		Side:       l.side,
		Units:      l.units,
		LimitPrice: math.Min(l.price+e.cfg.SlippageLimit, maxLimitPrice),
		Cost:       units * l.price,
		MaxProfit:  maxProfit * units,
		MaxLoss:    maxLoss * units,
	}
	if subjectiveProb > 0 && subjectiveProb < 1 {
		ev := e.CalculateEV(l.price, l.side, subjectiveProb) * units
		order.EV = &ev
	}
	return order
}

// CalculatePnL devuelve el profit y la pérdida máximos de una unidad.
// El fee de settlement solo reduce el pago ganador; es simétrico para YES y NO.
func (e *Engine) CalculatePnL(price float64, _ domain.Side) (maxProfit, maxLoss float64) {
	return (1 - price) * (1 - e.cfg.FeeSettlement), price
}

// CalculateEV devuelve el valor esperado de una unidad dada la probabilidad
// subjetiva de que el mercado resuelva YES.
func (e *Engine) CalculateEV(price float64, side domain.Side, subjectiveProb float64) float64 {
	win := (1 - price) * (1 - e.cfg.FeeSettlement)
	if side == domain.SideYes {
		return subjectiveProb*win - (1-subjectiveProb)*price
	}
	return (1-subjectiveProb)*win - subjectiveProb*price
}
