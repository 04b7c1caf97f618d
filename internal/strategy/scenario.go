package strategy

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/polyladder/internal/domain"
)

const (
	defaultScenarioYesUnits = 200
	defaultScenarioNoUnits  = 100
)

// SimulatePairScenario proyecta el valor mark-to-market de un par YES/NO sobre el
// grid de precios del subyacente usando la curva logística de cada pata.
//
// En el punto del grid más cercano al anchor los valores se sustituyen por los
// precios observados: la fila de retorno en ese índice es exactamente lo invertido.
func SimulatePairScenario(req domain.ScenarioRequest) domain.ScenarioResult {
	prices := GeneratePriceGrid(req.Anchor, req.Asset, req.GridPercent)

	yesProb := ClampProbability(req.YesPrice)
	noYesEquivalent := ClampProbability(1 - req.NoPrice)

	yesUnits := req.YesUnits
	if yesUnits <= 0 {
		yesUnits = defaultScenarioYesUnits
	}
	noUnits := req.NoUnits
	if noUnits <= 0 {
		noUnits = defaultScenarioNoUnits
	}

	yesValues := make([]float64, len(prices))
	noValues := make([]float64, len(prices))
	returns := make([]float64, len(prices))
	for i, spot := range prices {
		yesValues[i] = LogisticProbability(req.YesStrike, req.Anchor, spot, yesProb)
		noValues[i] = 1 - LogisticProbability(req.NoStrike, req.Anchor, spot, noYesEquivalent)
		returns[i] = float64(yesUnits)*yesValues[i] + float64(noUnits)*noValues[i]
	}

	invested := float64(yesUnits)*req.YesPrice + float64(noUnits)*req.NoPrice

	highlight := nearestIndex(prices, req.Anchor)
	if highlight >= 0 {
		yesValues[highlight] = req.YesPrice
		noValues[highlight] = req.NoPrice
		returns[highlight] = invested
	}

	yesLabel := req.YesLabel
	if yesLabel == "" {
		yesLabel = fmt.Sprintf("YES %s", formatStrike(req.YesStrike))
	}
	noLabel := req.NoLabel
	if noLabel == "" {
		noLabel = fmt.Sprintf("NO %s", formatStrike(req.NoStrike))
	}

	return domain.ScenarioResult{
		Asset:  req.Asset,
		Prices: prices,
		Rows: []domain.ScenarioRow{
			{Label: yesLabel, Values: yesValues},
			{Label: noLabel, Values: noValues},
		},
		ReturnRow:      returns,
		Invested:       invested,
		HighlightIndex: highlight,
		AnchorPrice:    req.Anchor,
		YesUnits:       yesUnits,
		NoUnits:        noUnits,
		YesLabel:       yesLabel,
		NoLabel:        noLabel,
		PairLabel:      req.PairLabel,
		Direction:      req.Direction,
	}
}

// nearestIndex devuelve el índice del precio más cercano a target (-1 si no hay precios).
// En empate gana el primero.
func nearestIndex(prices []float64, target float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range prices {
		if d := math.Abs(p - target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func formatStrike(k float64) string {
	if k == math.Trunc(k) {
		return fmt.Sprintf("%.0f", k)
	}
	return fmt.Sprintf("%.2f", k)
}
