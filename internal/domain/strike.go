package domain

import (
	"regexp"
	"strconv"
	"strings"
)

type strikePattern struct {
	re         *regexp.Regexp
	multiplier float64
	unit       string
}

// Orden de prioridad: sufijo k, sufijo m, importe con $, número con separador de miles.
var strikePatterns = []strikePattern{
	{re: regexp.MustCompile(`\$?\s?(\d+[\d,]*\.?\d*)\s?[kK]\b`), multiplier: 1_000, unit: "KUSD"},
	{re: regexp.MustCompile(`\$?\s?(\d+[\d,]*\.?\d*)\s?[mM]\b`), multiplier: 1_000_000, unit: "USD"},
	{re: regexp.MustCompile(`\$\s?(\d+[\d,]*(?:\.\d+)?)`), multiplier: 1, unit: "USD"},
	{re: regexp.MustCompile(`(\d+[\d,]+)`), multiplier: 1, unit: "USD"},
}

// ExtractStrike extrae el strike numérico del texto de la pregunta de un mercado.
// "Will Bitcoin reach $120k?" → 120000. Devuelve false si no hay número reconocible.
func ExtractStrike(text string) (Strike, bool) {
	for _, p := range strikePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return Strike{
			Raw:   strings.TrimSpace(m[0]),
			Value: num * p.multiplier,
			Unit:  p.unit,
		}, true
	}
	return Strike{}, false
}
