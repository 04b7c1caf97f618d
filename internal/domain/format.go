package domain

import (
	"fmt"
	"math"
	"strconv"
)

// FormatCentsNoRound convierte una probabilidad a céntimos con un decimal, truncando.
// 0.163 → "16.3" y 0.1667 → "16.6": nunca redondea hacia arriba.
func FormatCentsNoRound(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return "0.0"
	}
	// el epsilon absorbe el error binario (0.163*1000 = 162.99999…)
	tenths := math.Floor(p*1000 + 1e-6)
	return fmt.Sprintf("%.1f", tenths/10)
}

// TruncateQuestion recorta la pregunta a maxLen caracteres.
// Si está vacía usa el ID del mercado como fallback.
func TruncateQuestion(question, marketID string, maxLen int) string {
	q := question
	if q == "" {
		q = marketID
	}
	if maxLen > 3 && len(q) > maxLen {
		q = q[:maxLen-3] + "..."
	}
	return q
}

// ParsePrice convierte un string de precio a float64. Devuelve 0 si no es numérico.
func ParsePrice(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// FormatVolume abrevia un volumen en USD: "$1.8M", "$12.3k", "$950".
// Devuelve "-" si no hay volumen.
func FormatVolume(v float64) string {
	switch {
	case math.IsNaN(v) || v <= 0:
		return "-"
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.1fk", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
