package domain

import (
	"math"
	"sort"
)

// Direction indica de qué lado del anchor está el strike de un par.
type Direction string

const (
	DirectionUpside   Direction = "upside"
	DirectionDownside Direction = "downside"
)

// StrikeKey es la clave de mapa para un strike: centésimas en punto fijo.
// Evita colisiones y falsos fallos de igualdad al indexar por float64.
type StrikeKey int64

// KeyFor convierte un strike a su clave en punto fijo.
func KeyFor(strike float64) StrikeKey {
	return StrikeKey(math.Round(strike * 100))
}

// Float64 devuelve el strike representado por la clave.
func (k StrikeKey) Float64() float64 {
	return float64(k) / 100
}

// DeltaNeutralPair combina NO en el strike clave con YES en el strike vecino.
// Con strikes adyacentes exactamente una pata gana al resolver: paga 1.0.
type DeltaNeutralPair struct {
	Strike      float64   `json:"strike"`
	YesStrike   float64   `json:"yes_strike"`
	NoStrike    float64   `json:"no_strike"`
	YesMarketID string    `json:"yes_market_id"`
	NoMarketID  string    `json:"no_market_id"`
	YesPrice    float64   `json:"yes_price"`
	NoPrice     float64   `json:"no_price"`
	Cost        float64   `json:"cost"`
	PnL         float64   `json:"pnl"` // 1 - cost
	Direction   Direction `json:"direction"`
	APY         float64   `json:"apy"` // % anualizado simple
}

// SortedKeys devuelve las claves de un mapa de pares ordenadas por strike ascendente.
func SortedKeys(pairs map[StrikeKey]DeltaNeutralPair) []StrikeKey {
	keys := make([]StrikeKey, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
