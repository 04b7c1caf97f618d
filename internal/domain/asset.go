package domain

import (
	"strings"
)

// AssetConfig agrupa todo lo que depende del subyacente: paso del grid de precios,
// símbolo en Binance y cómo reconocer sus eventos en Polymarket.
type AssetConfig struct {
	Symbol        string
	GridStepUSD   float64 // 0 = 1% del anchor
	SpotSymbol    string  // par en Binance
	Aliases       []string
	TagLabels     []string
	SeriesSlugs   []string
	SearchQueries []string
}

// assets es la tabla de subyacentes soportados. El orden define el ranking de listados.
var assets = []AssetConfig{
	{
		Symbol:        "BTC",
		GridStepUSD:   1000,
		SpotSymbol:    "BTCUSDT",
		Aliases:       []string{"bitcoin", "btc"},
		TagLabels:     []string{"bitcoin"},
		SeriesSlugs:   []string{"btc-multi-strikes-weekly", "bitcoin-neg-risk-weekly", "btc-monthly-prices"},
		SearchQueries: []string{"bitcoin"},
	},
	{
		Symbol:        "ETH",
		GridStepUSD:   100,
		SpotSymbol:    "ETHUSDT",
		Aliases:       []string{"ethereum", "eth"},
		TagLabels:     []string{"ethereum"},
		SeriesSlugs:   []string{"ethereum-multi-strikes-weekly", "ethereum-neg-risk-weekly", "eth-monthly-prices"},
		SearchQueries: []string{"ethereum"},
	},
	{
		Symbol:        "SOL",
		GridStepUSD:   10,
		SpotSymbol:    "SOLUSDT",
		Aliases:       []string{"solana", "sol"},
		TagLabels:     []string{"solana"},
		SeriesSlugs:   []string{"solana-multi-strikes-weekly", "solana-neg-risk-weekly", "solana-monthly-prices"},
		SearchQueries: []string{"solana"},
	},
	{
		Symbol:        "XRP",
		GridStepUSD:   0.1,
		SpotSymbol:    "XRPUSDT",
		Aliases:       []string{"ripple", "xrp"},
		TagLabels:     []string{"ripple", "xrp"},
		SeriesSlugs:   []string{"xrp-multi-strikes-weekly", "xrp-neg-risk-weekly", "xrp-monthly-prices"},
		SearchQueries: []string{"ripple", "xrp"},
	},
}

// LookupAsset devuelve la configuración del subyacente (case-insensitive).
func LookupAsset(symbol string) (AssetConfig, bool) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, a := range assets {
		if a.Symbol == s {
			return a, true
		}
	}
	return AssetConfig{}, false
}

// Assets devuelve todos los subyacentes soportados en orden de ranking.
func Assets() []AssetConfig {
	out := make([]AssetConfig, len(assets))
	copy(out, assets)
	return out
}

// AssetRank devuelve la posición del subyacente en la tabla, o len(tabla) si no existe.
func AssetRank(symbol string) int {
	s := strings.ToUpper(symbol)
	for i, a := range assets {
		if a.Symbol == s {
			return i
		}
	}
	return len(assets)
}

// GridStep devuelve el paso del grid de precios para el subyacente.
// Subyacentes desconocidos usan el 1% del anchor.
func GridStep(symbol string, anchor float64) float64 {
	if a, ok := LookupAsset(symbol); ok && a.GridStepUSD > 0 {
		return a.GridStepUSD
	}
	return anchor * 0.01
}

// LadderCandidate son los campos de un evento que se usan para clasificarlo.
type LadderCandidate struct {
	Title       string
	Slug        string
	Ticker      string
	SeriesSlug  string
	Description string
	Tags        []string
}

var ladderKeywords = []string{
	"what price will",
	"price on",
	"price be on",
	"price be at",
	"price hit",
	"price will",
	"above",
}

var monthKeywords = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// MatchesAsset devuelve true si el evento pertenece al subyacente, por tags o por texto.
func MatchesAsset(c LadderCandidate, a AssetConfig) bool {
	aliases := lowerAll(a.Aliases)
	labels := append(lowerAll(a.TagLabels), aliases...)

	tags := lowerAll(c.Tags)
	for _, label := range labels {
		for _, tag := range tags {
			if tag == label {
				return true
			}
		}
	}

	for _, text := range []string{c.Title, c.Slug, c.Ticker, c.SeriesSlug} {
		if text == "" {
			continue
		}
		normalized := strings.ToLower(strings.ReplaceAll(text, "-", " "))
		for _, alias := range aliases {
			if strings.Contains(normalized, alias) {
				return true
			}
		}
	}
	return false
}

// IsLadderEvent devuelve true si el evento es una escalera de strikes del subyacente.
func IsLadderEvent(c LadderCandidate, a AssetConfig) bool {
	if strings.Contains(strings.ToLower(c.SeriesSlug), "multi-strikes") {
		return true
	}
	for _, tag := range lowerAll(c.Tags) {
		if strings.Contains(tag, "multi strikes") {
			return true
		}
	}

	texts := []string{
		c.Title,
		strings.ReplaceAll(c.Slug, "-", " "),
		strings.ReplaceAll(c.Ticker, "-", " "),
		c.Description,
	}
	for _, text := range texts {
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		for _, alias := range lowerAll(a.Aliases) {
			if strings.Contains(lower, alias) && containsLadderKeywords(lower, alias) {
				return true
			}
		}
	}
	return false
}

func containsLadderKeywords(text, alias string) bool {
	combos := []string{
		"what price will " + alias,
		alias + " price on",
		"price on " + alias,
		alias + " price be on",
		alias + " price be at",
		alias + " price will",
		"price will " + alias,
		alias + " above",
		alias + " price above",
	}
	for _, combo := range combos {
		if strings.Contains(text, combo) {
			return true
		}
	}

	hasPrice := strings.Contains(text, "price")
	if hasPrice && containsAny(text, ladderKeywords) {
		return true
	}
	if containsAny(text, monthKeywords) && (hasPrice || strings.Contains(text, "above")) {
		return true
	}
	return strings.Contains(text, "___") && strings.Contains(text, "above")
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
