package polymarket

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// DTOs raw de la API Gamma de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// gammaEventsResponse es la respuesta de GET /events.
type gammaEventsResponse []gammaEvent

// gammaSearchResponse es la respuesta de GET /public-search.
type gammaSearchResponse struct {
	Events []gammaEvent `json:"events"`
}

// gammaEvent es un evento con sus mercados embebidos.
type gammaEvent struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Ticker      string        `json:"ticker"`
	Description string        `json:"description"`
	EndDate     string        `json:"endDate"`
	Volume      flexFloat     `json:"volume"`
	SeriesSlug  string        `json:"seriesSlug"`
	Series      []gammaSeries `json:"series"`
	Tags        []gammaTag    `json:"tags"`
	Markets     []gammaMarket `json:"markets"`
}

type gammaSeries struct {
	Slug string `json:"slug"`
}

type gammaTag struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// gammaMarket es un contrato binario dentro de un evento.
// Gamma devuelve varios campos numéricos como strings JSON y outcomePrices como un
// array serializado dentro de un string.
type gammaMarket struct {
	ID              string     `json:"id"`
	Question        string     `json:"question"`
	MarketType      string     `json:"marketType"`
	OutcomePrices   stringList `json:"outcomePrices"`
	Spread          *flexFloat `json:"spread"`
	LiquidityNum    *flexFloat `json:"liquidityNum"`
	Liquidity       *flexFloat `json:"liquidity"`
	EndDate         string     `json:"endDate"`
	EndDateISO      string     `json:"endDateIso"`
	Closed          bool       `json:"closed"`
	AcceptingOrders *bool      `json:"acceptingOrders"`
}

// flexFloat acepta un número JSON, un string numérico o null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil // valor no numérico: se ignora
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// stringList acepta un array JSON o un string que contiene un array JSON
// (`"[\"0.22\", \"0.78\"]"`). Los elementos numéricos se convierten a string.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return err
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return nil
		}
		b = []byte(inner)
	}

	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil // formato desconocido: se tratan como precios ausentes
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case float64:
			out = append(out, strconv.FormatFloat(x, 'f', -1, 64))
		default:
			out = append(out, "")
		}
	}
	*l = out
	return nil
}
