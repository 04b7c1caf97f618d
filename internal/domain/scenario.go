package domain

// ScenarioRequest describe un par YES/NO a proyectar sobre un grid de precios.
type ScenarioRequest struct {
	Asset     string    `json:"asset"`
	Anchor    float64   `json:"anchor"`
	YesPrice  float64   `json:"yes_price"`
	NoPrice   float64   `json:"no_price"`
	YesUnits  int       `json:"yes_units"` // 0 = default
	NoUnits   int       `json:"no_units"`  // 0 = default
	YesStrike float64   `json:"yes_strike"`
	NoStrike  float64   `json:"no_strike"`
	YesLabel  string    `json:"yes_label,omitempty"`
	NoLabel   string    `json:"no_label,omitempty"`
	PairLabel string    `json:"pair_label,omitempty"`
	Direction Direction `json:"direction,omitempty"`

	// GridPercent es el rango ± del grid alrededor del anchor. 0 = default.
	GridPercent float64 `json:"grid_percent,omitempty"`
}

// ScenarioRow es una fila etiquetada de valores proyectados, uno por precio del grid.
type ScenarioRow struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ScenarioResult es la proyección mark-to-market de un par sobre el grid.
// Rows[0] es la pata YES, Rows[1] la pata NO.
type ScenarioResult struct {
	Asset          string        `json:"asset"`
	Prices         []float64     `json:"prices"`
	Rows           []ScenarioRow `json:"rows"`
	ReturnRow      []float64     `json:"return_row"`
	Invested       float64       `json:"invested"`
	HighlightIndex int           `json:"highlight_index"`
	AnchorPrice    float64       `json:"anchor_price"`
	YesUnits       int           `json:"yes_units"`
	NoUnits        int           `json:"no_units"`
	YesLabel       string        `json:"yes_label"`
	NoLabel        string        `json:"no_label"`
	PairLabel      string        `json:"pair_label,omitempty"`
	Direction      Direction     `json:"direction,omitempty"`
}
