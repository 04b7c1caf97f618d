package strategy

// Config contiene los parámetros del motor de estrategia.
type Config struct {
	// FeeSettlement es el fee sobre el pago ganador al resolver (solo reduce el profit).
	FeeSettlement float64
	// SlippageLimit se suma al precio de cotización para obtener el precio límite.
	SlippageLimit float64
	// Beta controla la concentración del presupuesto cerca del anchor.
	Beta float64
	// HighlightMinPnL es el PnL mínimo para destacar un par alejado del anchor.
	HighlightMinPnL float64
}

// DefaultConfig devuelve los parámetros por defecto del motor.
func DefaultConfig() Config {
	return Config{
		FeeSettlement:   0.02,
		SlippageLimit:   0.005,
		Beta:            10.0,
		HighlightMinPnL: 0.10,
	}
}

// Engine calcula asignaciones, pares delta-neutral y escenarios.
// No tiene estado mutable: es seguro usarlo desde varias goroutines.
type Engine struct {
	cfg Config
}

// New crea un Engine. Los valores no positivos se sustituyen por los defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.FeeSettlement < 0 || cfg.FeeSettlement >= 1 {
		cfg.FeeSettlement = def.FeeSettlement
	}
	if cfg.SlippageLimit < 0 {
		cfg.SlippageLimit = def.SlippageLimit
	}
	if cfg.Beta <= 0 {
		cfg.Beta = def.Beta
	}
	if cfg.HighlightMinPnL <= 0 {
		cfg.HighlightMinPnL = def.HighlightMinPnL
	}
	return &Engine{cfg: cfg}
}

// Config devuelve la configuración efectiva del engine.
func (e *Engine) Config() Config {
	return e.cfg
}
