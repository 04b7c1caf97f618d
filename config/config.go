package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de polyladder.
type Config struct {
	Strategy StrategyConfig `yaml:"strategy"`
	Mirror   MirrorConfig   `yaml:"mirror"`
	API      APIConfig      `yaml:"api"`
	Cache    CacheConfig    `yaml:"cache"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// StrategyConfig controla el motor de estrategia y los defaults de asignación.
type StrategyConfig struct {
	FeeSettlement   *float64 `yaml:"fee_settlement"` // nil = 0.02; 0 es válido
	SlippageLimit   *float64 `yaml:"slippage_limit"` // nil = 0.005; 0 es válido
	Beta            float64  `yaml:"beta"`
	HighlightMinPnL float64  `yaml:"highlight_min_pnl"`
	Budget          float64  `yaml:"budget"`
	Bias            float64  `yaml:"bias"`         // [-1, 1]
	RiskCap         float64  `yaml:"risk_cap"`     // 0 = sin límite
	GridPercent     float64  `yaml:"grid_percent"` // rango ± del grid de escenarios
}

// MirrorConfig controla el loop de refresco.
type MirrorConfig struct {
	RefreshSeconds int      `yaml:"refresh_seconds"`
	Workers        int      `yaml:"workers"` // 0 = NumCPU*2
	Slugs          []string `yaml:"slugs"`
}

// APIConfig contiene los base URLs de las APIs.
type APIConfig struct {
	GammaBase   string `yaml:"gamma_base"`
	BinanceBase string `yaml:"binance_base"`
}

// CacheConfig controla el cache Redis del precio spot. Sin addr no hay cache.
type CacheConfig struct {
	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	PriceTTLSeconds int    `yaml:"price_ttl_seconds"`
}

// StorageConfig controla dónde se persisten los snapshots.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, ":memory:" o vacío
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si path no existe se usan los defaults: la CLI funciona sin archivo.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)

	if *cfg.Strategy.FeeSettlement < 0 || *cfg.Strategy.SlippageLimit < 0 {
		return nil, fmt.Errorf("config.Load: strategy.fee_settlement and slippage_limit must be >= 0")
	}
	if cfg.Strategy.Bias < -1 || cfg.Strategy.Bias > 1 {
		return nil, fmt.Errorf("config.Load: strategy.bias %v out of [-1, 1]", cfg.Strategy.Bias)
	}
	return &cfg, nil
}

// RefreshInterval devuelve el intervalo de refresco como time.Duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Mirror.RefreshSeconds) * time.Second
}

// PriceTTL devuelve el TTL del precio cacheado.
func (c *Config) PriceTTL() time.Duration {
	return time.Duration(c.Cache.PriceTTLSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config.Load: REDIS_DB: %w", err)
		}
		cfg.Cache.RedisDB = db
	}
	if v := os.Getenv("LADDER_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Strategy.FeeSettlement == nil {
		cfg.Strategy.FeeSettlement = ptr(0.02)
	}
	if cfg.Strategy.SlippageLimit == nil {
		cfg.Strategy.SlippageLimit = ptr(0.005)
	}
	if cfg.Strategy.Beta <= 0 {
		cfg.Strategy.Beta = 10
	}
	if cfg.Strategy.HighlightMinPnL <= 0 {
		cfg.Strategy.HighlightMinPnL = 0.10
	}
	if cfg.Strategy.Budget <= 0 {
		cfg.Strategy.Budget = 100
	}
	if cfg.Strategy.GridPercent <= 0 {
		cfg.Strategy.GridPercent = 0.05
	}
	if cfg.Mirror.RefreshSeconds <= 0 {
		cfg.Mirror.RefreshSeconds = 60
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.BinanceBase == "" {
		cfg.API.BinanceBase = "https://api.binance.com"
	}
	if cfg.Cache.PriceTTLSeconds <= 0 {
		cfg.Cache.PriceTTLSeconds = 15
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "polyladder.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func ptr(v float64) *float64 { return &v }
