package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alejandrodnm/polyladder/config"
	"github.com/alejandrodnm/polyladder/internal/adapters/binance"
	"github.com/alejandrodnm/polyladder/internal/adapters/cache"
	"github.com/alejandrodnm/polyladder/internal/adapters/notify"
	"github.com/alejandrodnm/polyladder/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyladder/internal/adapters/storage"
	"github.com/alejandrodnm/polyladder/internal/application/mirror"
	"github.com/alejandrodnm/polyladder/internal/ports"
	"github.com/alejandrodnm/polyladder/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	slugs := flag.String("slug", "", "comma separated event slugs (overrides config)")
	asset := flag.String("asset", "", "underlying: BTC|ETH|SOL|XRP (default: inferred from event)")
	budget := flag.Float64("budget", 0, "budget in USDC (overrides config)")
	bias := flag.Float64("bias", 0, "directional bias in [-1, 1] (overrides config)")
	riskCap := flag.Float64("risk-cap", 0, "max aggregated loss in USDC, 0 = no cap (overrides config)")
	anchor := flag.Float64("anchor", 0, "manual anchor price, 0 = spot")
	prob := flag.Float64("prob", 0, "subjective YES probability in (0, 1) to add EV per order")
	once := flag.Bool("once", false, "run one mirror cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("log-format", "", "log format: text|json (overrides config)")
	outFormat := flag.String("format", "table", "output format: table|compact|json")
	list := flag.Bool("list", false, "list active ladder events for -asset and exit")
	replay := flag.Bool("replay", false, "recompute from the latest stored snapshot, no network")
	history := flag.Bool("history", false, "list stored snapshots of -slug and exit")
	since := flag.Duration("since", 24*time.Hour, "history: how far back to look")

	scenario := flag.Bool("scenario", false, "project a YES/NO pair over the price grid and exit")
	yesPrice := flag.Float64("yes-price", 0, "scenario: YES leg price")
	noPrice := flag.Float64("no-price", 0, "scenario: NO leg price")
	yesStrike := flag.Float64("yes-strike", 0, "scenario: YES leg strike")
	noStrike := flag.Float64("no-strike", 0, "scenario: NO leg strike")
	yesUnits := flag.Int("yes-units", 0, "scenario: YES units (0 = default)")
	noUnits := flag.Int("no-units", 0, "scenario: NO units (0 = default)")
	flag.Parse()

	// -bias 0 y -risk-cap 0 son valores explícitos, distintos de no pasar el flag
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	format, err := notify.ParseFormat(*outFormat)
	if err != nil {
		slog.Error("invalid output format", "err", err)
		os.Exit(2)
	}
	console := notify.NewConsole(os.Stdout, format)

	slog.Info("polyladder starting",
		"config", *configPath,
		"interval", cfg.RefreshInterval(),
		"once", *once,
		"replay", *replay,
		"history", *history,
	)

	events := polymarket.NewClient(cfg.API.GammaBase)

	var prices ports.PriceProvider = binance.NewClient(cfg.API.BinanceBase)
	if cfg.Cache.RedisAddr != "" {
		priceCache, err := cache.NewPriceCache(prices, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.PriceTTL())
		if err != nil {
			slog.Error("failed to create price cache", "err", err)
			os.Exit(1)
		}
		defer priceCache.Close()
		prices = priceCache
	}

	// sin storage la interfaz debe quedar nil, no un puntero nil tipado
	var store ports.SnapshotStorage
	if !*scenario && !*list {
		sqlite, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer sqlite.Close()
		store = sqlite
	}

	engine := strategy.New(strategy.Config{
		FeeSettlement:   *cfg.Strategy.FeeSettlement,
		SlippageLimit:   *cfg.Strategy.SlippageLimit,
		Beta:            cfg.Strategy.Beta,
		HighlightMinPnL: cfg.Strategy.HighlightMinPnL,
	})

	mirrorCfg := mirror.DefaultConfig()
	mirrorCfg.RefreshInterval = cfg.RefreshInterval()
	mirrorCfg.Workers = cfg.Mirror.Workers
	mirrorCfg.Once = *once || *replay
	mirrorCfg.Budget = cfg.Strategy.Budget
	mirrorCfg.Bias = cfg.Strategy.Bias
	mirrorCfg.RiskCap = cfg.Strategy.RiskCap
	mirrorCfg.GridPercent = cfg.Strategy.GridPercent

	svc := mirror.New(mirrorCfg, engine, events, prices, store, console)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *list:
		err = runList(ctx, svc, console, *asset)
	case *scenario:
		err = runScenario(ctx, svc, console, scenarioArgs{
			asset:     *asset,
			anchor:    *anchor,
			yesPrice:  *yesPrice,
			noPrice:   *noPrice,
			yesStrike: *yesStrike,
			noStrike:  *noStrike,
			yesUnits:  *yesUnits,
			noUnits:   *noUnits,
		})
	case *history:
		err = runHistory(ctx, svc, console, splitSlugs(*slugs, cfg.Mirror.Slugs), *since)
	default:
		rf := requestFlags{asset: *asset, budget: *budget, anchor: *anchor, prob: *prob}
		if set["bias"] {
			rf.bias = bias
		}
		if set["risk-cap"] {
			rf.riskCap = riskCap
		}
		reqs := buildRequests(splitSlugs(*slugs, cfg.Mirror.Slugs), rf)
		if *replay {
			err = runReplay(ctx, svc, console, reqs)
		} else {
			err = svc.Run(ctx, reqs)
		}
	}
	if err != nil {
		slog.Error("polyladder exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("polyladder stopped cleanly")
}

// splitSlugs usa los slugs del flag si hay, si no los de la config.
func splitSlugs(flagValue string, fromConfig []string) []string {
	if strings.TrimSpace(flagValue) == "" {
		return fromConfig
	}
	var out []string
	for _, s := range strings.Split(flagValue, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// requestFlags son los flags comunes a cada request. bias y riskCap nil = no pasados.
type requestFlags struct {
	asset   string
	budget  float64
	bias    *float64
	riskCap *float64
	anchor  float64
	prob    float64
}

func buildRequests(slugs []string, f requestFlags) []mirror.Request {
	reqs := make([]mirror.Request, 0, len(slugs))
	for _, slug := range slugs {
		reqs = append(reqs, mirror.Request{
			Slug:           slug,
			Asset:          f.asset,
			Budget:         f.budget,
			Bias:           f.bias,
			RiskCap:        f.riskCap,
			Anchor:         f.anchor,
			SubjectiveProb: f.prob,
		})
	}
	return reqs
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	// stdout queda para tablas y JSON de resultados
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
