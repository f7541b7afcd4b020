package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/arbscan/config"
	"github.com/alejandrodnm/arbscan/internal/adapters/notify"
	"github.com/alejandrodnm/arbscan/internal/adapters/storage"
	"github.com/alejandrodnm/arbscan/internal/adapters/venue"
	"github.com/alejandrodnm/arbscan/internal/exclusions"
	"github.com/alejandrodnm/arbscan/internal/ports"
	"github.com/alejandrodnm/arbscan/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

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

	slog.Info("arbscan starting",
		"config", *configPath,
		"settlement", cfg.Scanner.Settlement,
		"delta", cfg.Scanner.MinDelta,
		"interval", cfg.ScanInterval(),
		"liquidity_mode", cfg.Scanner.LiquidityMode,
		"venues", cfg.Scanner.Venues,
		"once", *once,
	)

	// Inicialización de venues: un nombre no soportado excluye ese venue del
	// run, los demás siguen. Quedarse sin ninguno sí es fatal.
	venues := make([]ports.Venue, 0, len(cfg.Scanner.Venues))
	byName := make(map[string]ports.Venue, len(cfg.Scanner.Venues))
	for _, name := range cfg.Scanner.Venues {
		v, err := venue.New(name)
		if err != nil {
			slog.Warn("venue init failed, excluding from run", "venue", name, "err", err)
			continue
		}
		venues = append(venues, v)
		byName[v.Name()] = v
	}
	if len(venues) == 0 {
		slog.Error("no usable venues after initialization", "configured", cfg.Scanner.Venues)
		os.Exit(1)
	}

	excl, err := exclusions.Load(cfg.Scanner.ExclusionsFile)
	if err != nil {
		slog.Error("failed to load exclusions", "err", err, "path", cfg.Scanner.ExclusionsFile)
		os.Exit(1)
	}
	if excl.Pairs() > 0 || excl.Coins() > 0 {
		slog.Info("exclusions loaded", "pairs", excl.Pairs(), "coins", excl.Coins())
	}

	var estimator scanner.Estimator
	switch cfg.Scanner.LiquidityMode {
	case config.LiquidityDepth:
		estimator = scanner.NewBookDepth(byName, cfg.Scanner.BookDepth)
	default:
		estimator = scanner.NewQuotedVolume()
	}

	sinks := []notify.Notifier{notify.NewConsole()}
	if cfg.Audit.Path != "" {
		audit, err := notify.NewAuditLog(cfg.Audit.Path)
		if err != nil {
			slog.Error("failed to open audit log", "err", err, "path", cfg.Audit.Path)
			os.Exit(1)
		}
		defer audit.Close()
		sinks = append(sinks, audit)
	}
	notifier := notify.NewMulti(sinks...)

	var store ports.Storage
	if cfg.Storage.DSN != "" {
		sqlStore, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	scanCfg := scanner.DefaultConfig()
	scanCfg.Settlement = cfg.Scanner.Settlement
	scanCfg.MinDelta = cfg.Scanner.MinDelta
	scanCfg.ScanInterval = cfg.ScanInterval()
	scanCfg.MinVenues = cfg.Scanner.MinVenues
	scanCfg.Once = *once

	s := scanner.New(scanCfg, venues, excl, estimator, notifier, store)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("arbscan stopped cleanly")
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
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
