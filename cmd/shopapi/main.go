package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"shopapi/internal/config"
	"shopapi/internal/http/handlers"
	applog "shopapi/internal/log"
	"shopapi/internal/repos"
)

func main() {
	configPath := flag.String("config", os.Getenv("SHOPAPI_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		applog.L().Fatal().Err(err).Msg("load config")
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			applog.L().Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	if err := applog.Setup(out, cfg.LogLevel); err != nil {
		applog.L().Fatal().Err(err).Msg("configure logging")
	}
	if cfg.DevSecret() {
		applog.L().Warn().Msg("JWT_SECRET not set; using the development secret")
	}

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		applog.L().Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, cfg.DBDriver),
	)

	deps, err := handlers.NewDeps(db, cfg, reg)
	if err != nil {
		applog.L().Fatal().Err(err).Msg("wire dependencies")
	}
	app := handlers.NewApp(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		applog.L().Info().Str("action", "server.shutdown").Send()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			applog.L().Error().Err(err).Msg("shutdown")
		}
	}()

	applog.L().Info().Str("action", "server.start").Str("port", cfg.Port).Str("db", cfg.DBDriver).Send()
	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.L().Fatal().Err(err).Msg("listen")
	}
}
