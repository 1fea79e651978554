// Package cli wires configuration, logging, tracing and the weather client
// into the weather command.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"weather-lookup/internal/config"
	"weather-lookup/internal/models"
	"weather-lookup/internal/observability"
	"weather-lookup/internal/owm"
	"weather-lookup/internal/report"
)

const serviceName = "weather-lookup"

type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// EnvFile is the optional dotenv file consulted after the environment.
	EnvFile string
}

// Run executes one lookup for args (without the program name) and returns the
// process exit code.
func (a App) Run(ctx context.Context, args []string) int {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		a.usage()
		return 1
	}
	q := models.Query{City: args[0], Units: models.DefaultUnits}
	if len(args) >= 2 {
		q.Units = models.Units(args[1])
	}

	cfg, err := config.Load(a.EnvFile)
	if err != nil {
		return a.fail(err)
	}
	slog.SetDefault(newLogger(a.Stderr, cfg))

	shutdown, err := observability.SetupTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return a.fail(err)
	}
	defer shutdown()

	data, err := owm.New(cfg).CurrentWeather(ctx, q)
	if err != nil {
		return a.fail(err)
	}
	r, err := owm.ParseReport(data)
	if err != nil {
		return a.fail(err)
	}
	if err := report.Write(a.Stdout, r, q.Units); err != nil {
		return a.fail(fmt.Errorf("writing report: %w", err))
	}

	slog.Debug("lookup complete", "city", q.City, "units", q.Units)
	return 0
}

func (a App) usage() {
	fmt.Fprintln(a.Stderr, "Usage: weather <city name> [units]")
	fmt.Fprintf(a.Stderr, "Units: %s (C), %s (F), %s (K). Default: %s\n",
		models.Metric, models.Imperial, models.Standard, models.DefaultUnits)
}

func (a App) fail(err error) int {
	slog.Debug("lookup failed", "error", err)
	fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	return 1
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
