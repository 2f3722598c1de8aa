package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"diagnosd/internal/config"
	"diagnosd/internal/httpapi"
	"diagnosd/internal/manager"
	"diagnosd/internal/registry"
)

// options are the flags that have no config file counterpart.
type options struct {
	logPretty      bool
	requestLog     string
	predictTimeout time.Duration
}

func main() {
	cfg, opts, err := resolveConfig(os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := newLogger(os.Stderr, cfg.LogLevel, opts.logPretty)

	entries, err := registry.Load(cfg.ModelsDir, []registry.Source{
		{Name: "classical", File: cfg.ClassicalFile},
		{Name: "quantum", File: cfg.QuantumFile},
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load models")
	}
	st, err := manager.New(manager.Config{
		Entries:   entries,
		Shim:      cfg.Shim,
		CacheSize: cfg.CacheSize,
		Events:    manager.LogPublisher{Log: log},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build service state")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPredictTimeout(opts.predictTimeout)
	httpapi.SetDefaultLogLevel(opts.requestLog)
	httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(st),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Msg("diagnosd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

// resolveConfig layers defaults, the optional config file, environment
// variables and explicitly set flags, in that order.
func resolveConfig(args []string, getenv func(string) string) (config.Config, options, error) {
	fs := flag.NewFlagSet("diagnosd", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML, JSON or TOML config file")
	addr := fs.String("addr", "", "HTTP listen address (default :$PORT or :8000)")
	modelsDir := fs.String("models-dir", "", "Directory holding the model artifacts")
	logLevel := fs.String("log-level", "", "Log level: debug|info|warn|error")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins; empty disables CORS")
	maxBody := fs.Int64("max-body-bytes", 0, "Maximum request body size in bytes")
	cacheSize := fs.Int("cache-size", 0, "Prediction cache entries (0 disables)")
	var opts options
	fs.BoolVar(&opts.logPretty, "log-pretty", false, "Human-readable console logs")
	fs.StringVar(&opts.requestLog, "request-log", "info", "Default per-request log level: off|error|info|debug")
	fs.DurationVar(&opts.predictTimeout, "predict-timeout", 0, "Per-prediction timeout (0 disables)")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return cfg, opts, fmt.Errorf("config %s: %w", *configPath, err)
		}
		cfg = c
	}

	// Environment
	if v := getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := getenv("DIAGNOSD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("DIAGNOSD_MODELS_DIR"); v != "" {
		cfg.ModelsDir = v
	}
	if v := getenv("DIAGNOSD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Flags win when given explicitly.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "models-dir":
			cfg.ModelsDir = *modelsDir
		case "log-level":
			cfg.LogLevel = *logLevel
		case "cors-origins":
			cfg.CORSOrigins = splitCSV(*corsOrigins)
		case "max-body-bytes":
			cfg.MaxBodyBytes = *maxBody
		case "cache-size":
			cfg.CacheSize = *cacheSize
		}
	})
	return cfg, opts, cfg.Validate()
}

func newLogger(w io.Writer, level string, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "diagnosd").Logger()
}

// splitCSV splits a comma-separated list, trimming blanks and dropping
// empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
