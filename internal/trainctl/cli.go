// Package trainctl implements the trainctl command: train and publish the
// two models, inspect artifacts, list recorded runs and generate demo data.
package trainctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"diagnosd/internal/config"
)

// Config holds the global flags shared by every subcommand.
type Config struct {
	ConfigPath string
	LogLvl     string
	ModelsDir  string
	Visits     string
	Patients   string
	Ledger     string
	NoLedger   bool
	Version    string

	Out io.Writer
	Err io.Writer
}

// settings loads the config file (or defaults) and applies flag overrides.
func (c *Config) settings() (config.Config, error) {
	app := config.Default()
	if c.ConfigPath != "" {
		loaded, err := config.Load(c.ConfigPath)
		if err != nil {
			return app, fmt.Errorf("config %s: %w", c.ConfigPath, err)
		}
		app = loaded
	}
	if c.ModelsDir != "" {
		app.ModelsDir = c.ModelsDir
	}
	if c.Visits != "" {
		app.Train.VisitsPath = c.Visits
	}
	if c.Patients != "" {
		app.Train.PatientsPath = c.Patients
	}
	if c.Ledger != "" {
		app.Train.LedgerPath = c.Ledger
	}
	if c.NoLedger {
		app.Train.LedgerPath = ""
	}
	return app, nil
}

func (c *Config) logger() zerolog.Logger {
	return newLogger(c.Err, c.LogLvl)
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code: 0 on success, 2 without a command, 1 on error.
func MainWithArgs(args []string) int {
	return mainWith(args, os.Stdout, os.Stderr, "dev")
}

func mainWith(args []string, out, errOut io.Writer, version string) int {
	cfg := &Config{
		ConfigPath: envStr("TRAINCTL_CONFIG", ""),
		LogLvl:     envStr("TRAINCTL_LOG_LEVEL", "info"),
		Version:    version,
		Out:        out,
		Err:        errOut,
	}
	root := buildRootCmdWith(cfg)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	if len(args) == 0 {
		_ = root.Usage()
		return 2
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/trainctl.
func Main(version string) int { return mainWith(os.Args[1:], os.Stdout, os.Stderr, version) }
