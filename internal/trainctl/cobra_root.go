package trainctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"diagnosd/internal/synth"
)

// buildRootCmdWith constructs the Cobra command tree wired to the fn* actions.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "trainctl",
		Short:         "Train, publish and inspect the diagnosis models",
		Version:       cfg.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	pf := root.PersistentFlags()
	pf.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Config file (.yaml|.json|.toml; defaults TRAINCTL_CONFIG)")
	pf.StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults TRAINCTL_LOG_LEVEL or info)")
	pf.StringVar(&cfg.ModelsDir, "models-dir", "", "Directory the artifacts are written to")
	pf.StringVar(&cfg.Visits, "visits", "", "Visits CSV path")
	pf.StringVar(&cfg.Patients, "patients", "", "Patients CSV path")
	pf.StringVar(&cfg.Ledger, "ledger", "", "Run ledger database path")
	pf.BoolVar(&cfg.NoLedger, "no-ledger", false, "Do not record runs")

	classicalCmd := &cobra.Command{
		Use:     "classical",
		Short:   "Train and publish the logistic regression pipeline",
		Example: "  trainctl classical --visits data/visits.csv --patients data/patients.csv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnTrainClassical(cmd.Context(), cfg)
		},
	}
	quantumCmd := &cobra.Command{
		Use:   "quantum",
		Short: "Train and publish the quantum kernel SVC pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnTrainQuantum(cmd.Context(), cfg)
		},
	}
	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Train classical, then quantum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fnTrainClassical(cmd.Context(), cfg); err != nil {
				return err
			}
			return fnTrainQuantum(cmd.Context(), cfg)
		},
	}

	var (
		runsKind  string
		runsLimit int
	)
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded training runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch runsKind {
			case "", "classical", "quantum":
			default:
				return fmt.Errorf("unknown kind %q: want classical|quantum", runsKind)
			}
			return fnListRuns(cmd.Context(), cfg, runsKind, runsLimit)
		},
	}
	runsCmd.Flags().StringVar(&runsKind, "kind", "", "Only the latest run of this kind: classical|quantum")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list")

	inspectCmd := &cobra.Command{
		Use:   "inspect <artifact.json>",
		Short: "Print the schema of a model artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnInspect(cmd.Context(), cfg, args[0])
		},
	}

	seed := synth.DefaultSeedConfig()
	var synthDir string
	synthCmd := &cobra.Command{
		Use:     "synth",
		Short:   "Generate synthetic visits.csv and patients.csv",
		Example: "  trainctl synth --dir data --patients-count 600",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnSynth(cmd.Context(), cfg, synthDir, seed)
		},
	}
	synthCmd.Flags().StringVar(&synthDir, "dir", "data", "Output directory")
	synthCmd.Flags().IntVar(&seed.Patients, "patients-count", seed.Patients, "Number of patients")
	synthCmd.Flags().IntVar(&seed.VisitsPerPatient, "visits-per-patient", seed.VisitsPerPatient, "Visits per patient")
	synthCmd.Flags().Float64Var(&seed.MissingRate, "missing-rate", seed.MissingRate, "Share of blank vital readings")
	synthCmd.Flags().Int64Var(&seed.Seed, "seed", seed.Seed, "Random seed")

	root.AddCommand(classicalCmd, quantumCmd, allCmd, runsCmd, inspectCmd, synthCmd)
	return root
}
