package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoSim-25-26J-441/genetic-core/internal/orchestrator"
	"github.com/GoSim-25-26J-441/genetic-core/internal/report"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/config"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v.GetString("run.config"))
			if err != nil {
				return err
			}
			applyOverrides(v, cfg)

			var sink report.Sink
			switch format := v.GetString("run.report"); format {
			case "text":
				sink = report.NewWriterSink(cmd.OutOrStdout())
			case "log":
				sink = report.NewLoggerSink(logger.Default)
			default:
				return fmt.Errorf("unknown report format %q (want text or log)", format)
			}

			rep := report.New(report.VerbosityFromOutput(cfg.Output), sink)
			orc, err := orchestrator.New(cfg,
				orchestrator.WithObserver(rep),
				orchestrator.WithLogger(logger.With("command", "run")))
			if err != nil {
				return err
			}
			_, err = orc.Simulate()
			return err
		},
	}

	cmd.Flags().StringP("config", "c", "", "simulation config file (YAML); defaults are used when empty")
	cmd.Flags().Int64("seed", 0, "base random seed, run n uses seed+n (overrides config)")
	cmd.Flags().Int("threads", 0, "worker count (overrides config)")
	cmd.Flags().Int("runs", 0, "number of runs (overrides config)")
	cmd.Flags().String("report", "text", "report destination: text (stdout) or log (structured log records)")
	_ = v.BindPFlag("run.config", cmd.Flags().Lookup("config"))
	_ = v.BindPFlag("seed", cmd.Flags().Lookup("seed"))
	_ = v.BindPFlag("threads", cmd.Flags().Lookup("threads"))
	_ = v.BindPFlag("runs", cmd.Flags().Lookup("runs"))
	_ = v.BindPFlag("run.report", cmd.Flags().Lookup("report"))
	return cmd
}

// applyOverrides copies non-zero command line and environment settings
// over the file configuration
func applyOverrides(v *viper.Viper, cfg *config.Config) {
	if seed := v.GetInt64("seed"); seed != 0 {
		cfg.Simulation.Seed = seed
	}
	if threads := v.GetInt("threads"); threads > 0 {
		cfg.Simulation.ThreadCount = threads
	}
	if runs := v.GetInt("runs"); runs > 0 {
		cfg.Simulation.RunCount = runs
	}
}
