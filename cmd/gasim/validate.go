package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoSim-25-26J-441/genetic-core/internal/orchestrator"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a simulation config without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v.GetString("validate.config"))
			if err != nil {
				return err
			}
			orc, err := orchestrator.New(cfg)
			if err != nil {
				return err
			}
			ec, expression := orc.EngineConfig(), orc.Expression()
			fmt.Fprintf(cmd.OutOrStdout(),
				"config is valid: f(x) = %s over [%d, %d] (%d bit genes), %d runs on %d threads\n",
				expression.Source(), ec.Codec.Min(), ec.Codec.Max(), ec.Codec.Width(),
				cfg.Simulation.RunCount, cfg.Simulation.ThreadCount)
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "", "simulation config file (YAML)")
	_ = v.BindPFlag("validate.config", cmd.Flags().Lookup("config"))
	return cmd
}
