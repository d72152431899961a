package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoSim-25-26J-441/genetic-core/pkg/config"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "gasim",
		Short: "Binary-encoded genetic algorithm simulator",
		Long: `gasim evolves populations of integer candidates against a fitness
expression of x, repeating the evolution across many independent runs
executed concurrently.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.NewWithFormat(v.GetString("log_format"), v.GetString("log_level"), cmd.ErrOrStderr()))
		},
	}

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", root.PersistentFlags().Lookup("log-format"))

	v.SetEnvPrefix("GASIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	root.AddCommand(newRunCmd(v), newValidateCmd(v), newServeCmd(v))
	return root
}

// loadConfig reads the file at path, or the defaults when path is empty
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, config.Validate(cfg)
	}
	return config.LoadConfig(path)
}

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
