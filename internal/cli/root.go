// Package cli implements the triaia command surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GuardianAI1/triaia/internal/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "triaia",
	Short: "Triaia - stability monitoring for time- and resource-bound plans",
	Long: `Triaia scores the stability of an active plan against its boundary.

It couples a plan to external signals (planner task load, geospatial and
weather status), infers which supporting documents the plan should carry,
and turns everything into a three-part stability score with a recommended
intervention. Persisting violations escalate with regime-specific remedies.

Example:
  triaia check --plan trip.yaml`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .triaia.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".triaia")
	}

	viper.SetEnvPrefix("TRIAIA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
