// Package cmd wires the waresim command line.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elektrokombinacija/warehouse-sim/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "waresim",
	Short: "Multi-robot warehouse simulation",
	Long: `Waresim simulates a robot fleet collecting items on a warehouse grid:
A* routing, capacity-aware item assignment, collision resolution and
dynamic obstacles with lifetimes. Run headless for reports or serve
live snapshots over websockets.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./waresim.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Defaults first so every key resolves even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("waresim")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/waresim")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WARESIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config file is fine; defaults carry the run
	_ = viper.ReadInConfig()
}
