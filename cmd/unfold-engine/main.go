// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the unfold-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the unfold-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "unfold-engine",
	Short: "Phonon band-structure unfolding for disordered supercells",
	Long: `unfold-engine computes phonon band structures for structurally disordered
crystals by unfolding supercell eigenstates onto the ideal primitive cell.

The band subcommands preview q-point paths and inspect or convert persisted
band-structure containers; the construction engine itself lives in the
internal/band library and is driven by the configured eigenstate solver.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./unfold-engine.yaml or ~/.config/unfold-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("unfold-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "unfold-engine"))
		}
	}

	viper.SetEnvPrefix("UNFOLD_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
