// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-sync CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-sync/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// resolveSecret returns the first non-empty value among an explicit
// override, a .secrets/ file, and an environment variable.
func resolveSecret(explicit, secretKey, envKey string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := loadedSecrets[secretKey]; ok {
		return v
	}
	return os.Getenv(envKey)
}

// rootCmd is the base command for the pubmed-sync CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-sync",
	Short: "Harvest PubMed literature into a cumulative CSV snapshot",
	Long: `pubmed-sync fetches cardiovascular-disease literature from the NCBI
PubMed API, merges the new records into the previously accumulated dataset
(deduplicated by PMID, incoming records win), and replaces the CSV snapshot
in object storage.

The tool is built to run on an external schedule, one run at a time. Use
"run" to execute a harvest and "history" to inspect past runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is developer convenience; a missing file is fine.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-sync.yaml or ~/.config/pubmed-sync/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-sync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-sync"))
		}
	}

	viper.SetEnvPrefix("PUBMED_SYNC")
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
