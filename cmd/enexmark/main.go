// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the enexmark CLI, a bidirectional
// converter between ENEX note exports and Markdown files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/enexmark/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the pipeline logger, built once in PersistentPreRunE and passed
// into every component from here.
var log *logrus.Logger

// rootCmd is the base command for the enexmark CLI.
var rootCmd = &cobra.Command{
	Use:   "enexmark",
	Short: "Convert notes between ENEX exports and Markdown files",
	Long: `enexmark converts notes between two representations: ENEX documents
(the hierarchical XML export with embedded base64 resources) and Markdown
files (a frontmatter metadata block plus body, with resources stored in an
assets subdirectory).

Each direction is a subcommand: unpack turns ENEX files into Markdown,
pack bundles Markdown files back into a single ENEX document.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		log = logger.New(os.Stderr, level)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./enexmark.yaml or ~/.config/enexmark/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, or error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("enexmark")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "enexmark"))
		}
	}

	viper.SetEnvPrefix("ENEXMARK")
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
