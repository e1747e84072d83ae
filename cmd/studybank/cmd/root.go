// Package cmd implements the studybank command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharoushi/studybank/internal/config"
	"github.com/sharoushi/studybank/internal/server"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "studybank",
	Short: "Exam question bank MCP server",
	Long: `Studybank maintains a local corpus of past exam questions together
with your answer history and bookmarks, and serves study-mode queries
(sequential, bookmarked, weak, search, random test) as MCP tools.`,
	SilenceUsage: true,
	Version:      server.Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: <data dir>/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
