package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/sharoushi/studybank/internal/logging"
	"github.com/sharoushi/studybank/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Starts the studybank MCP server on stdio. Corpus import and legacy
history migration run before the first tool call is accepted. All
diagnostics go to stderr and the log file; stdout carries the protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := logging.New(cfg)
		defer log.Sync()

		s, cleanup, err := server.New(cfg, log)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()

		return mcpserver.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
