package main

import (
	"fmt"

	"github.com/bizlink/alliance/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		srv, err := server.NewServer(cmd.Context(), configPath)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		// Run blocks until a shutdown signal arrives
		return srv.Run()
	},
}
