package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bizlink/alliance/internal/pkg/logger"
	"github.com/spf13/cobra"
)

// @title BizLink Alliance API
// @version 1.0
// @description API for the BizLink Alliance business networking community

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

var configPath string

var rootCmd = &cobra.Command{
	Use:          "bizlink",
	Short:        "BizLink Alliance backend",
	SilenceUsage: true,
	// Running the binary without a subcommand starts the API server
	RunE: serveCmd.RunE,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file (default configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, importUsersCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}
