package main

import (
	"fmt"

	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/server"
	"github.com/spf13/cobra"
)

// cfg is loaded once by the root command before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "popcorn",
	Short:         "24/7 movie channels from your library",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, regenerateCmd, syncCmd, channelsCmd)
}

// openServer connects to the database and wires every service
func openServer() (*server.Server, func(), error) {
	database, err := db.Open(cfg.Database.Path, cfg.Database.MigrationsPath)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	srv, err := server.New(cfg, database)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return srv, closeDB, nil
}
