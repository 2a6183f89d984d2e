package main

import (
	"context"
	"os"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/dependency"
	"pomodoro-api-svc/src/internal/logger"
	"pomodoro-api-svc/src/internal/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.StandardLogger()

func main() {
	var cfg *config.Configuration

	rootCmd := &cobra.Command{
		Use:   "pomodoro-api",
		Short: "Pomodoro session tracking and statistics API",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			logger.Init(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create database tables and indexes, then exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cfg)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cfg *config.Configuration) error {
	log.Infof("Application %s is starting....", cfg.App.Name)

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		log.WithError(err).Errorf("Error starting server: %v", err)
		return err
	}
	return nil
}

// migrate relies on OpenStorage creating the schema or indexes of the configured driver.
func migrate(cfg *config.Configuration) error {
	log.WithField("driver", cfg.Database.Driver).Info("Running migrations...")

	storage, err := dependency.OpenStorage(cfg)
	if err != nil {
		log.WithError(err).Error("Migration failed")
		return err
	}
	defer storage.Close(context.Background())

	log.Info("Migrations completed")
	return nil
}
