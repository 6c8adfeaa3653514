package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-ops/internal/app/api"
	"restaurant-ops/internal/common/logger"
	"restaurant-ops/internal/config"
	"restaurant-ops/internal/microservices/notificator"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "restaurant-system",
		Short:         "Restaurant reporting and staff notification service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	load := func() (*config.Config, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{Level: cfg.Log.Level, JSONOutput: cfg.Log.JSON})
		return cfg, nil
	}

	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and change-stream triggers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			lg := logger.New("bootstrap")
			if err := api.Run(cmd.Context(), cfg); err != nil {
				lg.Error().Err(err).Msg("fatal")
				return err
			}
			return nil
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address, overrides http.addr")

	subscriber := &cobra.Command{
		Use:   "notification-subscriber",
		Short: "Consume fanned-out notifications from RabbitMQ and log them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			lg := logger.New("bootstrap")
			lg.Info().Str("service", "notification-subscriber").Msg("service_started")
			if err := notificator.Start(cmd.Context(), cfg.RabbitMQ); err != nil {
				lg.Error().Err(err).Msg("fatal")
				return err
			}
			return nil
		},
	}

	root.AddCommand(serve, subscriber)
	return root
}
