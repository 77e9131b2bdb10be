package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"coinTossServer/config"
	"coinTossServer/server"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Errorf("❌ Server error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "coinTossServer",
		Short:        "Coin toss waiting game server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			settings.ConfigureLogging()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, settings)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	return cmd
}
