package main

import (
	"chatoverlay/internal/pkg/app"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	var opts app.Options

	root := &cobra.Command{
		Use:           "chatoverlay",
		Short:         "Delayed, moderation-aware Twitch chat feed for stream overlays",
		Example:       "  chatoverlay --channel 22484632-forsen\n  chatoverlay --config /etc/chatoverlay/config.json --log-level debug",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.New(ctx, opts)
		},
	}

	root.Flags().StringVar(&opts.ConfigPath, "config", "config.json", "path to the JSON config, created with defaults when missing")
	root.Flags().StringVar(&opts.Channel, "channel", "", "channel as <id>-<login> or <login>, saved into the config")
	root.Flags().StringVar(&opts.LogLevel, "log-level", "", "override app.log_level (trace, debug, info, warn, error)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
