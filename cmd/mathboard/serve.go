package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mathboard/mathboard/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cfg, err := newRecognizer(cmd)
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.NewApiServer(r).Serve(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address, host:port or unix:<path> (overrides config)")
}
