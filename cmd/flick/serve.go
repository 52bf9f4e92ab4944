package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API",
	Long:  `Serves news, swipes, engagement and preferences over HTTP for web clients, plus Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			host, port, err := splitAddr(addr)
			if err != nil {
				return err
			}
			cfg.Server.Host, cfg.Server.Port = host, port
		}

		level := log.InfoLevel
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			level = log.DebugLevel
		}
		logging.InitWriter(os.Stderr, level)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := openBackend(context.WithoutCancel(ctx), cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		srv := server.New(server.Config{
			DefaultLimit:   cfg.News.Limit,
			NewsPerMinute:  cfg.Server.NewsPerMinute,
			PrefsPerMinute: cfg.Server.PrefsPerMinute,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			TrustProxy:     cfg.Server.TrustProxy,
		}, server.Deps{
			Source:  b.fetcher,
			Store:   b.store,
			Work:    b.pool,
			Metrics: b.metrics,
		})
		return srv.ListenAndServe(ctx, cfg.Addr())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address host:port (overrides config)")
	serveCmd.Flags().Bool("debug", false, "Log every request")
	rootCmd.AddCommand(serveCmd)
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("invalid --addr port %q", portStr)
	}
	return host, port, nil
}
