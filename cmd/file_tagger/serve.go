package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/file-tagger/internal/config"
	"github.com/jonathan/file-tagger/internal/server"
)

var (
	servePort      int
	serveWhitelist string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that accepts multipart uploads, renders them, and serves the results as zip archives.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().StringVar(&serveWhitelist, "rate-limit-whitelist", os.Getenv(config.EnvPrefix+"RATE_LIMIT_WHITELIST"),
		"Comma-separated client IPs exempt from rate limiting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := serverConfig(settings)
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// serverConfig maps resolved settings onto the server configuration.
func serverConfig(cfg config.Config) server.Config {
	return server.Config{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		DownloadTTL:    cfg.DownloadTTLDuration(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Whitelist:      serveWhitelist,
		Workers:        cfg.Workers,
		Logger:         logger,
	}
}
