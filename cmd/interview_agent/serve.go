package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/practice"
	"github.com/jonathan/interview-coach/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the chat, practice question, evaluation and admin review endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 3000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(config.Load(), configPath, verbose)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	observability.Configure(os.Stderr, cfg.Verbose)

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	reviewer, cleanup, err := buildReviewer(ctx, cfg, registry)
	if err != nil {
		return fmt.Errorf("failed to set up repository review: %w", err)
	}
	defer cleanup()

	engine := interview.NewEngine(interview.NewGenerator(registry.Default()))
	srv := server.New(server.Config{
		Addr:           cfg.Addr(),
		AllowedOrigins: cfg.AllowedOrigins,
	}, engine, reviewer, practice.New(registry))

	return srv.Start(ctx)
}
