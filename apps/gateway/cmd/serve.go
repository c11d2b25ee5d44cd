package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hasdev/api-gateway/pkg/db"
	"github.com/hasdev/api-gateway/pkg/gwapi"
	"github.com/hasdev/api-gateway/pkg/gwapi/config"
	"github.com/hasdev/api-gateway/pkg/gwapi/routes"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the API server",
	Long:    `Loads configuration from the environment, connects the database and optional backends, and serves the API until interrupted.`,
	Run:     serve,
}

var serveMigrate bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
}

func serve(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}
	cfg.Print(log.Printf)

	logger := newLogger(cfg)

	database, err := db.New(ctx, cfg.DBConfig())
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	defer database.Close()

	if serveMigrate {
		if err := db.Migrate(ctx, database, logger); err != nil {
			logger.Fatalf("failed to migrate: %v", err)
		}
	}

	svcs, err := services.NewServices(ctx, cfg, database, logger)
	if err != nil {
		logger.Fatalf("failed to initialize services: %v", err)
	}
	defer func() {
		if err := svcs.Close(); err != nil {
			logger.Warn("failed to close services", "error", err)
		}
	}()

	api := gwapi.NewApi(cfg)
	routes.RegisterAPI(api.Api, svcs)
	if cfg.StaticDir != "" {
		api.MountSPA(cfg.StaticDir)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Gateway starting on %s\n", addr)
	log.Printf("📚 OpenAPI docs: %s/docs\n", cfg.BaseURL)
	log.Printf("📄 OpenAPI spec: %s/openapi.json\n", cfg.BaseURL)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
