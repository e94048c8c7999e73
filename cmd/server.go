package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/enterprise-search/internal/catalog"
	"github.com/ziadkadry99/enterprise-search/internal/dashboard"
	"github.com/ziadkadry99/enterprise-search/internal/indexer"
	"github.com/ziadkadry99/enterprise-search/internal/search"
	"github.com/ziadkadry99/enterprise-search/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API and chat dashboard",
	Long:  `Starts the esearch HTTP server with the search, ingest, sources, stats and queries API and a browser chat dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort > 0 {
			cfg.Server.Port = serverPort
		}
		logger := newLogger()

		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		orch, err := a.orchestrator()
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:        cfg.Server.Port,
			APIPrefix:   cfg.Server.APIPrefix,
			CORSOrigins: cfg.Server.CORSOrigins,
			Version:     Version,
		}, logger)

		registerAllRoutes(srv, a, orch, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("esearch server starting",
			"version", Version,
			"port", cfg.Server.Port,
			"database", cfg.DatabasePath(),
			"chunks_indexed", a.index.Count())

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

// registerAllRoutes wires the feature routes onto the server.
func registerAllRoutes(srv *server.Server, a *app, orch *search.Orchestrator, logger *slog.Logger) {
	srv.API(func(r chi.Router) {
		search.RegisterRoutes(r, orch)
		indexer.RegisterRoutes(r, a.pipeline)
		catalog.RegisterRoutes(r, a.catalog, a.cfg.KnownSources)
	})

	dash := dashboard.New(orch, a.catalog, logger)
	dash.RegisterRoutes(srv.Router())
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serverCmd)
}
