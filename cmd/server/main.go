package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/rpattn/feedtrack/internal/analytics"
	"github.com/rpattn/feedtrack/internal/config"
	"github.com/rpattn/feedtrack/internal/feedxml"
	"github.com/rpattn/feedtrack/internal/fetch"
	"github.com/rpattn/feedtrack/internal/server"
	"github.com/rpattn/feedtrack/internal/snapshot"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := analytics.OpenStore(cfg.AnalyticsDB)
	if err != nil {
		log.Fatalf("Failed to open analytics store: %v", err)
	}
	defer store.Close()

	recorder := analytics.NewRecorder(store, uuid.NewString())
	defer recorder.Close()

	parser := feedxml.NewParser(feedxml.WithStockTokens(cfg.StockTokens))
	fetcher := fetch.NewClient(cfg.FetchTimeout)
	snapshots := snapshot.NewService(parser, fetcher, snapshot.WithEventRecorder(recorder))

	api := server.New(snapshots, fetcher, store, recorder, cfg.AdminToken, cfg.AllowedOrigins)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting feedtrack server on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
