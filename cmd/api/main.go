// Command api runs the Brainiax website backend.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"brainiax-backend/internal/config"
	"brainiax-backend/internal/database"
	"brainiax-backend/internal/events"
	"brainiax-backend/internal/mailer"
	"brainiax-backend/internal/server"
)

func main() {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	dbCfg := database.NewConfig(cfg)
	db, err := database.NewService(dbCfg)
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}

	feed := events.NewFeed()
	if err := feed.Start(dbCfg.DSN()); err != nil {
		// The API works without the feed; admin dashboards just lose
		// live updates.
		log.Printf("Change feed unavailable: %v", err)
	}

	srv := server.New(cfg, db, feed, mailer.New(cfg))
	httpServer := srv.HTTPServer()

	go func() {
		log.Printf("Listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	feed.Close()
	if err := db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}
