package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/existflow/ironlist/internal/config"
	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	port := os.Getenv("PORT")
	addr := cfg.HTTPAddr
	if port != "" {
		addr = ":" + port
	}

	if err := logger.Init(logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		FilePath:   cfg.LogFile,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    true,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := dispatch.Open(ctx, cfg, dispatch.AppOptions{})
	if err != nil {
		log.Fatalf("Failed to open app: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()
	if err := app.Load(ctx); err != nil {
		log.Printf("Saved data unreadable, starting empty: %v", err)
	}

	log.Printf("ironlist server starting on %s", addr)
	if err := server.New(app).Run(ctx, addr); err != nil {
		log.Printf("Server failed: %v", err)
		return
	}
	log.Printf("ironlist server stopped")
}
