package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gravitas-games/mechtactics/internal/config"
	"github.com/gravitas-games/mechtactics/internal/maploader"
	"github.com/gravitas-games/mechtactics/internal/server"
)

func main() {
	log.Println("Starting Mech Tactics Server...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded from %s", configPath)

	grid, reg, err := maploader.Build(context.Background(), cfg.Grid)
	if err != nil {
		log.Fatalf("Failed to build grid: %v", err)
	}

	srv, err := server.New(cfg, grid, reg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := cfg.Addr()
		log.Printf("Server listening on %s", addr)
		if err := srv.Start(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	if err := srv.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}
