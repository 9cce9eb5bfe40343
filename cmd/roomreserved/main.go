package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"roomreserve-backend/config"
	"roomreserve-backend/internal/api"
	"roomreserve-backend/internal/db"
	"roomreserve-backend/internal/engine"
	"roomreserve-backend/internal/notification"
	"roomreserve-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "roomreserve ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
	workerPool.Start(ctx)

	clock := engine.SystemClock()
	eng := engine.New(appStore, clock,
		engine.WithNotifier(workerPool),
		engine.WithGrace(
			time.Duration(cfg.GuestPass.GraceBeforeMinutes)*time.Minute,
			time.Duration(cfg.GuestPass.GraceAfterMinutes)*time.Minute,
		),
	)
	if err := eng.Load(ctx); err != nil {
		logger.Fatalf("failed to rebuild availability index: %v", err)
	}
	logger.Println("availability index rebuilt from store")

	if cfg.Sweeper.Enabled {
		sweeper := engine.NewSweeper(eng, cfg.Sweeper.Interval)
		go sweeper.Run(ctx)
	} else {
		logger.Println("hold sweeper is disabled")
	}

	router := api.NewRouter(eng, clock, appStore, &cfg.Server, &webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
