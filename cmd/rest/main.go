package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"media-courier-be/internal/bootstrap"
	"media-courier-be/internal/config"
	"media-courier-be/internal/server"
	"media-courier-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Worker
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		container.DownloadWorker.Run(ctx)
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server error: %v", err)
	}

	// Let the worker finish its current job before exiting.
	<-workerDone
	_ = container.Logger.Sync()
}
