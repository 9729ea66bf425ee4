package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"workalone-be/internal/bootstrap"
	"workalone-be/internal/config"
	"workalone-be/internal/server"
	"workalone-be/internal/tracer"
	"workalone-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.Init(cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := openDatabase(cfg)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Re-arm deadline timers for sessions that were open before restart
	if err := container.EscalationService.Resume(context.Background()); err != nil {
		log.Panicf("Unable to resume open sessions: %v", err)
	}

	// 6. Start Background Services
	log.Println("Background: Starting Dispatch Service...")
	if err := container.DispatchService.Start(context.Background()); err != nil {
		log.Panicf("Unable to start dispatch workers: %v", err)
	}

	// 7. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			log.Panicf("Server stopped: %v", err)
		}
	}()

	// 8. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	_ = srv.GetApp().Shutdown()
	container.EscalationService.Shutdown()
	if container.NatsPublisher != nil {
		container.NatsPublisher.Close()
	}
	if container.NatsSubscriber != nil {
		container.NatsSubscriber.Close()
	}
	_ = container.Logger.Sync()
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Driver == "sqlite" {
		return database.NewSqliteDB(cfg.Database.SqlitePath)
	}
	return database.NewGormDBFromDSN(cfg.Database.Connection)
}
