package main

import (
	"context"
	"log"
	"time"

	"github.com/basso-ws/workspace-backend/config"
	"github.com/basso-ws/workspace-backend/internal/bootstrap"
	"github.com/basso-ws/workspace-backend/internal/identity"
	"github.com/basso-ws/workspace-backend/internal/profiles"
	"github.com/basso-ws/workspace-backend/internal/session/repository"
	"github.com/basso-ws/workspace-backend/internal/session/service"
	"github.com/basso-ws/workspace-backend/internal/session/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	store := repository.NewStore(rdb)
	idClient := identity.NewClient(cfg.Identity.URL, cfg.Identity.AnonKey)
	profileRepo := profiles.NewRepo(db)

	manager := service.NewManager(idClient, profileRepo, store, cfg.Identity.Timeout)

	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	snap := manager.Bootstrap(bootCtx)
	cancel()
	if snap.Error != "" {
		log.Printf("session bootstrap: %s (starting signed out)", snap.Error)
	}

	go func() {
		if err := manager.Watch(ctx); err != nil {
			log.Printf("auth event watcher stopped: %v", err)
		}
	}()

	sw := sweeper.New(store)
	sw.Start()
	defer sw.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "workspace-backend",
		Version:        cfg.App.Version,
		DB:             db,
		RDB:            rdb,
		Store:          store,
		Manager:        manager,
		ProfilesRepo:   profileRepo,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
