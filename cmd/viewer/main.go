package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"house-viewer/internal/common/config"
	"house-viewer/internal/common/middleware"
	"house-viewer/internal/viewer/handlers"
	"house-viewer/internal/viewer/loader"
	"house-viewer/internal/viewer/models"
	"house-viewer/internal/viewer/palette"
	"house-viewer/internal/viewer/repository"
	"house-viewer/internal/viewer/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// House Viewer Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	seedDefaults(repo, loader.New(time.Duration(cfg.FetchTimeout)*time.Second), cfg)

	viewer := service.NewViewer(repo, palette.NewPicker(cfg.ColorSeed, palette.Default), cfg.EdgeThreshold)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "House Viewer",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	handlers.Register(app, handlers.NewHouseHandler(viewer), handlers.NewHealthHandler(repo))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting House Viewer on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedDefaults кладёт стартовые документы в хранилище. Ошибка загрузки не
// останавливает сервис: страница откроется, но без дома.
func seedDefaults(repo *repository.Repository, l *loader.Loader, cfg *config.Config) {
	ctx := context.Background()

	if _, body, err := l.FetchHouse(ctx, cfg.HouseSource); err != nil {
		log.Printf("[VIEWER] House %s not loaded: %v", cfg.HouseSource, err)
	} else if _, err := repo.EnsureDefault(ctx, handlers.DefaultHouse, models.KindNamed, body); err != nil {
		log.Printf("[VIEWER] Seed house: %v", err)
	}

	if cfg.FlatSource == "" {
		return
	}
	if _, body, err := l.FetchFlat(ctx, cfg.FlatSource); err != nil {
		log.Printf("[VIEWER] Flat house %s not loaded: %v", cfg.FlatSource, err)
	} else if _, err := repo.EnsureDefault(ctx, handlers.DefaultHouse, models.KindFlat, body); err != nil {
		log.Printf("[VIEWER] Seed flat house: %v", err)
	}
}
