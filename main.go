// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gameladder/server/cliparse"
	"github.com/gameladder/server/igdb"
	"github.com/gameladder/server/ladder"
	"github.com/gameladder/server/middleware"
	"github.com/gameladder/server/router"
	"github.com/gameladder/server/store"
)

func main() {
	// A missing .env file is fine; flags and real env vars still apply.
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the vote store
	var st store.Store
	switch cfg.DatabaseType {
	case "postgres":
		st, err = store.NewPostgres(cfg.DatabaseURL)
	default:
		st, err = store.NewSQLite(cfg.DatabaseURL)
	}
	if err != nil {
		slog.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Game catalog client
	if cfg.IGDBClientID == "" || cfg.IGDBSecret == "" {
		slog.Warn("IGDB credentials not set; catalog lookups will fail")
	}
	catalog := igdb.NewClient(igdb.Config{
		ClientID:     cfg.IGDBClientID,
		ClientSecret: cfg.IGDBSecret,
	})

	// Tournament engine and router
	engine := ladder.NewEngine(st, catalog)
	mux := router.NewRouter(engine, st, catalog, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux, cfg.FrontendURL),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
