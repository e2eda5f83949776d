package main

import (
	"log/slog"
	"os"
	_ "time/tzdata"

	_ "parishtasks/docs"
	"parishtasks/internal/config"
	"parishtasks/internal/logger"
	"parishtasks/internal/server"
)

// @title           Parish Tasks API
// @version         1.0
// @description     Recurring parish work: seeded checklists, priority scoring and per-origin rollups.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration failed", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.Server.LogLevel)

	s, err := server.Init(cfg, log)
	if err != nil {
		log.Error("server initialization failed", "error", err)
		os.Exit(1)
	}

	if err := s.Run(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
