package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"timecard-reconciliation-backend/internal/config"
	"timecard-reconciliation-backend/internal/routes"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on system env")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	r := gin.Default()
	if err := routes.RegisterRoutes(r, cfg, logger); err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server starting", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
