package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/akhmelev/evo-backend/internal/config"
	"github.com/akhmelev/evo-backend/internal/httpapi"
	"github.com/akhmelev/evo-backend/internal/hub"
	"github.com/akhmelev/evo-backend/internal/identity"
	"github.com/akhmelev/evo-backend/internal/lifecycle"
	"github.com/akhmelev/evo-backend/internal/logger"
	"github.com/akhmelev/evo-backend/internal/monitor"
)

func main() {
	// .env feeds the environment viper reads; absent in production
	_ = godotenv.Load()
	logger.Init()

	cfg, err := config.Load(".")
	if err != nil {
		logger.Log.Fatalf("failed to load configuration: %v", err)
	}

	var store identity.Store
	if cfg.Database.DSN != "" {
		gs, err := identity.NewGormStore(cfg.Database.DSN)
		if err != nil {
			logger.Log.Fatalf("failed to connect to database: %v", err)
		}
		defer gs.Close()
		store = gs
		logger.Log.Info("using postgres identity store")
	} else {
		store = identity.NewMemoryStore()
		logger.Log.Info("using in-memory identity store")
	}
	svc := identity.NewService(store)

	metrics := monitor.NewMetrics(cfg.Server.Namespace)

	ctx := context.Background()
	h := hub.NewHub(ctx, cfg.Game, metrics, svc)
	lm := lifecycle.NewManager(ctx, h.Inbox())

	handler := httpapi.SetupRoutes(h, lm, svc)

	logger.Log.Infow("listening", "addr", cfg.Server.HTTPAddress)
	if err := http.ListenAndServe(cfg.Server.HTTPAddress, handler); err != nil {
		logger.Log.Fatalf("server stopped: %v", err)
	}
}
