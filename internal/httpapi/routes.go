package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akhmelev/evo-backend/internal/hub"
	"github.com/akhmelev/evo-backend/internal/identity"
	"github.com/akhmelev/evo-backend/internal/lifecycle"
	"github.com/akhmelev/evo-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, lm *lifecycle.Manager, svc *identity.Service) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/login", Login(svc))
	r.Get("/healthz", Healthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/ws", ws.Handler(h, lm, svc))
	return r
}
