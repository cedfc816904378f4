package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/akhmelev/evo-backend/internal/identity"
	"github.com/akhmelev/evo-backend/internal/logger"
)

// Login mints a user identity. Clients call it once, keep the returned id
// and present it on the websocket connect.
func Login(svc *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if r.Body != nil {
			// an empty or absent body just means an anonymous login
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		u, err := svc.Login(r.Context(), body.Name)
		if err != nil {
			logger.Log.Errorw("login failed", "error", err)
			http.Error(w, "failed to create user", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(u)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
