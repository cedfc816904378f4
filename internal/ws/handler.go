package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/akhmelev/evo-backend/internal/hub"
	"github.com/akhmelev/evo-backend/internal/identity"
	"github.com/akhmelev/evo-backend/internal/lifecycle"
	"github.com/akhmelev/evo-backend/internal/logger"
	"github.com/akhmelev/evo-backend/internal/protocol"
)

const (
	readTimeout  = 5 * time.Minute
	writeTimeout = 3 * time.Second
)

// UserDirectory answers whether a user id presented at connect time exists.
type UserDirectory interface {
	Lookup(ctx context.Context, id string) (identity.User, error)
}

// Handler upgrades a connection, binds it to its authenticated user and
// shuttles messages between the socket and the hub. One reader loop plus
// one writer goroutine per connection; the actor on every command is the
// session's user, never anything from the payload.
func Handler(h *hub.Hub, lm *lifecycle.Manager, users UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			http.Error(w, "missing user", http.StatusBadRequest)
			return
		}
		if _, err := users.Lookup(r.Context(), userID); err != nil {
			http.Error(w, "unknown user", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		sess := hub.NewSession(userID)
		lm.Connected(sess)
		defer lm.Disconnected(sess.ID, userID)

		// Writer goroutine. The session outbox is never closed, so the
		// writer stops on connection teardown instead of channel close.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-sess.Out:
					payload, _ := json.Marshal(msg)
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (lifecycle.Disconnected in defer):
				return
			}

			var cm protocol.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				// invalid input produces nothing an observer could see
				logger.Log.Debugw("dropping malformed frame", "user", userID)
				continue
			}

			cmd, ok := protocol.ParseCommand(cm)
			if !ok {
				logger.Log.Debugw("dropping unknown command", "user", userID, "type", cm.Type)
				continue
			}

			h.Inbox() <- hub.Dispatch{UserID: userID, Cmd: cmd}
		}
	}
}
