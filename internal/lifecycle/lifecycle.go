// Package lifecycle funnels connection churn into the hub. Transport
// handlers report connects and disconnects here instead of poking the
// hub directly, so a flapping client produces an ordered stream of
// register/unregister messages no matter how its goroutines race.
package lifecycle

import (
	"context"

	"github.com/akhmelev/evo-backend/internal/hub"
	"github.com/akhmelev/evo-backend/internal/logger"
)

type event interface{ isEvent() }

type connected struct{ Session *hub.Session }

type disconnected struct{ SessionID, UserID string }

func (connected) isEvent()    {}
func (disconnected) isEvent() {}

// Manager owns a single goroutine that relays connection events to the
// hub inbox in arrival order.
type Manager struct {
	events chan event
	sink   chan<- hub.HubMsg
}

func NewManager(ctx context.Context, sink chan<- hub.HubMsg) *Manager {
	m := &Manager{
		events: make(chan event, 64),
		sink:   sink,
	}
	go m.loop(ctx)
	return m
}

func (m *Manager) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.events:
			switch e := ev.(type) {
			case connected:
				logger.Log.Infow("session connected", "user", e.Session.UserID, "session", e.Session.ID)
				m.sink <- hub.Register{Session: e.Session}
			case disconnected:
				logger.Log.Infow("session disconnected", "user", e.UserID, "session", e.SessionID)
				m.sink <- hub.Unregister{SessionID: e.SessionID, UserID: e.UserID}
			}
		}
	}
}

// Connected registers a freshly accepted connection's session.
func (m *Manager) Connected(sess *hub.Session) {
	m.events <- connected{Session: sess}
}

// Disconnected reports that the named session's transport dropped. The
// session ID lets the hub ignore drops of already superseded sessions.
func (m *Manager) Disconnected(sessionID, userID string) {
	m.events <- disconnected{SessionID: sessionID, UserID: userID}
}
