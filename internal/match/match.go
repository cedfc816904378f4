package match

import (
	"context"

	"github.com/akhmelev/evo-backend/internal/engine"
	"github.com/akhmelev/evo-backend/internal/logger"
	"github.com/akhmelev/evo-backend/internal/monitor"
)

type Msg interface{ isMatchMsg() }

// FromClient carries one decoded action into the match. ActorID is bound to
// the sending connection by the transport layer, never read from a payload.
type FromClient struct {
	ActorID string
	Action  engine.Action
}

func (FromClient) isMatchMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Event // where this subscriber wants to receive events
}

func (Join) isMatchMsg() {}

type Leave struct{ ClientID string }

func (Leave) isMatchMsg() {}

type Shutdown struct{}

func (Shutdown) isMatchMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isMatchMsg() {}

// Event is what subscribers receive. Accepted actions are rebroadcast with
// their version so every mirror replays the same total order; State is set
// only on the join/resync snapshot, so late subscribers skip the history.
type Event struct {
	Version int
	ActorID string
	Action  engine.Action
	State   *engine.State
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// Match is the serialization point for one game: every action passes
// through its single loop goroutine, so two actions are never applied
// against the same base snapshot.
type Match struct {
	id      string
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Event
	metrics *monitor.Metrics
	onIdle  func(gameID string)
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts the match loop. onIdle is called (from the loop goroutine)
// when the game is over and the last subscriber has left.
func New(parent context.Context, initial engine.State, metrics *monitor.Metrics, onIdle func(gameID string)) *Match {
	ctx, cancel := context.WithCancel(parent)

	m := &Match{
		id:      initial.ID,
		inbox:   make(chan Msg, 64),
		state:   initial,
		clients: make(map[string]chan Event),
		metrics: metrics,
		onIdle:  onIdle,
		ctx:     ctx,
		cancel:  cancel,
	}

	go m.loop()
	return m
}

func (m *Match) ID() string { return m.id }

// Inbox exposes the message channel to the hub and tests.
func (m *Match) Inbox() chan<- Msg { return m.inbox }

func (m *Match) loop() {
	for {
		select {
		case <-m.ctx.Done():
			m.shutdown()
			return

		case msg := <-m.inbox:
			switch msg := msg.(type) {
			case Join:
				m.clients[msg.ClientID] = msg.Outbox
				snap := m.state
				msg.Outbox <- Event{Version: m.version, State: &snap}

			case Leave:
				if ch, ok := m.clients[msg.ClientID]; ok {
					close(ch)
					delete(m.clients, msg.ClientID)
				}
				if len(m.clients) == 0 && m.state.Status.Phase == engine.PhaseGameOver {
					m.shutdown()
					if m.onIdle != nil {
						m.onIdle(m.id)
					}
					return
				}

			case FromClient:
				next, err := engine.Apply(m.state, msg.ActorID, msg.Action)
				if err != nil {
					// Every rejection looks the same from outside: no
					// broadcast, no reply. The reason stays in the logs.
					m.metrics.ActionRejected()
					logger.Log.Debugw("action rejected",
						"game", m.id, "actor", msg.ActorID, "reason", err)
					break
				}
				m.state = next
				m.version++
				m.metrics.ActionAccepted()
				m.broadcast(Event{Version: m.version, ActorID: msg.ActorID, Action: msg.Action})

			case GetState:
				msg.Reply <- View{
					Version:    m.version,
					NumClients: len(m.clients),
					State:      m.state,
				}

			case Shutdown:
				m.shutdown()
				return
			}
		}
	}
}

func (m *Match) shutdown() {
	for id, ch := range m.clients {
		close(ch)
		delete(m.clients, id)
	}
	m.cancel()
}

func (m *Match) broadcast(ev Event) {
	for id, ch := range m.clients {
		select {
		case ch <- ev:
		default:
			// Subscriber is slow or full; drop it rather than stall the game.
			close(ch)
			delete(m.clients, id)
		}
	}
}
