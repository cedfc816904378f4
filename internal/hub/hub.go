package hub

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akhmelev/evo-backend/internal/engine"
	"github.com/akhmelev/evo-backend/internal/logger"
	"github.com/akhmelev/evo-backend/internal/match"
	"github.com/akhmelev/evo-backend/internal/monitor"
	"github.com/akhmelev/evo-backend/internal/protocol"
	"github.com/akhmelev/evo-backend/internal/rooms"
)

// Session is one connected user as the hub sees it: an identity and an
// outbox the transport's writer drains. The hub and the match pumps only
// ever do non-blocking sends into Out, so a dead client cannot stall a
// room or a game.
type Session struct {
	ID     string
	UserID string
	Out    chan protocol.ServerMessage
}

func NewSession(userID string) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Out:    make(chan protocol.ServerMessage, 64),
	}
}

type HubMsg interface{ isHubMsg() }

// Register announces a new connection's session.
type Register struct{ Session *Session }

// Unregister is the disconnect path: the lifecycle manager translates a
// dropped transport connection into this message.
type Unregister struct{ SessionID, UserID string }

// Dispatch carries one decoded client command with its bound actor.
type Dispatch struct {
	UserID string
	Cmd    protocol.Command
}

type ShutdownHub struct{}

// GetView reflects internal state for tests without data races.
type GetView struct{ Reply chan View }

type View struct {
	NumSessions int
	NumGames    int
	GameOf      map[string]string
}

type gameIdle struct{ GameID string }

func (Register) isHubMsg()    {}
func (Unregister) isHubMsg()  {}
func (Dispatch) isHubMsg()    {}
func (ShutdownHub) isHubMsg() {}
func (GetView) isHubMsg()     {}
func (gameIdle) isHubMsg()    {}

// Stats receives gameplay notifications for the identity store. May be nil.
type Stats interface {
	GameStarted(userIDs []string)
}

// Hub owns the room registry and the match table and routes every decoded
// command. Room and game membership changes are serialized through its
// loop; game actions are handed straight into the owning match's inbox, so
// distinct games stay fully parallel.
type Hub struct {
	inbox    chan HubMsg
	registry *rooms.Registry
	matches  map[string]*match.Match
	gameOf   map[string]string // userID -> gameID
	sessions map[string]*Session
	rules    engine.Rules
	metrics  *monitor.Metrics
	stats    Stats
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, rules engine.Rules, metrics *monitor.Metrics, stats Stats) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		registry: rooms.NewRegistry(),
		matches:  make(map[string]*match.Match),
		gameOf:   make(map[string]string),
		sessions: make(map[string]*Session),
		rules:    rules,
		metrics:  metrics,
		stats:    stats,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Register:
				h.sessions[msg.Session.UserID] = msg.Session
				h.metrics.SessionOpened()

			case Unregister:
				h.handleDisconnect(msg.UserID, msg.SessionID)

			case Dispatch:
				h.dispatch(msg.UserID, msg.Cmd)

			case gameIdle:
				h.removeGame(msg.GameID)

			case GetView:
				view := View{
					NumSessions: len(h.sessions),
					NumGames:    len(h.matches),
					GameOf:      make(map[string]string, len(h.gameOf)),
				}
				for k, v := range h.gameOf {
					view.GameOf[k] = v
				}
				msg.Reply <- view

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// dispatch is the single routing switch for client commands. Invalid
// commands fall through silently: from the outside, nothing happened.
func (h *Hub) dispatch(userID string, cmd protocol.Command) {
	switch c := cmd.(type) {
	case protocol.RoomCreate:
		// moving to a new room exits the old one first
		h.exitRoom(userID)
		room := h.registry.Create(userID)
		h.broadcastRoom(room)
		h.metrics.SetOpenRooms(h.registry.Count())

	case protocol.RoomJoin:
		room, err := h.registry.Join(c.RoomID, userID)
		if err != nil {
			logger.Log.Debugw("room join rejected", "user", userID, "room", c.RoomID, "reason", err)
			return
		}
		h.broadcastRoom(room)

	case protocol.RoomExit:
		h.exitRoom(userID)
		h.metrics.SetOpenRooms(h.registry.Count())

	case protocol.GameCreate:
		h.createGame(userID, c.RoomID)

	case protocol.GameAction:
		gid, ok := h.gameOf[userID]
		if !ok {
			logger.Log.Debugw("game action from user with no game", "user", userID)
			return
		}
		m := h.matches[gid]
		select {
		case m.Inbox() <- match.FromClient{ActorID: userID, Action: c.Action}:
		default:
			// never let one congested game stall routing for the rest
			logger.Log.Warnw("match inbox full, action dropped", "game", gid, "user", userID)
			h.metrics.ActionRejected()
		}
	}
}

// createGame consumes the room's membership 1:1 into a new game and
// subscribes every member's live session to the match.
func (h *Hub) createGame(userID, roomID string) {
	room, ok := h.registry.Get(roomID)
	if !ok {
		logger.Log.Debugw("game create for unknown room", "user", userID, "room", roomID)
		return
	}
	if _, in := h.gameOf[userID]; in {
		logger.Log.Debugw("game create while already in a game", "user", userID)
		return
	}

	gameID := uuid.NewString()
	seed := time.Now().UnixNano()
	st := engine.NewGame(gameID, roomID, room.Users, seed, h.rules)

	m := match.New(h.ctx, st, h.metrics, func(id string) {
		h.inbox <- gameIdle{GameID: id}
	})
	h.matches[gameID] = m

	for _, uid := range room.Users {
		h.gameOf[uid] = gameID
		if sess, ok := h.sessions[uid]; ok {
			h.subscribe(sess, m)
		}
	}
	h.metrics.SetRunningGames(len(h.matches))
	logger.Log.Infow("game created", "game", gameID, "room", roomID, "players", len(room.Users))

	if h.stats != nil {
		// identity store writes may hit a database; keep them off the loop
		members := append([]string(nil), room.Users...)
		go h.stats.GameStarted(members)
	}
}

// subscribe joins a session to a match and pumps match events into the
// session outbox until the match closes the subscription.
func (h *Hub) subscribe(sess *Session, m *match.Match) {
	events := make(chan match.Event, 16)
	m.Inbox() <- match.Join{ClientID: sess.UserID, Outbox: events}

	go func() {
		for ev := range events {
			out := protocol.ServerMessage{
				Type:    protocol.MsgGameEvent,
				GameID:  m.ID(),
				Version: ev.Version,
				Actor:   ev.ActorID,
			}
			if ev.State != nil {
				out.Type = protocol.MsgGameSnapshot
				out.State = ev.State
			}
			if ev.Action != nil {
				a := protocol.EncodeAction(ev.Action)
				out.Action = &a
			}
			if !trySend(sess, out) {
				// the client can't keep up; cut the subscription so the
				// match never queues against it
				m.Inbox() <- match.Leave{ClientID: sess.UserID}
				for range events {
				}
				return
			}
		}
	}()
}

// exitRoom performs the room half of a user leaving: registry exit plus
// notifications. A user leaving their room also leaves their game.
func (h *Hub) exitRoom(userID string) {
	h.leaveGame(userID)

	after, err := h.registry.Exit(userID)
	if err != nil {
		return
	}
	if sess, ok := h.sessions[userID]; ok {
		trySend(sess, protocol.ServerMessage{Type: protocol.MsgRoomLeft})
	}
	if after != nil {
		h.broadcastRoom(*after)
	}
}

func (h *Hub) leaveGame(userID string) {
	gid, in := h.gameOf[userID]
	if !in {
		return
	}
	delete(h.gameOf, userID)
	m := h.matches[gid]
	if m == nil {
		return
	}
	// same serialization point as any turn action, so a leave cannot race
	// an in-flight submission for this game
	m.Inbox() <- match.FromClient{ActorID: userID, Action: engine.Leave{}}
	m.Inbox() <- match.Leave{ClientID: userID}
}

// handleDisconnect translates a transport drop into the same membership
// changes an explicit exit performs.
func (h *Hub) handleDisconnect(userID, sessionID string) {
	sess, ok := h.sessions[userID]
	if ok && sess.ID != sessionID {
		// a newer session for this user superseded the one that dropped
		return
	}
	h.exitRoom(userID)
	delete(h.sessions, userID)
	h.metrics.SessionClosed()
	h.metrics.SetOpenRooms(h.registry.Count())
}

func (h *Hub) removeGame(gameID string) {
	if _, ok := h.matches[gameID]; !ok {
		return
	}
	delete(h.matches, gameID)
	for uid, gid := range h.gameOf {
		if gid != gameID {
			continue
		}
		delete(h.gameOf, uid)
		if sess, ok := h.sessions[uid]; ok {
			trySend(sess, protocol.ServerMessage{Type: protocol.MsgGameClosed, GameID: gameID})
		}
	}
	h.metrics.SetRunningGames(len(h.matches))
}

// broadcastRoom emits the room's membership to every current member.
func (h *Hub) broadcastRoom(room rooms.Room) {
	for _, uid := range room.Users {
		if sess, ok := h.sessions[uid]; ok {
			r := room
			trySend(sess, protocol.ServerMessage{Type: protocol.MsgRoomUpdate, Room: &r})
		}
	}
}

func (h *Hub) shutdown() {
	for _, m := range h.matches {
		m.Inbox() <- match.Shutdown{}
	}
	clear(h.matches)
	clear(h.gameOf)
	clear(h.sessions)
	h.cancel()
}

func trySend(sess *Session, msg protocol.ServerMessage) bool {
	select {
	case sess.Out <- msg:
		return true
	default:
		return false
	}
}
