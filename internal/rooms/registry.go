package rooms

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrUnknownRoom = errors.New("room not found")
var ErrAlreadyInRoom = errors.New("user already in a room")
var ErrNotInRoom = errors.New("user not in a room")

// Room is a pre-game grouping of users. Users keeps join order; a room with
// no users does not exist.
type Room struct {
	ID    string   `json:"id"`
	Users []string `json:"users"`
}

func (r Room) copy() Room {
	return Room{ID: r.ID, Users: append([]string(nil), r.Users...)}
}

func (r Room) has(userID string) bool {
	for _, u := range r.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// Registry tracks all live rooms and the one-room-per-user invariant.
// It holds no game logic; games consume a room's membership at creation.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	byUser map[string]string // userID -> roomID
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		byUser: make(map[string]string),
	}
}

// Create opens a fresh room holding only the creator. A creator already in
// another room exits it first, so a user is never in two rooms.
func (g *Registry) Create(creatorID string) Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.exitLocked(creatorID)

	room := &Room{ID: uuid.NewString(), Users: []string{creatorID}}
	g.rooms[room.ID] = room
	g.byUser[creatorID] = room.ID
	return room.copy()
}

// Join appends the user to the room's member list, preserving order. It is
// a no-op failure if the room is unknown or the user already belongs to any
// room, including this one.
func (g *Registry) Join(roomID, userID string) (Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, in := g.byUser[userID]; in {
		return Room{}, ErrAlreadyInRoom
	}
	room, ok := g.rooms[roomID]
	if !ok {
		return Room{}, ErrUnknownRoom
	}
	room.Users = append(room.Users, userID)
	g.byUser[userID] = roomID
	return room.copy(), nil
}

// Exit removes the user from its room. The returned room is the post-exit
// membership; nil means the room emptied and was destroyed.
func (g *Registry) Exit(userID string) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.exitLocked(userID)
}

// HandleDisconnect is Exit under a different entry point: the connection
// lifecycle manager calls it when the transport drops a user.
func (g *Registry) HandleDisconnect(userID string) (*Room, error) {
	return g.Exit(userID)
}

func (g *Registry) exitLocked(userID string) (*Room, error) {
	roomID, in := g.byUser[userID]
	if !in {
		return nil, ErrNotInRoom
	}
	room := g.rooms[roomID]
	delete(g.byUser, userID)
	for i, u := range room.Users {
		if u == userID {
			room.Users = append(room.Users[:i], room.Users[i+1:]...)
			break
		}
	}
	if len(room.Users) == 0 {
		delete(g.rooms, roomID)
		return nil, nil
	}
	out := room.copy()
	return &out, nil
}

// Get returns a copy of the room, if it exists.
func (g *Registry) Get(roomID string) (Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[roomID]
	if !ok {
		return Room{}, false
	}
	return room.copy(), true
}

// RoomOf returns the id of the room the user currently belongs to.
func (g *Registry) RoomOf(userID string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.byUser[userID]
	return id, ok
}

// Count reports the number of live rooms, for metrics.
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
