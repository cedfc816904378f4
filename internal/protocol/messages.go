package protocol

import (
	"github.com/akhmelev/evo-backend/internal/engine"
	"github.com/akhmelev/evo-backend/internal/rooms"
)

// ClientMessage is the JSON envelope read off a connection. The actor is
// always the connection's authenticated user; nothing in the payload can
// name a different one.
type ClientMessage struct {
	Type      string `json:"type"`
	RoomID    string `json:"room_id,omitempty"`
	CardID    string `json:"card_id,omitempty"`
	AnimalID  string `json:"animal_id,omitempty"`
	SlotIndex *int   `json:"slot_index,omitempty"`
}

// Command is the decoded, closed-set form of a client message. Routing is
// an exhaustive type switch, so a new command is a compile-time change.
type Command interface{ isCommand() }

type RoomCreate struct{}
type RoomJoin struct{ RoomID string }
type RoomExit struct{}
type GameCreate struct{ RoomID string }

// GameAction wraps an engine action destined for the actor's match.
type GameAction struct{ Action engine.Action }

func (RoomCreate) isCommand() {}
func (RoomJoin) isCommand()   {}
func (RoomExit) isCommand()   {}
func (GameCreate) isCommand() {}
func (GameAction) isCommand() {}

// ParseCommand maps a wire message onto a command. Unknown types return
// false; missing fields are left to the reducer, which rejects them the
// same way it rejects any other invalid identifier.
func ParseCommand(m ClientMessage) (Command, bool) {
	switch m.Type {
	case "roomCreateRequest":
		return RoomCreate{}, true
	case "roomJoinRequest":
		return RoomJoin{RoomID: m.RoomID}, true
	case "roomExitRequest":
		return RoomExit{}, true
	case "gameCreateRequest":
		return GameCreate{RoomID: m.RoomID}, true
	case "gameReadyRequest":
		return GameAction{Action: engine.Ready{}}, true
	case "gameDeployAnimalRequest":
		slot := -1
		if m.SlotIndex != nil {
			slot = *m.SlotIndex
		}
		return GameAction{Action: engine.DeployAnimal{CardID: m.CardID, Slot: slot}}, true
	case "gameDeployTraitRequest":
		return GameAction{Action: engine.DeployTrait{CardID: m.CardID, AnimalID: m.AnimalID}}, true
	case "gameFeedAnimalRequest":
		return GameAction{Action: engine.FeedAnimal{AnimalID: m.AnimalID}}, true
	case "gameEndFeedingRequest":
		return GameAction{Action: engine.EndFeeding{}}, true
	default:
		return nil, false
	}
}

// ActionMessage is the wire form of an accepted engine action, rebroadcast
// to every subscriber so mirrors can replay it.
type ActionMessage struct {
	Kind     string `json:"kind"`
	CardID   string `json:"card_id,omitempty"`
	AnimalID string `json:"animal_id,omitempty"`
	Slot     int    `json:"slot,omitempty"`
}

const (
	ActionReady        = "ready"
	ActionDeployAnimal = "deploy_animal"
	ActionDeployTrait  = "deploy_trait"
	ActionFeedAnimal   = "feed_animal"
	ActionEndFeeding   = "end_feeding"
	ActionLeave        = "leave"
)

func EncodeAction(a engine.Action) ActionMessage {
	switch a := a.(type) {
	case engine.Ready:
		return ActionMessage{Kind: ActionReady}
	case engine.DeployAnimal:
		return ActionMessage{Kind: ActionDeployAnimal, CardID: a.CardID, Slot: a.Slot}
	case engine.DeployTrait:
		return ActionMessage{Kind: ActionDeployTrait, CardID: a.CardID, AnimalID: a.AnimalID}
	case engine.FeedAnimal:
		return ActionMessage{Kind: ActionFeedAnimal, AnimalID: a.AnimalID}
	case engine.EndFeeding:
		return ActionMessage{Kind: ActionEndFeeding}
	case engine.Leave:
		return ActionMessage{Kind: ActionLeave}
	default:
		return ActionMessage{}
	}
}

// DecodeAction is the client-mirror side of EncodeAction.
func DecodeAction(m ActionMessage) (engine.Action, bool) {
	switch m.Kind {
	case ActionReady:
		return engine.Ready{}, true
	case ActionDeployAnimal:
		return engine.DeployAnimal{CardID: m.CardID, Slot: m.Slot}, true
	case ActionDeployTrait:
		return engine.DeployTrait{CardID: m.CardID, AnimalID: m.AnimalID}, true
	case ActionFeedAnimal:
		return engine.FeedAnimal{AnimalID: m.AnimalID}, true
	case ActionEndFeeding:
		return engine.EndFeeding{}, true
	case ActionLeave:
		return engine.Leave{}, true
	default:
		return nil, false
	}
}

// ServerMessage is the JSON envelope written to a connection.
type ServerMessage struct {
	Type    string         `json:"type"` // "RoomUpdate" | "RoomLeft" | "GameSnapshot" | "GameEvent" | "GameClosed"
	Room    *rooms.Room    `json:"room,omitempty"`
	GameID  string         `json:"game_id,omitempty"`
	Version int            `json:"version,omitempty"`
	Actor   string         `json:"actor,omitempty"`
	Action  *ActionMessage `json:"action,omitempty"`
	State   *engine.State  `json:"state,omitempty"`
}

const (
	MsgRoomUpdate   = "RoomUpdate"
	MsgRoomLeft     = "RoomLeft"
	MsgGameSnapshot = "GameSnapshot"
	MsgGameEvent    = "GameEvent"
	MsgGameClosed   = "GameClosed"
)
