package protocol

import (
	"testing"

	"github.com/akhmelev/evo-backend/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestParseCommand(t *testing.T) {
	cases := []struct {
		name string
		msg  ClientMessage
		want Command
	}{
		{
			name: "room create",
			msg:  ClientMessage{Type: "roomCreateRequest"},
			want: RoomCreate{},
		},
		{
			name: "room join",
			msg:  ClientMessage{Type: "roomJoinRequest", RoomID: "r1"},
			want: RoomJoin{RoomID: "r1"},
		},
		{
			name: "game create",
			msg:  ClientMessage{Type: "gameCreateRequest", RoomID: "r1"},
			want: GameCreate{RoomID: "r1"},
		},
		{
			name: "deploy animal",
			msg:  ClientMessage{Type: "gameDeployAnimalRequest", CardID: "c1", SlotIndex: intp(3)},
			want: GameAction{Action: engine.DeployAnimal{CardID: "c1", Slot: 3}},
		},
		{
			name: "deploy animal without slot maps to an invalid slot",
			msg:  ClientMessage{Type: "gameDeployAnimalRequest", CardID: "c1"},
			want: GameAction{Action: engine.DeployAnimal{CardID: "c1", Slot: -1}},
		},
		{
			name: "deploy trait",
			msg:  ClientMessage{Type: "gameDeployTraitRequest", CardID: "c1", AnimalID: "a1"},
			want: GameAction{Action: engine.DeployTrait{CardID: "c1", AnimalID: "a1"}},
		},
		{
			name: "feed animal",
			msg:  ClientMessage{Type: "gameFeedAnimalRequest", AnimalID: "a1"},
			want: GameAction{Action: engine.FeedAnimal{AnimalID: "a1"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseCommand(tc.msg)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCommand_UnknownType(t *testing.T) {
	_, ok := ParseCommand(ClientMessage{Type: "selfDestructRequest"})
	assert.False(t, ok)
}

func TestActionRoundTrip(t *testing.T) {
	actions := []engine.Action{
		engine.Ready{},
		engine.DeployAnimal{CardID: "c1", Slot: 2},
		engine.DeployTrait{CardID: "c1", AnimalID: "a1"},
		engine.FeedAnimal{AnimalID: "a1"},
		engine.EndFeeding{},
		engine.Leave{},
	}
	for _, a := range actions {
		decoded, ok := DecodeAction(EncodeAction(a))
		require.True(t, ok, "%T", a)
		assert.Equal(t, a, decoded)
	}
}

func TestDecodeAction_UnknownKind(t *testing.T) {
	_, ok := DecodeAction(ActionMessage{Kind: "mutate"})
	assert.False(t, ok)
}
