package engine

import (
	"fmt"
	"reflect"
	"testing"
)

func camoHand(prefix string, n int) []Card {
	hand := make([]Card, n)
	for i := range hand {
		hand[i] = Card{ID: fmt.Sprintf("%s-camo-%d", prefix, i), Kind: TraitCamouflage}
	}
	return hand
}

// deployGame builds a two-player game already in the deploy phase with six
// identical cards per hand, mirroring the seeded fixtures the scenarios use.
func deployGame() State {
	rules := DefaultRules()
	return State{
		ID:     "g1",
		RoomID: "r1",
		Seed:   42,
		Rules:  rules,
		Players: []Player{
			{UserID: "u0", Hand: camoHand("u0", 6), Continent: make([]Animal, rules.ContinentSlots)},
			{UserID: "u1", Hand: camoHand("u1", 6), Continent: make([]Animal, rules.ContinentSlots)},
		},
		Status: Status{Phase: PhaseDeploy},
		Deck:   []Card{},
	}
}

func mustApply(t *testing.T, s State, actor string, a Action) State {
	t.Helper()
	next, err := Apply(s, actor, a)
	if err != nil {
		t.Fatalf("Apply(%T) by %s: unexpected error %v", a, actor, err)
	}
	return next
}

// expectUnchanged applies the action and asserts a structurally identical
// snapshot came back along with a rejection reason.
func expectUnchanged(t *testing.T, s State, actor string, a Action) {
	t.Helper()
	next, err := Apply(s, actor, a)
	if err == nil {
		t.Fatalf("Apply(%T) by %s: expected rejection", a, actor)
	}
	if !reflect.DeepEqual(s, next) {
		t.Fatalf("Apply(%T) by %s: rejected action mutated state", a, actor)
	}
}

func TestReady_StartsGameWhenAllReady(t *testing.T) {
	s := NewGame("g1", "r1", []string{"u0", "u1"}, 7, DefaultRules())

	s = mustApply(t, s, "u0", Ready{})
	if s.Status.Phase != PhaseWaitingReady {
		t.Fatalf("one ready should not start the game, phase=%s", s.Status.Phase)
	}

	// double ready
	expectUnchanged(t, s, "u0", Ready{})
	// unknown actor
	expectUnchanged(t, s, "u2", Ready{})

	s = mustApply(t, s, "u1", Ready{})
	if s.Status.Phase != PhaseDeploy {
		t.Fatalf("want deploy after all ready, got %s", s.Status.Phase)
	}
	if s.Status.Round != 0 || s.Status.CurrentPlayer != 0 {
		t.Fatalf("want round=0 current=0, got round=%d current=%d", s.Status.Round, s.Status.CurrentPlayer)
	}
	for i, p := range s.Players {
		if len(p.Hand) != s.Rules.HandSize {
			t.Fatalf("player %d: want %d cards dealt, got %d", i, s.Rules.HandSize, len(p.Hand))
		}
	}
}

func TestReady_RejectedAfterGameStarted(t *testing.T) {
	s := deployGame()
	expectUnchanged(t, s, "u0", Ready{})
}

func TestDeployAnimal_TurnRotation(t *testing.T) {
	s := deployGame()
	card0 := s.Players[0].Hand[0].ID

	// not in turn
	expectUnchanged(t, s, "u1", DeployAnimal{CardID: s.Players[1].Hand[0].ID, Slot: 0})
	// malformed identifiers
	expectUnchanged(t, s, "u0", DeployAnimal{})
	expectUnchanged(t, s, "u0", DeployAnimal{CardID: card0, Slot: -2})
	expectUnchanged(t, s, "u0", DeployAnimal{CardID: card0, Slot: s.Rules.ContinentSlots})

	s = mustApply(t, s, "u0", DeployAnimal{CardID: card0, Slot: 0})
	if s.Status.CurrentPlayer != 1 {
		t.Fatalf("want current=1 after u0's deploy, got %d", s.Status.CurrentPlayer)
	}
	if got := s.Players[0].Continent[0]; got.ID != card0 || got.Owner != "u0" {
		t.Fatalf("animal not created at slot 0: %+v", got)
	}
	if len(s.Players[0].Hand) != 5 {
		t.Fatalf("card not removed from hand, len=%d", len(s.Players[0].Hand))
	}

	// second try with the consumed card: turn already advanced, card gone
	expectUnchanged(t, s, "u0", DeployAnimal{CardID: card0, Slot: 0})

	s = mustApply(t, s, "u1", DeployAnimal{CardID: s.Players[1].Hand[1].ID, Slot: 0})
	if s.Status.Round != 1 {
		t.Fatalf("want round=1 after full cycle, got %d", s.Status.Round)
	}
	if s.Status.CurrentPlayer != 0 {
		t.Fatalf("want current=0 after wrap, got %d", s.Status.CurrentPlayer)
	}

	// u1 is out of turn again
	expectUnchanged(t, s, "u1", DeployAnimal{CardID: s.Players[1].Hand[0].ID, Slot: 1})
}

func TestDeployAnimal_OccupiedSlotRejected(t *testing.T) {
	s := deployGame()
	s = mustApply(t, s, "u0", DeployAnimal{CardID: s.Players[0].Hand[0].ID, Slot: 3})
	s = mustApply(t, s, "u1", DeployAnimal{CardID: s.Players[1].Hand[0].ID, Slot: 0})
	expectUnchanged(t, s, "u0", DeployAnimal{CardID: s.Players[0].Hand[0].ID, Slot: 3})
}

func TestDeployTrait(t *testing.T) {
	s := deployGame()
	// one animal each
	s = mustApply(t, s, "u0", DeployAnimal{CardID: s.Players[0].Hand[0].ID, Slot: 0})
	s = mustApply(t, s, "u1", DeployAnimal{CardID: s.Players[1].Hand[0].ID, Slot: 0})
	animal0 := s.Players[0].Continent[0].ID
	animal1 := s.Players[1].Continent[0].ID

	// unknown card, unknown animal, someone else's animal
	expectUnchanged(t, s, "u0", DeployTrait{CardID: "123", AnimalID: animal0})
	expectUnchanged(t, s, "u0", DeployTrait{CardID: s.Players[0].Hand[0].ID, AnimalID: "123"})
	expectUnchanged(t, s, "u0", DeployTrait{CardID: s.Players[0].Hand[0].ID, AnimalID: animal1})

	card := s.Players[0].Hand[0].ID
	s = mustApply(t, s, "u0", DeployTrait{CardID: card, AnimalID: animal0})
	if got := s.Players[0].Continent[0].Traits; len(got) != 1 || got[0] != TraitCamouflage {
		t.Fatalf("trait not attached: %v", got)
	}
	if cardIndex(s.Players[0].Hand, card) >= 0 {
		t.Fatal("trait card still in hand")
	}

	// wait out u1's turn
	s = mustApply(t, s, "u1", DeployTrait{CardID: s.Players[1].Hand[0].ID, AnimalID: animal1})

	// same kind on the same animal again: the slot is terminal
	expectUnchanged(t, s, "u0", DeployTrait{CardID: s.Players[0].Hand[0].ID, AnimalID: animal0})
}

func TestDeployTrait_CapacityLimit(t *testing.T) {
	s := deployGame()
	s.Rules.MaxTraitsPerAnimal = 1
	s.Players[0].Continent[0] = Animal{ID: "an0", Owner: "u0", Traits: []TraitKind{TraitRunning}}
	expectUnchanged(t, s, "u0", DeployTrait{CardID: s.Players[0].Hand[0].ID, AnimalID: "an0"})
}

func TestApply_ActorNeverTrustedFromPayload(t *testing.T) {
	s := deployGame()
	// u1 naming u0's card cannot act in u0's turn
	expectUnchanged(t, s, "u1", DeployAnimal{CardID: s.Players[0].Hand[0].ID, Slot: 0})
	expectUnchanged(t, s, "nobody", DeployAnimal{CardID: s.Players[0].Hand[0].ID, Slot: 0})
}

func TestApply_Deterministic(t *testing.T) {
	s := deployGame()
	a := DeployAnimal{CardID: s.Players[0].Hand[0].ID, Slot: 0}

	first, err1 := Apply(s, "u0", a)
	second, err2 := Apply(s, "u0", a)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same (state, actor, action) produced different snapshots")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := deployGame()
	handBefore := append([]Card(nil), s.Players[0].Hand...)

	_ = mustApply(t, s, "u0", DeployAnimal{CardID: s.Players[0].Hand[0].ID, Slot: 0})

	// the accepted transition must not have written through shared slices
	if !reflect.DeepEqual(handBefore, s.Players[0].Hand) {
		t.Fatal("Apply mutated its input state")
	}
}

func TestCurrentPlayerStaysInRange(t *testing.T) {
	s := deployGame()
	for turn := 0; s.Status.Phase == PhaseDeploy && turn < 50; turn++ {
		cur := s.Status.CurrentPlayer
		if cur < 0 || cur >= len(s.Players) {
			t.Fatalf("current player %d out of range", cur)
		}
		actor := s.Players[cur].UserID
		next, err := Apply(s, actor, DeployAnimal{CardID: s.Players[cur].Hand[0].ID, Slot: turn / 2})
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
		s = next
	}
	if cur := s.Status.CurrentPlayer; cur < 0 || cur >= len(s.Players) {
		t.Fatalf("current player %d out of range after deploy phase", cur)
	}
}
