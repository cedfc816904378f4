package engine

import (
	"fmt"
	"math/rand"
)

// NewDeck builds the shuffled draw pile for a game. Card ids and shuffle
// order are fully determined by the rules and the seed, which is what lets
// client mirrors reproduce the deal without ever seeing the deck on the wire.
func NewDeck(rules Rules, seed int64) []Card {
	deck := make([]Card, 0, len(AllTraitKinds)*rules.CopiesPerKind)
	for _, kind := range AllTraitKinds {
		for i := 0; i < rules.CopiesPerKind; i++ {
			deck = append(deck, Card{
				ID:   fmt.Sprintf("%s-%d", kind, i),
				Kind: kind,
			})
		}
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// rollFood computes the shared food pool for a feeding phase. Derived from
// the seed and round only, so every mirror rolls the same pool.
func rollFood(s State) int {
	rng := rand.New(rand.NewSource(s.Seed ^ (int64(s.Status.Round)+1)*0x9e3779b9))
	food := s.Rules.FoodBase + s.livePlayers()
	for i := 0; i < s.Rules.FoodDice; i++ {
		food += 1 + rng.Intn(6)
	}
	return food
}

// NewGame consumes a room's membership into a fresh game in the
// waiting-ready phase. Player order follows the room's user order and is
// never reordered afterwards.
func NewGame(id, roomID string, userIDs []string, seed int64, rules Rules) State {
	players := make([]Player, len(userIDs))
	for i, uid := range userIDs {
		players[i] = Player{
			UserID:    uid,
			Hand:      []Card{},
			Continent: make([]Animal, rules.ContinentSlots),
		}
	}
	return State{
		ID:      id,
		RoomID:  roomID,
		Seed:    seed,
		Rules:   rules,
		Players: players,
		Status:  Status{Phase: PhaseWaitingReady},
		Deck:    NewDeck(rules, seed),
	}
}
