package engine

type Phase string

const (
	PhaseWaitingReady Phase = "waiting_ready"
	PhaseDeploy       Phase = "deploy"
	PhaseFeeding      Phase = "feeding"
	// PhaseRoundEnd never rests: Apply resolves it atomically into the next
	// deploy round or game over, so mirrors replaying the action stream pass
	// through it the same way the server does.
	PhaseRoundEnd Phase = "round_end"
	PhaseGameOver Phase = "game_over"
)

type TraitKind string

const (
	TraitCamouflage     TraitKind = "camouflage"
	TraitCarnivorous    TraitKind = "carnivorous"
	TraitHighBodyWeight TraitKind = "high_body_weight"
	TraitFatTissue      TraitKind = "fat_tissue"
	TraitRunning        TraitKind = "running"
	TraitSharpVision    TraitKind = "sharp_vision"
)

// AllTraitKinds is the closed set of card kinds a deck is built from.
var AllTraitKinds = []TraitKind{
	TraitCamouflage,
	TraitCarnivorous,
	TraitHighBodyWeight,
	TraitFatTissue,
	TraitRunning,
	TraitSharpVision,
}

// Card is an immutable hand card. Deploying it moves it out of the hand:
// as a new animal (the animal inherits the card id) or as a trait.
type Card struct {
	ID   string    `json:"id"`
	Kind TraitKind `json:"kind"`
}

// Animal is a board occupant created by deploying a card to a continent slot.
// A zero-value Animal (empty ID) marks an unoccupied slot.
type Animal struct {
	ID     string      `json:"id"`
	Owner  string      `json:"owner"`
	Traits []TraitKind `json:"traits,omitempty"`
	Food   int         `json:"food"`
}

// Demand is how much food the animal must eat this round to survive.
func (a Animal) Demand() int {
	d := 1
	for _, t := range a.Traits {
		switch t {
		case TraitCarnivorous, TraitHighBodyWeight:
			d++
		}
	}
	return d
}

// Capacity is the most food the animal can hold: its demand plus one
// per fat tissue trait.
func (a Animal) Capacity() int {
	c := a.Demand()
	for _, t := range a.Traits {
		if t == TraitFatTissue {
			c++
		}
	}
	return c
}

func (a Animal) hasTrait(kind TraitKind) bool {
	for _, t := range a.Traits {
		if t == kind {
			return true
		}
	}
	return false
}

type Player struct {
	UserID string `json:"user_id"`
	Hand   []Card `json:"hand"`
	// Continent has a fixed number of slots; empty slots hold a zero Animal.
	Continent    []Animal `json:"continent"`
	Ready        bool     `json:"ready"`
	Left         bool     `json:"left"`
	EndedFeeding bool     `json:"ended_feeding"`
}

func (p Player) animals() []int {
	var idx []int
	for i, a := range p.Continent {
		if a.ID != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

type Status struct {
	Phase         Phase `json:"phase"`
	Round         int   `json:"round"`
	CurrentPlayer int   `json:"current_player"`
}

// Rules is the board configuration the core treats as external input.
type Rules struct {
	ContinentSlots     int `mapstructure:"continent_slots" json:"continent_slots"`
	MaxTraitsPerAnimal int `mapstructure:"max_traits_per_animal" json:"max_traits_per_animal"`
	HandSize           int `mapstructure:"hand_size" json:"hand_size"`
	CopiesPerKind      int `mapstructure:"copies_per_kind" json:"copies_per_kind"`
	FoodBase           int `mapstructure:"food_base" json:"food_base"`
	FoodDice           int `mapstructure:"food_dice" json:"food_dice"`
}

func DefaultRules() Rules {
	return Rules{
		ContinentSlots:     8,
		MaxTraitsPerAnimal: 3,
		HandSize:           6,
		CopiesPerKind:      8,
		FoodBase:           2,
		FoodDice:           2,
	}
}

// State is one game's authoritative snapshot. It is a value: Apply never
// mutates its input, so two goroutines holding the same State can never
// observe each other's changes.
type State struct {
	ID      string         `json:"id"`
	RoomID  string         `json:"room_id"`
	Seed    int64          `json:"seed"`
	Rules   Rules          `json:"rules"`
	Players []Player       `json:"players"`
	Status  Status         `json:"status"`
	Food    int            `json:"food"`
	Deck    []Card         `json:"deck"`
	Scores  map[string]int `json:"scores,omitempty"`
}

// clone deep-copies the parts of the state Apply may mutate.
func (s State) clone() State {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		np := p
		np.Hand = append([]Card(nil), p.Hand...)
		np.Continent = make([]Animal, len(p.Continent))
		for j, a := range p.Continent {
			na := a
			na.Traits = append([]TraitKind(nil), a.Traits...)
			np.Continent[j] = na
		}
		out.Players[i] = np
	}
	out.Deck = append([]Card(nil), s.Deck...)
	if s.Scores != nil {
		out.Scores = make(map[string]int, len(s.Scores))
		for k, v := range s.Scores {
			out.Scores[k] = v
		}
	}
	return out
}

func (s State) playerIndex(userID string) (int, bool) {
	for i, p := range s.Players {
		if p.UserID == userID {
			return i, true
		}
	}
	return -1, false
}

func (s State) livePlayers() int {
	n := 0
	for _, p := range s.Players {
		if !p.Left {
			n++
		}
	}
	return n
}

// Score is the final tally for one player: two points per surviving animal,
// one per trait on it, one per food it still holds.
func Score(p Player) int {
	total := 0
	for _, i := range p.animals() {
		a := p.Continent[i]
		total += 2 + len(a.Traits) + a.Food
	}
	return total
}
