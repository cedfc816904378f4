package engine

import "errors"

var ErrGameOver = errors.New("game already over")
var ErrWrongPhase = errors.New("wrong phase")
var ErrNotYourTurn = errors.New("not your turn")
var ErrUnknownPlayer = errors.New("actor is not a player")
var ErrUnknownCard = errors.New("card not in hand")
var ErrUnknownAnimal = errors.New("no such animal")
var ErrBadSlot = errors.New("invalid continent slot")
var ErrSlotOccupied = errors.New("slot occupied")
var ErrTraitLimit = errors.New("animal has no free trait slot")
var ErrDuplicateTrait = errors.New("animal already has trait")
var ErrAlreadyReady = errors.New("already ready")
var ErrAlreadyLeft = errors.New("player already left")
var ErrAlreadyEnded = errors.New("already ended feeding")
var ErrNoFood = errors.New("food pool empty")
var ErrAnimalFull = errors.New("animal at capacity")
var ErrUnsupportedAction = errors.New("unsupported action")

// Apply is the authoritative transition function. It validates the action
// against the actor's standing in s and returns either a structurally new
// state or the input state unchanged with a reason. Callers at the network
// boundary must treat every error identically: drop the action, send
// nothing. The errors exist for logs and tests only.
//
// Apply is deterministic: the same (state, actor, action) tuple always
// produces the same next state, which is what keeps server and mirror
// copies convergent under replay.
func Apply(s State, actorID string, action Action) (State, error) {
	if s.Status.Phase == PhaseGameOver {
		return s, ErrGameOver
	}

	pi, ok := s.playerIndex(actorID)
	if !ok {
		return s, ErrUnknownPlayer
	}
	if s.Players[pi].Left {
		return s, ErrAlreadyLeft
	}

	switch a := action.(type) {
	case Ready:
		return applyReady(s, pi)
	case DeployAnimal:
		return applyDeployAnimal(s, pi, a)
	case DeployTrait:
		return applyDeployTrait(s, pi, a)
	case FeedAnimal:
		return applyFeedAnimal(s, pi, a)
	case EndFeeding:
		return applyEndFeeding(s, pi)
	case Leave:
		return applyLeave(s, pi)
	default:
		return s, ErrUnsupportedAction
	}
}

func applyReady(s State, pi int) (State, error) {
	if s.Status.Phase != PhaseWaitingReady {
		return s, ErrWrongPhase
	}
	if s.Players[pi].Ready {
		return s, ErrAlreadyReady
	}

	next := s.clone()
	next.Players[pi].Ready = true
	if allReady(next) {
		startDeploy(&next)
	}
	return next, nil
}

func applyDeployAnimal(s State, pi int, a DeployAnimal) (State, error) {
	if s.Status.Phase != PhaseDeploy {
		return s, ErrWrongPhase
	}
	if s.Status.CurrentPlayer != pi {
		return s, ErrNotYourTurn
	}
	ci := cardIndex(s.Players[pi].Hand, a.CardID)
	if ci < 0 {
		return s, ErrUnknownCard
	}
	if a.Slot < 0 || a.Slot >= len(s.Players[pi].Continent) {
		return s, ErrBadSlot
	}
	if s.Players[pi].Continent[a.Slot].ID != "" {
		return s, ErrSlotOccupied
	}

	next := s.clone()
	p := &next.Players[pi]
	card := p.Hand[ci]
	p.Hand = append(p.Hand[:ci], p.Hand[ci+1:]...)
	// The card's identity carries over to the animal it becomes, keeping
	// the id deterministic across replays.
	p.Continent[a.Slot] = Animal{ID: card.ID, Owner: p.UserID}
	endTurn(&next)
	return next, nil
}

func applyDeployTrait(s State, pi int, a DeployTrait) (State, error) {
	if s.Status.Phase != PhaseDeploy {
		return s, ErrWrongPhase
	}
	if s.Status.CurrentPlayer != pi {
		return s, ErrNotYourTurn
	}
	ci := cardIndex(s.Players[pi].Hand, a.CardID)
	if ci < 0 {
		return s, ErrUnknownCard
	}
	// Ownership is re-derived from the authoritative snapshot: only the
	// actor's own continent is searched for the target animal.
	ai := animalIndex(s.Players[pi], a.AnimalID)
	if ai < 0 {
		return s, ErrUnknownAnimal
	}
	animal := s.Players[pi].Continent[ai]
	if len(animal.Traits) >= s.Rules.MaxTraitsPerAnimal {
		return s, ErrTraitLimit
	}
	card := s.Players[pi].Hand[ci]
	if animal.hasTrait(card.Kind) {
		return s, ErrDuplicateTrait
	}

	next := s.clone()
	p := &next.Players[pi]
	p.Hand = append(p.Hand[:ci], p.Hand[ci+1:]...)
	p.Continent[ai].Traits = append(p.Continent[ai].Traits, card.Kind)
	endTurn(&next)
	return next, nil
}

func applyFeedAnimal(s State, pi int, a FeedAnimal) (State, error) {
	if s.Status.Phase != PhaseFeeding {
		return s, ErrWrongPhase
	}
	if s.Players[pi].EndedFeeding {
		return s, ErrAlreadyEnded
	}
	ai := animalIndex(s.Players[pi], a.AnimalID)
	if ai < 0 {
		return s, ErrUnknownAnimal
	}
	animal := s.Players[pi].Continent[ai]
	if animal.Food >= animal.Capacity() {
		return s, ErrAnimalFull
	}
	if s.Food <= 0 {
		return s, ErrNoFood
	}

	next := s.clone()
	next.Food--
	next.Players[pi].Continent[ai].Food++
	if feedingDone(next) {
		endRound(&next)
	}
	return next, nil
}

func applyEndFeeding(s State, pi int) (State, error) {
	if s.Status.Phase != PhaseFeeding {
		return s, ErrWrongPhase
	}
	if s.Players[pi].EndedFeeding {
		return s, ErrAlreadyEnded
	}

	next := s.clone()
	next.Players[pi].EndedFeeding = true
	if feedingDone(next) {
		endRound(&next)
	}
	return next, nil
}

func applyLeave(s State, pi int) (State, error) {
	next := s.clone()
	next.Players[pi].Left = true

	if next.livePlayers() < 2 {
		finishGame(&next)
		return next, nil
	}

	switch next.Status.Phase {
	case PhaseWaitingReady:
		if allReady(next) {
			startDeploy(&next)
		}
	case PhaseDeploy:
		// Skip policy: a leaver forfeits any held turn immediately.
		if next.Status.CurrentPlayer == pi {
			endTurn(&next)
		} else if noDeployLeft(next) {
			startFeeding(&next)
		}
	case PhaseFeeding:
		if feedingDone(next) {
			endRound(&next)
		}
	}
	return next, nil
}
