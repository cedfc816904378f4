package engine

func cardIndex(hand []Card, cardID string) int {
	if cardID == "" {
		return -1
	}
	for i, c := range hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

func animalIndex(p Player, animalID string) int {
	if animalID == "" {
		return -1
	}
	for i, a := range p.Continent {
		if a.ID != "" && a.ID == animalID {
			return i
		}
	}
	return -1
}

func allReady(s State) bool {
	for _, p := range s.Players {
		if !p.Left && !p.Ready {
			return false
		}
	}
	return true
}

func firstLive(s State) int {
	for i, p := range s.Players {
		if !p.Left {
			return i
		}
	}
	return 0
}

// draw moves up to n cards from the top of the deck into player pi's hand.
func draw(s *State, pi int, n int) {
	for i := 0; i < n && len(s.Deck) > 0; i++ {
		s.Players[pi].Hand = append(s.Players[pi].Hand, s.Deck[0])
		s.Deck = s.Deck[1:]
	}
}

func startDeploy(s *State) {
	for i := range s.Players {
		if !s.Players[i].Left {
			draw(s, i, s.Rules.HandSize)
		}
	}
	s.Status.Phase = PhaseDeploy
	s.Status.CurrentPlayer = firstLive(*s)
	if noDeployLeft(*s) {
		startFeeding(s)
	}
}

// endTurn advances the turn cursor past the player who just acted (or left).
// Every wrap back to seat zero is one more round. Left players are skipped,
// so one accepted action may move the cursor across several seats.
func endTurn(s *State) {
	n := len(s.Players)
	for i := 0; i < n; i++ {
		s.Status.CurrentPlayer = (s.Status.CurrentPlayer + 1) % n
		if s.Status.CurrentPlayer == 0 {
			s.Status.Round++
		}
		if !s.Players[s.Status.CurrentPlayer].Left {
			break
		}
	}
	if noDeployLeft(*s) {
		startFeeding(s)
	}
}

// hasLegalDeploy reports whether player pi could still take a deploy turn:
// a hand card that fits an empty slot, or one attachable as a trait.
func hasLegalDeploy(s State, pi int) bool {
	p := s.Players[pi]
	if p.Left || len(p.Hand) == 0 {
		return false
	}
	for _, a := range p.Continent {
		if a.ID == "" {
			return true
		}
	}
	for _, ai := range p.animals() {
		a := p.Continent[ai]
		if len(a.Traits) >= s.Rules.MaxTraitsPerAnimal {
			continue
		}
		for _, c := range p.Hand {
			if !a.hasTrait(c.Kind) {
				return true
			}
		}
	}
	return false
}

// noDeployLeft is the deploy-exhaustion predicate that moves the game into
// feeding: true once no live player has any legal deploy action.
func noDeployLeft(s State) bool {
	for i := range s.Players {
		if hasLegalDeploy(s, i) {
			return false
		}
	}
	return true
}

func startFeeding(s *State) {
	s.Status.Phase = PhaseFeeding
	s.Food = rollFood(*s)
	for i := range s.Players {
		s.Players[i].EndedFeeding = false
	}
}

func feedingDone(s State) bool {
	if s.Food <= 0 {
		return true
	}
	for _, p := range s.Players {
		if !p.Left && !p.EndedFeeding {
			return false
		}
	}
	return true
}

// endRound resolves the round-end stage in one step: starved animals are
// culled, survivors' bellies empty, each live player draws one card plus one
// per surviving animal, and the game continues into the next deploy stage or
// ends when the deck and all hands are exhausted.
func endRound(s *State) {
	s.Status.Phase = PhaseRoundEnd
	for i := range s.Players {
		p := &s.Players[i]
		if p.Left {
			continue
		}
		for j := range p.Continent {
			a := &p.Continent[j]
			if a.ID == "" {
				continue
			}
			if a.Food < a.Demand() {
				*a = Animal{}
				continue
			}
			a.Food = 0
		}
	}

	for i := range s.Players {
		if !s.Players[i].Left {
			draw(s, i, 1+len(s.Players[i].animals()))
		}
	}

	// No cards left to draw and none playable: the game cannot progress.
	if len(s.Deck) == 0 && noDeployLeft(*s) {
		finishGame(s)
		return
	}

	s.Status.Phase = PhaseDeploy
	s.Status.CurrentPlayer = firstLive(*s)
	if noDeployLeft(*s) {
		startFeeding(s)
	}
}

func finishGame(s *State) {
	s.Status.Phase = PhaseGameOver
	s.Food = 0
	s.Scores = make(map[string]int)
	for _, p := range s.Players {
		if !p.Left {
			s.Scores[p.UserID] = Score(p)
		}
	}
}
