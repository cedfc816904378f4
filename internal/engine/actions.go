package engine

// Action is the closed set of commands the reducer understands. Adding a
// variant without handling it in Apply is a compile-visible gap in the
// switch, not a silently ignored string.
type Action interface{ isAction() }

// Ready marks the actor ready during the waiting phase. The game deals and
// enters the first deploy round once every seated player is ready.
type Ready struct{}

// DeployAnimal plays a hand card face-down as a new animal at a continent
// slot. Consumes the actor's turn.
type DeployAnimal struct {
	CardID string
	Slot   int
}

// DeployTrait plays a hand card as a trait on an animal the actor owns.
// Consumes the actor's turn.
type DeployTrait struct {
	CardID   string
	AnimalID string
}

// FeedAnimal takes one food from the shared pool for an owned animal.
// Only valid during feeding; feeding has no turn rotation.
type FeedAnimal struct {
	AnimalID string
}

// EndFeeding declares the actor done with the feeding phase.
type EndFeeding struct{}

// Leave removes the actor from play. Emitted for both explicit exits and
// transport disconnects.
type Leave struct{}

func (Ready) isAction()        {}
func (DeployAnimal) isAction() {}
func (DeployTrait) isAction()  {}
func (FeedAnimal) isAction()   {}
func (EndFeeding) isAction()   {}
func (Leave) isAction()        {}
