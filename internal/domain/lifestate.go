package domain

import "github.com/checho03/granja-valencia/internal/pkg/apperrors"

// LifeState is a pig's life-cycle state.
type LifeState string

const (
	StateActive LifeState = "ACTIVE"
	StateSold   LifeState = "SOLD"
	StateDead   LifeState = "DEAD"
	StateSick   LifeState = "SICK"
)

// validTransitions is the whole state machine: ACTIVE and SICK move freely
// between each other and out to the terminal states; SOLD and DEAD have no
// outgoing edges.
var validTransitions = map[LifeState][]LifeState{
	StateActive: {StateSold, StateDead, StateSick},
	StateSick:   {StateActive, StateSold, StateDead},
}

// IsTerminal reports whether no further weighing, transfer or state change is
// permitted.
func (s LifeState) IsTerminal() bool {
	return s == StateSold || s == StateDead
}

// OnSite reports whether the pig still occupies a pen (counts toward occupancy
// and average weight).
func (s LifeState) OnSite() bool {
	return s == StateActive || s == StateSick
}

// IsValid reports whether s is one of the four known states.
func (s LifeState) IsValid() bool {
	switch s {
	case StateActive, StateSold, StateDead, StateSick:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is an accepted edge.
func CanTransition(from, to LifeState) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to and returns the typed rejection when the
// edge is not in the table. Pure: counter side effects belong to the caller.
func Transition(from, to LifeState) error {
	if !to.IsValid() {
		return apperrors.InvalidTransition("unknown life state %q", string(to))
	}
	if !CanTransition(from, to) {
		return apperrors.InvalidTransition("cannot change life state from %s to %s", string(from), string(to))
	}
	return nil
}
