package controller

// State is the character's current movement mode. Exactly one state is active
// at a time; transitions only happen through the controller's transition
// table.
type State uint8

const (
	StateGrounded State = iota
	StateSliding
	StateFalling
	StateRising
	StateJumping
	StateCrouching
	StateLadderStart
	StateLadderClimbing
	StateLadderEnd
	StateRolling
	StateRollingCrash
	StateFreeClimbStart
	StateFreeClimbing
)

var stateNames = map[State]string{
	StateGrounded:       "grounded",
	StateSliding:        "sliding",
	StateFalling:        "falling",
	StateRising:         "rising",
	StateJumping:        "jumping",
	StateCrouching:      "crouching",
	StateLadderStart:    "ladder_start",
	StateLadderClimbing: "ladder_climbing",
	StateLadderEnd:      "ladder_end",
	StateRolling:        "rolling",
	StateRollingCrash:   "rolling_crash",
	StateFreeClimbStart: "free_climb_start",
	StateFreeClimbing:   "free_climbing",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// isGroundedFamily reports whether the state keeps the character supported by
// the ground in the broad sense. These states use the mover's extended sensor
// range so contact survives steps and uneven terrain.
func (s State) isGroundedFamily() bool {
	return s == StateGrounded || s == StateSliding || s == StateCrouching
}

// isClimbState reports whether the state is one of the four climbing
// sub-states.
func (s State) isClimbState() bool {
	switch s {
	case StateLadderStart, StateLadderClimbing, StateLadderEnd, StateFreeClimbStart, StateFreeClimbing:
		return true
	}
	return false
}

// isAirborneOrClimbing reports whether entering Grounded from this state
// counts as a landing.
func (s State) isAirborneOrClimbing() bool {
	switch s {
	case StateFalling, StateRising, StateJumping:
		return true
	}
	return s.isClimbState()
}
