package controller

import "github.com/kinemotion/kine/kmath"

// Input is the per-tick player intent. Axes are expected within [-1, 1];
// out-of-range values are clamped at the start of the tick.
type Input struct {
	// Horizontal is the sideways axis (positive = right).
	Horizontal float32
	// Vertical is the forward axis (positive = forward), doubling as the
	// climb axis while on a ladder or climb surface.
	Vertical float32
	// RollPressed is true on ticks where the roll action is held.
	RollPressed bool
}

func (in Input) clamped() Input {
	in.Horizontal = kmath.Clamp(in.Horizontal, -1, 1)
	in.Vertical = kmath.Clamp(in.Vertical, -1, 1)
	return in
}
