package controller

import "github.com/go-gl/mathgl/mgl32"

// Events carries the controller's discrete side-effect notifications.
// Subscribers run synchronously on the simulation tick in subscription order;
// notifications are fire-and-forget.
type Events struct {
	jump           []func(momentum mgl32.Vec3)
	land           []func(momentum mgl32.Vec3)
	rollCrash      []func(contactPoint mgl32.Vec3)
	ladderEnter    []func()
	ladderExit     []func()
	freeClimbEnter []func()
}

// SubscribeJump registers a callback fired when a jump launches, carrying the
// post-jump momentum.
func (e *Events) SubscribeJump(fn func(mgl32.Vec3)) {
	e.jump = append(e.jump, fn)
}

// SubscribeLand registers a callback fired when the character regains ground
// contact, carrying the momentum at impact.
func (e *Events) SubscribeLand(fn func(mgl32.Vec3)) {
	e.land = append(e.land, fn)
}

// SubscribeRollCrash registers a callback fired when a roll ends in a crash,
// carrying the contact point.
func (e *Events) SubscribeRollCrash(fn func(mgl32.Vec3)) {
	e.rollCrash = append(e.rollCrash, fn)
}

// SubscribeLadderEnter registers a callback fired when the character attaches
// to a ladder.
func (e *Events) SubscribeLadderEnter(fn func()) {
	e.ladderEnter = append(e.ladderEnter, fn)
}

// SubscribeLadderExit registers a callback fired when the character leaves a
// ladder.
func (e *Events) SubscribeLadderExit(fn func()) {
	e.ladderExit = append(e.ladderExit, fn)
}

// SubscribeFreeClimbEnter registers a callback fired when the character
// attaches to a free-climb surface.
func (e *Events) SubscribeFreeClimbEnter(fn func()) {
	e.freeClimbEnter = append(e.freeClimbEnter, fn)
}

func (e *Events) emitJump(momentum mgl32.Vec3) {
	for _, fn := range e.jump {
		fn(momentum)
	}
}

func (e *Events) emitLand(momentum mgl32.Vec3) {
	for _, fn := range e.land {
		fn(momentum)
	}
}

func (e *Events) emitRollCrash(contactPoint mgl32.Vec3) {
	for _, fn := range e.rollCrash {
		fn(contactPoint)
	}
}

func (e *Events) emitLadderEnter() {
	for _, fn := range e.ladderEnter {
		fn()
	}
}

func (e *Events) emitLadderExit() {
	for _, fn := range e.ladderExit {
		fn()
	}
}

func (e *Events) emitFreeClimbEnter() {
	for _, fn := range e.freeClimbEnter {
		fn()
	}
}
