// Package kine is a kinematic, rigidbody-driven character movement
// controller: given per-tick input and ground/climb-surface queries against a
// physics world, it produces a velocity that walks, slides, falls, jumps,
// crouches, climbs and rolls a character while keeping it glued to uneven
// ground.
package kine

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/config"
	"github.com/kinemotion/kine/controller"
	"github.com/kinemotion/kine/mover"
	"github.com/kinemotion/kine/physics"
	"github.com/kinemotion/kine/zone"
	"github.com/sirupsen/logrus"
)

// Character wires a ground sensor, a mover and a movement controller over the
// injected physics collaborators. Each character owns its own triple; no
// state is shared between characters beyond the physics world itself.
type Character struct {
	log   *logrus.Logger
	mover *mover.Mover
	ctrl  *controller.Controller
}

// CharacterOptions carry the optional knobs for NewCharacter.
type CharacterOptions struct {
	// OwnColliders lists additional colliders belonging to the character
	// that ground casts must never report.
	OwnColliders []physics.Collider

	// ReferenceFrame optionally supplies a camera pose for camera-relative
	// input.
	ReferenceFrame func() physics.Pose

	// Debugf receives per-tick trace logs.
	Debugf func(format string, args ...any)
}

// NewCharacter constructs a character from its physics collaborators and
// tunables. Missing collaborators and invalid tunables are construction-time
// errors; nothing is looked up at runtime.
func NewCharacter(world physics.World, body physics.Body, collider physics.Collider, cfg config.Config, log *logrus.Logger, opts CharacterOptions) (*Character, error) {
	m, err := mover.New(world, body, collider, opts.OwnColliders, cfg, log)
	if err != nil {
		return nil, err
	}
	ctrl, err := controller.New(m, cfg, controller.Options{
		ReferenceFrame: opts.ReferenceFrame,
		Debugf:         opts.Debugf,
	}, log)
	if err != nil {
		return nil, err
	}
	return &Character{log: log, mover: m, ctrl: ctrl}, nil
}

// Tick advances the character by one fixed simulation step.
func (c *Character) Tick(dt float32, in controller.Input, snap zone.Snapshot) {
	c.ctrl.Tick(dt, in, snap)
}

// OnCollision feeds the current tick's collision contacts into ceiling and
// roll-crash detection. Call it from the engine's contact callbacks before
// Tick.
func (c *Character) OnCollision(contacts []physics.Contact) {
	c.ctrl.OnCollision(contacts)
}

// Events exposes jump/land/crash/climb event subscription.
func (c *Character) Events() *controller.Events { return c.ctrl.Events() }

// AddMomentum injects an external impulse.
func (c *Character) AddMomentum(impulse mgl32.Vec3) { c.ctrl.AddMomentum(impulse) }

// State returns the active movement state.
func (c *Character) State() controller.State { return c.ctrl.State() }

// Velocity returns the velocity written to the body on the last tick.
func (c *Character) Velocity() mgl32.Vec3 { return c.ctrl.Velocity() }

// Momentum returns the velocity carried between ticks independent of input.
func (c *Character) Momentum() mgl32.Vec3 { return c.ctrl.Momentum() }

// MovementVelocity returns the velocity derived from the last tick's input.
func (c *Character) MovementVelocity() mgl32.Vec3 { return c.ctrl.MovementVelocity() }

// IsGrounded reports whether the character counts as supported by ground.
func (c *Character) IsGrounded() bool { return c.ctrl.IsGrounded() }

// IsSliding reports whether the character is sliding down a steep slope.
func (c *Character) IsSliding() bool { return c.ctrl.IsSliding() }

// IsRolling reports whether the character is mid-roll or crash-recovering.
func (c *Character) IsRolling() bool { return c.ctrl.IsRolling() }

// GroundNormal returns the sensed ground normal.
func (c *Character) GroundNormal() mgl32.Vec3 { return c.mover.GroundNormal() }

// GroundPoint returns the sensed ground contact point.
func (c *Character) GroundPoint() mgl32.Vec3 { return c.mover.GroundPoint() }

// Mover exposes the character's mover for hosts that drive it directly.
func (c *Character) Mover() *mover.Mover { return c.mover }
