package controller

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/config"
	"github.com/kinemotion/kine/kerror"
	"github.com/kinemotion/kine/kmath"
	"github.com/kinemotion/kine/mover"
	"github.com/kinemotion/kine/physics"
	"github.com/kinemotion/kine/zone"
	"github.com/sirupsen/logrus"
)

// risingThreshold is the minimum vertical momentum magnitude, units/second,
// above which the character counts as rising.
const risingThreshold = float32(0.01)

// wallBounceDamping scales reflected momentum on a non-crash wall contact
// while rolling.
const wallBounceDamping = float32(0.5)

// Options configure controller behavior beyond the flat tunables.
type Options struct {
	// ReferenceFrame, when set, supplies a camera pose whose flattened
	// forward/right axes drive camera-relative input. When nil, input is
	// relative to the character's own pose.
	ReferenceFrame func() physics.Pose

	// Debugf receives internal per-tick trace logs for callers that need
	// deep diagnostics.
	Debugf func(format string, args ...any)
}

// Controller is the movement state machine. It classifies the character's
// situation every tick, computes momentum per state and writes the resulting
// velocity back through the mover.
type Controller struct {
	mover *mover.Mover
	log   *logrus.Logger
	cfg   config.Config
	opts  Options

	state State

	momentum         mgl32.Vec3
	movementVelocity mgl32.Vec3
	velocity         mgl32.Vec3

	input    Input
	snapshot zone.Snapshot
	dt       float32

	// One-shot triggers. Jump and climb triggers are cleared by the exit
	// hooks that own them; the roll latches and ceiling flag clear at tick
	// end.
	jumpTrigger           bool
	ladderEnterTrigger    bool
	freeClimbEnterTrigger bool
	climbExitTrigger      bool
	rollTrigger           bool
	rollRepress           bool
	rollCrashTrigger      bool
	rollCrashContact      mgl32.Vec3

	usingClimbZone bool
	climbSurfaceID string

	rollVelocity mgl32.Vec3
	rollTimer    float32
	crashTimer   float32

	timeSinceJump      float32
	usingExtendedRange bool

	ceiling *ceilingDetector

	events       Events
	warnedStates map[State]bool
}

// New constructs a Controller driving the given mover. The config must be
// valid; the logger may be nil to silence warnings.
func New(m *mover.Mover, cfg config.Config, opts Options, log *logrus.Logger) (*Controller, error) {
	if m == nil {
		return nil, kerror.New("controller: mover is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Controller{
		mover: m,
		log:   log,
		cfg:   cfg,
		opts:  opts,

		state:         StateGrounded,
		timeSinceJump: cfg.JumpCooldown,
		ceiling:       newCeilingDetector(cfg.CeilingDetection, cfg.CeilingAngleLimit, log),
		warnedStates:  map[State]bool{},
	}, nil
}

// Tick advances the controller by one fixed simulation step. It refreshes
// ground contact, classifies the next state, runs the state's momentum update
// and hands the final velocity to the mover.
func (c *Controller) Tick(dt float32, in Input, snap zone.Snapshot) {
	if dt <= 0 {
		return
	}
	c.dt = dt
	c.input = in.clamped()
	c.snapshot = snap
	c.timeSinceJump += dt
	c.advanceTimers(dt)

	c.mover.CheckForGround(c.usingExtendedRange, dt)
	c.latchInputTriggers()

	c.movementVelocity = c.calculateMovementVelocity()

	next := c.determineNextState()
	if next != c.state {
		c.debugf("state %v -> %v", c.state, next)
		// The enter hook runs before the state field commits and the exit
		// hook after, so exit logic observes the already-updated state.
		// Auto-jump arming on leaving Grounded depends on this order.
		c.onStateEnter(next)
		prev := c.state
		c.state = next
		c.onStateExit(prev)
	}

	c.velocity = c.runState()

	c.usingExtendedRange = c.state.isGroundedFamily()
	c.mover.SetVelocity(c.velocity)

	c.ceiling.reset()
	c.rollTrigger = false
	c.rollCrashTrigger = false
	c.ladderEnterTrigger = false
	c.freeClimbEnterTrigger = false
	if c.state == StateJumping {
		// The launch consumed the one-shot trigger; with it re-armed the
		// next tick hands off to Rising.
		c.jumpTrigger = false
	}
}

// OnCollision feeds this tick's collision contacts into ceiling detection and
// the rolling crash/wall-bounce checks. The host calls it from the engine's
// contact callbacks before Tick.
func (c *Controller) OnCollision(contacts []physics.Contact) {
	if len(contacts) == 0 {
		return
	}
	up := c.mover.Pose().Up()

	normals := make([]mgl32.Vec3, len(contacts))
	for i, ct := range contacts {
		normals[i] = ct.Normal
	}
	c.ceiling.process(normals, up)

	if c.state != StateRolling {
		return
	}
	rollDir := kmath.SafeNormalize(kmath.RemoveDotVector(c.rollVelocity, up))
	if kmath.IsZeroVec(rollDir) {
		return
	}
	for _, ct := range contacts {
		wallNormal := kmath.RemoveDotVector(ct.Normal, up)
		if kmath.IsZeroVec(wallNormal) {
			continue
		}
		if kmath.Angle(rollDir, ct.Normal) > c.cfg.RollCrashAngle {
			c.rollCrashTrigger = true
			c.rollCrashContact = ct.Point
			return
		}
		// Glancing wall contact: bounce the roll off the wall instead of
		// crashing.
		n := kmath.SafeNormalize(wallNormal)
		reflected := c.rollVelocity.Sub(n.Mul(2 * c.rollVelocity.Dot(n)))
		c.rollVelocity = reflected.Mul(wallBounceDamping)
	}
}

// AddMomentum injects an external impulse into the character's momentum.
func (c *Controller) AddMomentum(impulse mgl32.Vec3) {
	c.momentum = c.momentum.Add(impulse)
}

// State returns the active movement state.
func (c *Controller) State() State { return c.state }

// Momentum returns the velocity carried between ticks independent of direct
// input.
func (c *Controller) Momentum() mgl32.Vec3 { return c.momentum }

// MovementVelocity returns the velocity derived from this tick's input.
func (c *Controller) MovementVelocity() mgl32.Vec3 { return c.movementVelocity }

// Velocity returns the final velocity written to the mover this tick.
func (c *Controller) Velocity() mgl32.Vec3 { return c.velocity }

// IsGrounded reports whether the character counts as supported by ground.
func (c *Controller) IsGrounded() bool { return c.state.isGroundedFamily() }

// IsSliding reports whether the character is sliding down a steep slope.
func (c *Controller) IsSliding() bool { return c.state == StateSliding }

// IsRolling reports whether the character is mid-roll.
func (c *Controller) IsRolling() bool {
	return c.state == StateRolling || c.state == StateRollingCrash
}

// Events exposes the controller's event subscription surface.
func (c *Controller) Events() *Events { return &c.events }

func (c *Controller) advanceTimers(dt float32) {
	if c.state == StateRolling {
		c.rollTimer -= dt
	}
	if c.state == StateRollingCrash {
		c.crashTimer -= dt
	}
}

// latchInputTriggers converts this tick's input and zone membership into
// one-shot triggers.
func (c *Controller) latchInputTriggers() {
	if c.input.RollPressed {
		switch c.state {
		case StateGrounded:
			c.rollTrigger = true
		case StateRolling:
			c.rollRepress = true
		}
	}

	// Pressing forward inside a climb zone latches the matching enter
	// trigger. The ladder, being the oldest overlapping zone, wins over
	// free-climb surfaces.
	if !c.usingClimbZone && c.input.Vertical > 0 {
		if c.snapshot.Ladder != nil {
			c.ladderEnterTrigger = true
			c.climbSurfaceID = c.snapshot.Ladder.ID
		} else {
			for _, surf := range c.snapshot.Surfaces {
				if surf.FreeClimb {
					c.freeClimbEnterTrigger = true
					c.climbSurfaceID = surf.ID
					break
				}
			}
		}
	}

	// Passing the end anchor while climbing latches the exit trigger.
	if c.state == StateLadderClimbing || c.state == StateFreeClimbing {
		if surf, ok := c.climbSurface(); ok {
			up := c.mover.Pose().Up()
			above := c.mover.Pose().Position.Sub(surf.EndAnchor()).Dot(up)
			if above >= 0 {
				c.climbExitTrigger = true
			}
		}
	}
}

// climbSurface resolves the held climb-zone reference against this tick's
// snapshot. The reference is weak: a surface absent from the snapshot has
// exited and the lookup fails.
func (c *Controller) climbSurface() (zone.Surface, bool) {
	if c.climbSurfaceID == "" {
		return zone.Surface{}, false
	}
	return c.snapshot.Surface(c.climbSurfaceID)
}

func (c *Controller) isClimbing() bool {
	_, ok := c.climbSurface()
	return c.usingClimbZone && ok
}

// isRising reports whether vertical momentum exceeds the threshold and points
// along up.
func (c *Controller) isRising() bool {
	up := c.mover.Pose().Up()
	vertical := kmath.ExtractDotVector(c.momentum, up)
	return vertical.Len() > risingThreshold && vertical.Dot(up) > 0
}

// isSlidingSlope reports whether the sensed ground is steeper than the slope
// limit. Equality counts as walkable ground; only a strictly greater angle
// slides.
func (c *Controller) isSlidingSlope() bool {
	if !c.mover.IsGrounded() {
		return false
	}
	angle := kmath.Angle(c.mover.GroundNormal(), c.mover.Pose().Up())
	return angle > c.cfg.SlopeLimit
}

func (c *Controller) bodySpeed() float32 {
	return c.mover.Velocity().Len()
}

func (c *Controller) debugf(format string, args ...any) {
	if c.opts.Debugf != nil {
		c.opts.Debugf(format, args...)
	}
}
