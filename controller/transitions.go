package controller

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/kmath"
)

// determineNextState evaluates the transition table against the current
// state. Conditions are checked in priority order; the first match wins.
func (c *Controller) determineNextState() State {
	grounded := c.mover.IsGrounded()
	sliding := c.isSlidingSlope()

	switch c.state {
	case StateGrounded:
		if c.snapshot.Crouch {
			return StateCrouching
		}
		if c.rollTrigger {
			return StateRolling
		}
		if c.ladderEnterTrigger {
			return StateLadderStart
		}
		if c.freeClimbEnterTrigger {
			return StateFreeClimbStart
		}
		if c.isRising() {
			return StateRising
		}
		if !grounded {
			return StateFalling
		}
		if sliding {
			return StateSliding
		}
		return StateGrounded

	case StateSliding:
		if c.jumpTrigger {
			return StateJumping
		}
		if c.isRising() {
			return StateRising
		}
		if !grounded {
			return StateFalling
		}
		if !sliding {
			return StateGrounded
		}
		return StateSliding

	case StateFalling:
		if c.jumpTrigger {
			return StateJumping
		}
		if c.isRising() {
			return StateRising
		}
		if c.ladderEnterTrigger {
			return StateLadderStart
		}
		if c.freeClimbEnterTrigger {
			return StateFreeClimbStart
		}
		if grounded && !sliding {
			return StateGrounded
		}
		if grounded && sliding {
			return StateSliding
		}
		return StateFalling

	case StateRising:
		if c.ceiling.wasHit() {
			c.onCeilingContact()
			return StateFalling
		}
		if c.ladderEnterTrigger {
			return StateLadderStart
		}
		if c.freeClimbEnterTrigger {
			return StateFreeClimbStart
		}
		if !c.isRising() {
			if grounded && !sliding {
				return StateGrounded
			}
			if grounded && sliding {
				return StateSliding
			}
			return StateFalling
		}
		return StateRising

	case StateJumping:
		if c.ceiling.wasHit() {
			c.onCeilingContact()
			return StateFalling
		}
		// The jump trigger is one-shot; once it has been consumed and
		// re-armed for the next jump, the launch hands off to Rising.
		if !c.jumpTrigger {
			return StateRising
		}
		return StateJumping

	case StateCrouching:
		if c.isRising() {
			return StateRising
		}
		if !grounded {
			return StateFalling
		}
		if sliding {
			return StateSliding
		}
		if !c.snapshot.Crouch {
			return StateGrounded
		}
		return StateCrouching

	case StateLadderStart:
		if !c.isClimbing() {
			return StateFalling
		}
		if c.bodySpeed() <= c.cfg.ClimbMoveThreshold {
			return StateLadderClimbing
		}
		return StateLadderStart

	case StateLadderClimbing:
		if !c.isClimbing() {
			return StateFalling
		}
		if c.climbExitTrigger {
			return StateLadderEnd
		}
		return StateLadderClimbing

	case StateLadderEnd:
		if c.bodySpeed() <= c.cfg.ClimbMoveThreshold {
			if grounded {
				return StateGrounded
			}
			return StateFalling
		}
		return StateLadderEnd

	case StateRolling:
		if c.rollCrashTrigger {
			return StateRollingCrash
		}
		if !grounded {
			return StateFalling
		}
		if c.rollTimer <= 0 {
			if c.rollRepress {
				c.rollTimer = c.cfg.RollDuration
				c.rollRepress = false
				return StateRolling
			}
			return StateGrounded
		}
		return StateRolling

	case StateRollingCrash:
		if c.crashTimer <= 0 {
			return StateGrounded
		}
		return StateRollingCrash

	case StateFreeClimbStart:
		if !c.isClimbing() {
			return StateFalling
		}
		if c.bodySpeed() <= c.cfg.ClimbMoveThreshold {
			return StateFreeClimbing
		}
		return StateFreeClimbStart

	case StateFreeClimbing:
		if !c.isClimbing() || c.climbExitTrigger {
			return StateFalling
		}
		return StateFreeClimbing
	}

	// An unrecognized state is fatal for this tick only: warn and fall back
	// to Falling so one bad transition cannot wedge the character.
	c.warnUnknownState()
	return StateFalling
}

// onStateEnter runs the new state's enter side effects. The state field still
// holds the previous state at this point.
func (c *Controller) onStateEnter(next State) {
	switch next {
	case StateGrounded:
		if c.state.isAirborneOrClimbing() {
			c.onGroundContactRegained()
		}

	case StateSliding, StateFalling, StateRising:
		if c.state.isGroundedFamily() || c.state == StateRolling {
			c.onGroundContactLost()
		}

	case StateJumping:
		c.onJumpStart()

	case StateCrouching:
		c.mover.RecalculateColliderDimensions(c.cfg.CrouchColliderHeight, c.cfg.ColliderThickness, c.cfg.CrouchStepHeightRatio)

	case StateLadderStart:
		c.usingClimbZone = true
		c.events.emitLadderEnter()

	case StateFreeClimbStart:
		c.usingClimbZone = true
		c.events.emitFreeClimbEnter()

	case StateRolling:
		c.rollTimer = c.cfg.RollDuration
		c.rollRepress = false
		// The roll direction is locked in at launch: the captured velocity
		// keeps driving the roll even if input changes mid-roll.
		c.rollVelocity = kmath.RemoveDotVector(c.velocity, c.mover.Pose().Up())

	case StateRollingCrash:
		c.crashTimer = c.cfg.RollCrashDuration
		c.momentum = mgl32.Vec3{}
		c.events.emitRollCrash(c.rollCrashContact)
	}
}

// onStateExit runs the old state's exit side effects. The state field already
// holds the new state, and at least the auto-jump arming below depends on
// observing it.
func (c *Controller) onStateExit(prev State) {
	switch prev {
	case StateGrounded:
		// Running off a ledge at speed arms an auto-jump, subject to the
		// jump cooldown.
		if c.state == StateFalling {
			up := c.mover.Pose().Up()
			speed := kmath.RemoveDotVector(c.velocity, up).Len()
			if speed >= c.cfg.AutoJumpSpeedThreshold && c.timeSinceJump >= c.cfg.JumpCooldown {
				c.jumpTrigger = true
			}
		}

	case StateCrouching:
		c.mover.RecalculateColliderDimensions(c.cfg.ColliderHeight, c.cfg.ColliderThickness, c.cfg.StepHeightRatio)

	case StateJumping:
		c.jumpTrigger = false

	case StateLadderStart, StateLadderClimbing, StateLadderEnd, StateFreeClimbStart, StateFreeClimbing:
		c.climbExitTrigger = false
		c.ladderEnterTrigger = false
		c.freeClimbEnterTrigger = false
		if !c.state.isClimbState() {
			if prev != StateFreeClimbStart && prev != StateFreeClimbing {
				c.events.emitLadderExit()
			}
			c.usingClimbZone = false
			c.climbSurfaceID = ""
		}
	}
}

// onJumpStart adds the jump speed to momentum along up and notifies
// subscribers.
func (c *Controller) onJumpStart() {
	up := c.mover.Pose().Up()
	c.momentum = c.momentum.Add(up.Mul(c.cfg.JumpSpeed))
	c.timeSinceJump = 0
	c.events.emitJump(c.momentum)
}

// onGroundContactLost reconciles momentum with the last movement velocity so
// speed the character already carries is not counted twice when going
// airborne.
func (c *Controller) onGroundContactLost() {
	vel := c.movementVelocity
	if !kmath.IsZeroVec(vel) && !kmath.IsZeroVec(c.momentum) {
		dir := kmath.SafeNormalize(vel)
		projected := kmath.ExtractDotVector(c.momentum, dir)
		dot := projected.Dot(vel)
		if projected.LenSqr() >= vel.LenSqr() && dot > 0 {
			vel = mgl32.Vec3{}
		} else if dot > 0 {
			vel = vel.Sub(projected)
		}
	}
	c.momentum = c.momentum.Add(vel)
}

// onGroundContactRegained fires the land event with the momentum at impact.
func (c *Controller) onGroundContactRegained() {
	c.events.emitLand(c.momentum)
}

// onCeilingContact removes upward momentum after an overhead hit so the
// character starts falling instead of grinding against the ceiling.
func (c *Controller) onCeilingContact() {
	up := c.mover.Pose().Up()
	vertical := kmath.ExtractDotVector(c.momentum, up)
	if vertical.Dot(up) > 0 {
		c.momentum = c.momentum.Sub(vertical)
	}
}

func (c *Controller) warnUnknownState() {
	if c.warnedStates[c.state] {
		return
	}
	c.warnedStates[c.state] = true
	if c.log != nil {
		c.log.Warnf("controller: unknown state %d, defaulting to falling behavior", uint8(c.state))
	}
}
