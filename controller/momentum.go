package controller

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/kmath"
)

// runState executes the active state's momentum-update function and returns
// the character's output velocity for this tick.
func (c *Controller) runState() mgl32.Vec3 {
	switch c.state {
	case StateGrounded, StateCrouching:
		c.applyGroundedMomentum()
		return c.momentum.Add(c.movementVelocity)

	case StateFalling, StateRising, StateJumping:
		c.applyAirborneMomentum()
		return c.momentum

	case StateSliding:
		c.applySlidingMomentum()
		return c.momentum

	case StateRolling:
		c.applyGroundedMomentum()
		return c.momentum.Add(c.rollVelocity.Mul(c.cfg.RollSpeedMultiplier))

	case StateRollingCrash:
		c.momentum = mgl32.Vec3{}
		return mgl32.Vec3{}

	case StateLadderStart, StateFreeClimbStart:
		c.applyAttachMomentum(false)
		return c.momentum

	case StateLadderEnd:
		c.applyAttachMomentum(true)
		return c.momentum

	case StateLadderClimbing:
		c.applyLadderMomentum()
		return c.momentum

	case StateFreeClimbing:
		c.applyFreeClimbMomentum()
		return c.momentum
	}

	// Unknown state: degrade to airborne behavior for this tick and recover
	// into Falling so the character keeps obeying gravity.
	c.warnUnknownState()
	c.state = StateFalling
	c.applyAirborneMomentum()
	return c.momentum
}

// applyGroundedMomentum applies gravity to the vertical part of momentum,
// zeroes it while it points into supported ground and decays the horizontal
// part at the ground friction rate. Direct input stays out of momentum so it
// is immediately responsive.
func (c *Controller) applyGroundedMomentum() {
	up := c.mover.Pose().Up()
	vertical := kmath.ExtractDotVector(c.momentum, up)
	horizontal := c.momentum.Sub(vertical)

	vertical = vertical.Sub(up.Mul(c.cfg.Gravity * c.dt))
	if vertical.Dot(up) < 0 {
		vertical = mgl32.Vec3{}
	}

	horizontal = kmath.DecayToZero(horizontal, c.cfg.GroundFriction, c.dt)
	c.momentum = horizontal.Add(vertical)
}

// applyAirborneMomentum is shared between Falling, Rising and Jumping. Air
// control blends input into horizontal momentum; momentum above movement
// speed (an external impulse in effect) only receives the reduced control
// rate and never extra speed in its own direction.
func (c *Controller) applyAirborneMomentum() {
	up := c.mover.Pose().Up()
	vertical := kmath.ExtractDotVector(c.momentum, up)
	horizontal := c.momentum.Sub(vertical)

	vertical = vertical.Sub(up.Mul(c.cfg.Gravity * c.dt))

	moveVel := c.movementVelocity
	if horizontal.Len() > c.cfg.MovementSpeed {
		dir := kmath.SafeNormalize(horizontal)
		if moveVel.Dot(dir) > 0 {
			moveVel = kmath.RemoveDotVector(moveVel, dir)
		}
		horizontal = horizontal.Add(moveVel.Mul(c.cfg.AirControlRate * c.cfg.AirControlMultiplier * c.dt))
	} else {
		horizontal = horizontal.Add(moveVel.Mul(c.cfg.AirControlRate * c.dt))
		horizontal = kmath.ClampMagnitude(horizontal, c.cfg.MovementSpeed)
	}

	horizontal = kmath.DecayToZero(horizontal, c.cfg.AirFriction, c.dt)
	c.momentum = horizontal.Add(vertical)

	if c.state == StateJumping {
		// Re-affirm the launch: substitute jump speed for whatever vertical
		// momentum is left every tick the jump stays active.
		c.momentum = kmath.RemoveDotVector(c.momentum, up).Add(up.Mul(c.cfg.JumpSpeed))
	}
}

// applySlidingMomentum keeps momentum tangent to the slope and accelerates it
// downhill. Movement input may steer across the slope but never back up it.
func (c *Controller) applySlidingMomentum() {
	up := c.mover.Pose().Up()
	normal := c.mover.GroundNormal()

	vertical := kmath.ExtractDotVector(c.momentum, up)
	horizontal := c.momentum.Sub(vertical)

	vertical = vertical.Sub(up.Mul(c.cfg.Gravity * c.dt))

	downslope := kmath.SafeNormalize(kmath.ProjectOntoPlane(normal, up))

	moveVel := c.movementVelocity
	upSlope := downslope.Mul(-1)
	if moveVel.Dot(upSlope) > 0 {
		moveVel = kmath.RemoveDotVector(moveVel, upSlope)
	}
	horizontal = horizontal.Add(moveVel.Mul(c.dt))
	horizontal = kmath.DecayToZero(horizontal, c.cfg.AirFriction, c.dt)

	momentum := horizontal.Add(vertical)
	momentum = kmath.ProjectOntoPlane(momentum, normal)
	if momentum.Dot(up) > 0 {
		momentum = kmath.RemoveDotVector(momentum, up)
	}

	momentum = momentum.Add(downslope.Mul(c.cfg.SlideGravity * c.dt))
	c.momentum = momentum
}

// applyAttachMomentum springs the character toward the climb surface's start
// (or end) anchor at the attach speed. This is a spring-to-point override,
// not physical integration.
func (c *Controller) applyAttachMomentum(toEnd bool) {
	surf, ok := c.climbSurface()
	if !ok {
		c.momentum = mgl32.Vec3{}
		return
	}
	anchor := surf.StartAnchor()
	if toEnd {
		anchor = surf.EndAnchor()
	}
	// Near the anchor the speed is capped at distance/dt, so the final step
	// lands on the anchor instead of overshooting and the next tick's body
	// speed falls below the move threshold.
	delta := anchor.Sub(c.mover.Pose().Position)
	c.momentum = kmath.ClampMagnitude(delta.Mul(1/c.dt), c.cfg.ClimbAttachSpeed)
}

// applyLadderMomentum drives vertical momentum directly from the forward
// axis. A grounded character at the base pressing back peels off along the
// surface's forward direction instead of climbing, so dismounting at the
// bottom feels like stepping off.
func (c *Controller) applyLadderMomentum() {
	surf, ok := c.climbSurface()
	if !ok {
		c.momentum = mgl32.Vec3{}
		return
	}
	if c.mover.IsGrounded() && c.input.Vertical < 0 {
		c.momentum = surf.Forward().Mul(c.cfg.ClimbSpeed)
		return
	}
	c.momentum = c.mover.Pose().Up().Mul(c.input.Vertical * c.cfg.ClimbSpeed)
}

// applyFreeClimbMomentum drives lateral and vertical momentum along the climb
// surface from both input axes. The base dismount rule matches the ladder.
func (c *Controller) applyFreeClimbMomentum() {
	surf, ok := c.climbSurface()
	if !ok {
		c.momentum = mgl32.Vec3{}
		return
	}
	if c.mover.IsGrounded() && c.input.Vertical < 0 {
		c.momentum = surf.Forward().Mul(c.cfg.ClimbSpeed)
		return
	}

	up := c.mover.Pose().Up()
	dir := surf.Right().Mul(c.input.Horizontal).Add(up.Mul(c.input.Vertical))
	dir = kmath.ClampMagnitude(dir, 1)
	c.momentum = dir.Mul(c.cfg.ClimbSpeed)
}

// calculateMovementVelocity turns this tick's input axes into a world-space
// velocity. Combined horizontal magnitude is clamped to one before scaling so
// diagonal input is not faster. With a camera reference frame configured the
// result is additionally projected onto the ground plane while grounded.
func (c *Controller) calculateMovementVelocity() mgl32.Vec3 {
	pose := c.mover.Pose()
	up := pose.Up()
	if c.opts.ReferenceFrame != nil {
		pose = c.opts.ReferenceFrame()
	}

	forward := kmath.SafeNormalize(kmath.ProjectOntoPlane(pose.Forward(), up))
	right := kmath.SafeNormalize(kmath.ProjectOntoPlane(pose.Right(), up))

	dir := right.Mul(c.input.Horizontal).Add(forward.Mul(c.input.Vertical))
	dir = kmath.ClampMagnitude(dir, 1)

	vel := dir.Mul(c.cfg.MovementSpeed)
	if c.opts.ReferenceFrame != nil && c.mover.IsGrounded() {
		vel = kmath.ProjectOntoPlane(vel, c.mover.GroundNormal())
	}
	return vel
}
