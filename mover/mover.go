package mover

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/assert"
	"github.com/kinemotion/kine/config"
	"github.com/kinemotion/kine/kerror"
	"github.com/kinemotion/kine/physics"
	"github.com/kinemotion/kine/sensor"
	"github.com/sirupsen/logrus"
)

// Mover turns raw sensor hits into a stable grounded signal and a per-tick
// vertical correction velocity that keeps the collider at its configured
// standoff from the ground, so the character steps over small obstacles
// without floating or sinking.
type Mover struct {
	world    physics.World
	body     physics.Body
	collider physics.Collider
	log      *logrus.Logger

	sensor *sensor.Sensor

	shape             config.ColliderShape
	castKind          config.CastKind
	colliderHeight    float32
	colliderThickness float32
	stepHeightRatio   float32

	arrayRows       int
	arrayRaysPerRow int
	arrayOffsetRows bool

	baseSensorRange float32
	stepBuffer      float32
	// desiredDistance is the standoff target between the collider center and
	// the sensed ground surface.
	desiredDistance float32

	isGrounded               bool
	groundAdjustmentVelocity mgl32.Vec3
}

// New constructs a Mover over the given collaborators. Every dependency is
// required; a nil one is a construction-time error, not a runtime lookup
// failure.
func New(world physics.World, body physics.Body, collider physics.Collider, ownColliders []physics.Collider, cfg config.Config, log *logrus.Logger) (*Mover, error) {
	if world == nil {
		return nil, kerror.New("mover: physics world is required")
	}
	if body == nil {
		return nil, kerror.New("mover: rigidbody is required")
	}
	if collider == nil {
		return nil, kerror.New("mover: collider is required")
	}

	m := &Mover{
		world:    world,
		body:     body,
		collider: collider,
		log:      log,

		shape:             cfg.ColliderShape,
		castKind:          cfg.CastKind,
		colliderHeight:    cfg.ColliderHeight,
		colliderThickness: cfg.ColliderThickness,
		stepHeightRatio:   cfg.StepHeightRatio,

		arrayRows:       cfg.SensorArrayRows,
		arrayRaysPerRow: cfg.SensorArrayRaysPerRow,
		arrayOffsetRows: cfg.SensorArrayOffsetRows,
	}

	m.sensor = sensor.New(world, log)
	m.sensor.SetDirection(sensor.DirectionDown)
	m.sensor.SetOwnColliders(append([]physics.Collider{collider}, ownColliders...))
	switch cfg.CastKind {
	case config.CastRay:
		m.sensor.SetCastKind(sensor.KindRay)
	case config.CastSphere:
		m.sensor.SetCastKind(sensor.KindSphere)
		m.sensor.SetRefineNormal(true)
	case config.CastRayArray:
		m.sensor.SetCastKind(sensor.KindRayArray)
	default:
		// Resolved to the safest default rather than failing construction.
		if log != nil {
			log.Warnf("mover: unknown cast kind %q, falling back to a single ray", cfg.CastKind)
		}
		m.castKind = config.CastRay
		m.sensor.SetCastKind(sensor.KindRay)
	}

	body.SetFreezeRotation(true)
	body.SetGravityEnabled(false)

	m.RecalculateColliderDimensions(m.colliderHeight, m.colliderThickness, m.stepHeightRatio)
	return m, nil
}

// RecalculateColliderDimensions re-derives the collider shape, sensor origin,
// cast length, cast radius and layer mask from the given inputs in one pass.
// Partial application of a new height against a stale cast length would make
// the character float or sink, so every dependent value is re-armed here.
func (m *Mover) RecalculateColliderDimensions(height, thickness, stepRatio float32) {
	if height <= 0 || thickness <= 0 || stepRatio < 0 || stepRatio >= 1 {
		if m.log != nil {
			m.log.Warnf("mover: ignoring invalid collider dimensions height=%v thickness=%v stepRatio=%v", height, thickness, stepRatio)
		}
		return
	}

	m.colliderHeight = height
	m.colliderThickness = thickness
	m.stepHeightRatio = stepRatio

	m.stepBuffer = height * stepRatio
	trunk := height - m.stepBuffer
	assert.IsTrue(trunk > 0, "collider trunk must be positive (height=%v stepRatio=%v)", height, stepRatio)
	center := mgl32.Vec3{0, m.stepBuffer + trunk/2, 0}
	radius := thickness / 2

	switch m.shape {
	case config.ShapeBox:
		m.collider.SetBox(mgl32.Vec3{radius, trunk / 2, radius}, center)
	case config.ShapeSphere:
		m.collider.SetSphere(trunk/2, center)
	default:
		m.collider.SetCapsule(radius, trunk, center)
	}

	m.baseSensorRange = trunk/2 + m.stepBuffer
	m.desiredDistance = trunk/2 + m.stepBuffer

	m.sensor.SetOriginOffset(center)
	m.sensor.SetLength(m.baseSensorRange)
	m.sensor.SetRadius(radius)
	if m.castKind == config.CastRayArray {
		m.sensor.Recalibrate(m.arrayRows, m.arrayRaysPerRow, m.arrayOffsetRows, radius)
	}
	m.RecalculateLayerMask()
}

// RecalculateLayerMask rebuilds the ground-cast mask from the collision
// matrix of the collider's current layer. The ignore-raycast layer is always
// excluded. Call this whenever the owning object's layer changes.
func (m *Mover) RecalculateLayerMask() {
	mask := m.world.CollisionMask(m.collider.Layer())
	m.sensor.SetLayerMask(mask.Without(physics.LayerIgnoreRaycast))
}

// SetLayer reassigns the character's collision layer and rebuilds the cast
// mask.
func (m *Mover) SetLayer(layer physics.Layer) {
	m.collider.SetLayer(layer)
	m.RecalculateLayerMask()
}

// CheckForGround refreshes the grounded signal and the correction velocity.
// With useExtendedRange the cast reaches one extra step buffer past the foot,
// keeping contact over uneven terrain and short steps; without it the
// character genuinely falls off ledges rather than snapping down.
func (m *Mover) CheckForGround(useExtendedRange bool, dt float32) {
	castRange := m.baseSensorRange
	if useExtendedRange {
		castRange += m.stepBuffer
	}
	if m.castKind == config.CastSphere {
		// The sensor adds the sweep radius back onto reported distances, so
		// shorten the sweep to keep the effective reach identical.
		castRange -= m.colliderThickness / 2
		if castRange < 0 {
			castRange = 0
		}
	}
	m.sensor.SetLength(castRange)
	m.sensor.Cast(m.body.Pose())

	m.groundAdjustmentVelocity = mgl32.Vec3{}
	m.isGrounded = m.sensor.HasHit()
	if !m.isGrounded || dt <= 0 {
		return
	}

	// One tick of this velocity eliminates the standoff error exactly once
	// the body integrates it, so there is no overshoot oscillation.
	distanceToGo := m.desiredDistance - m.sensor.HitDistance()
	m.groundAdjustmentVelocity = m.body.Pose().Up().Mul(distanceToGo / dt)
}

// IsGrounded reports whether the last ground check hit.
func (m *Mover) IsGrounded() bool { return m.isGrounded }

// GroundNormal returns the sensed ground normal, or local up when airborne.
func (m *Mover) GroundNormal() mgl32.Vec3 {
	if !m.isGrounded {
		return m.body.Pose().Up()
	}
	return m.sensor.HitNormal()
}

// GroundPoint returns the sensed ground contact point, or the body position
// when airborne.
func (m *Mover) GroundPoint() mgl32.Vec3 {
	if !m.isGrounded {
		return m.body.Pose().Position
	}
	return m.sensor.HitPoint()
}

// GroundCollider returns the surface handle under the character, if any.
func (m *Mover) GroundCollider() physics.Collider {
	return m.sensor.HitCollider()
}

// GroundAdjustmentVelocity returns the correction term computed by the last
// ground check.
func (m *Mover) GroundAdjustmentVelocity() mgl32.Vec3 {
	return m.groundAdjustmentVelocity
}

// SetVelocity hands the intended velocity to the rigidbody with the current
// ground adjustment folded in, so callers never reason about the standoff
// correction separately.
func (m *Mover) SetVelocity(vel mgl32.Vec3) {
	m.body.SetVelocity(vel.Add(m.groundAdjustmentVelocity))
}

// Velocity returns the rigidbody's current velocity.
func (m *Mover) Velocity() mgl32.Vec3 {
	return m.body.Velocity()
}

// Pose returns the rigidbody's current pose.
func (m *Mover) Pose() physics.Pose {
	return m.body.Pose()
}

// ColliderHeight returns the configured total collider height.
func (m *Mover) ColliderHeight() float32 { return m.colliderHeight }

// ColliderThickness returns the configured collider thickness.
func (m *Mover) ColliderThickness() float32 { return m.colliderThickness }

// StepHeightRatio returns the fraction of the height reserved for stepping.
func (m *Mover) StepHeightRatio() float32 { return m.stepHeightRatio }

// BaseSensorRange returns the ground-cast length used while airborne.
func (m *Mover) BaseSensorRange() float32 { return m.baseSensorRange }
