package sensor

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/kmath"
	"github.com/kinemotion/kine/physics"
	"github.com/sirupsen/logrus"
)

// Kind selects the probing strategy used by a Sensor.
type Kind uint8

const (
	KindRay Kind = iota
	KindSphere
	KindRayArray
)

// Direction is one of the six local axes a Sensor may cast along. The axis is
// resolved against the owner's pose at cast time.
type Direction uint8

const (
	DirectionDown Direction = iota
	DirectionUp
	DirectionForward
	DirectionBack
	DirectionRight
	DirectionLeft
)

// maxRefineAngle is the angle from the negated cast direction past which a
// refined sphere-cast normal counts as a grazing degenerate and the backup
// normal is substituted instead.
const maxRefineAngle = 89

// refineBackstep is how far behind the sweep's hit point the secondary
// refinement ray starts.
const refineBackstep = float32(0.05)

// Sensor performs one directional probe per tick against the physics world
// and normalizes the outcome across cast kinds. It knows nothing about
// character state.
type Sensor struct {
	world physics.World
	log   *logrus.Logger

	kind         Kind
	originOffset mgl32.Vec3
	direction    Direction
	length       float32
	radius       float32
	mask         physics.LayerMask

	// ownColliders are parked on the ignore-raycast layer for the duration
	// of a cast so the owner cannot sense itself.
	ownColliders []physics.Collider

	refineNormal bool
	backupNormal mgl32.Vec3

	arrayOffsets []mgl32.Vec2

	hasHit      bool
	hitPoint    mgl32.Vec3
	hitNormal   mgl32.Vec3
	hitDistance float32
	hitCollider physics.Collider

	warnedKinds map[Kind]bool
}

// New returns a sensor casting straight down with a zero-length ray. The
// mover arms length, origin and mask before the first cast.
func New(world physics.World, log *logrus.Logger) *Sensor {
	return &Sensor{
		world:        world,
		log:          log,
		direction:    DirectionDown,
		mask:         physics.MaskAll.Without(physics.LayerIgnoreRaycast),
		backupNormal: mgl32.Vec3{0, 1, 0},
		warnedKinds:  map[Kind]bool{},
	}
}

// SetCastKind sets the probing strategy.
func (s *Sensor) SetCastKind(kind Kind) { s.kind = kind }

// SetOriginOffset sets the local-space origin the cast starts from.
func (s *Sensor) SetOriginOffset(offset mgl32.Vec3) { s.originOffset = offset }

// SetDirection sets the local axis the sensor casts along.
func (s *Sensor) SetDirection(dir Direction) { s.direction = dir }

// SetLength sets the cast length.
func (s *Sensor) SetLength(length float32) { s.length = length }

// Length returns the current cast length.
func (s *Sensor) Length() float32 { return s.length }

// SetRadius sets the radius used for sphere casts and as the footprint of the
// ray array.
func (s *Sensor) SetRadius(radius float32) { s.radius = radius }

// SetLayerMask sets which layers casts may report.
func (s *Sensor) SetLayerMask(mask physics.LayerMask) { s.mask = mask }

// SetOwnColliders registers the owner's colliders to exclude from casts.
func (s *Sensor) SetOwnColliders(colliders []physics.Collider) { s.ownColliders = colliders }

// SetRefineNormal enables the secondary-ray normal refinement for sphere
// casts.
func (s *Sensor) SetRefineNormal(refine bool) { s.refineNormal = refine }

// Recalibrate precomputes the local start offsets for the ray-array kind: a
// center point plus, for each of rows concentric rings, raysPerRow rays per
// ring index spaced evenly by angle. offsetRows phase-shifts alternating
// rings by half a step. Pure geometry; identical inputs always produce the
// same ordered offsets.
func (s *Sensor) Recalibrate(rows, raysPerRow int, offsetRows bool, radius float32) {
	s.arrayOffsets = s.arrayOffsets[:0]
	s.arrayOffsets = append(s.arrayOffsets, mgl32.Vec2{})
	if rows <= 0 || raysPerRow <= 0 {
		return
	}
	s.radius = radius

	for ring := 1; ring <= rows; ring++ {
		count := raysPerRow * ring
		ringRadius := radius * float32(ring) / float32(rows)
		step := 2 * math32.Pi / float32(count)
		phase := float32(0)
		if offsetRows && ring%2 == 1 {
			phase = step / 2
		}
		for i := 0; i < count; i++ {
			angle := phase + step*float32(i)
			s.arrayOffsets = append(s.arrayOffsets, mgl32.Vec2{
				math32.Cos(angle) * ringRadius,
				math32.Sin(angle) * ringRadius,
			})
		}
	}
}

// ArrayOffsets returns the precomputed ray-array start offsets.
func (s *Sensor) ArrayOffsets() []mgl32.Vec2 {
	return s.arrayOffsets
}

// Cast performs the configured probe from the given pose and overwrites the
// result. The owner's colliders are moved to the ignore-raycast layer for the
// duration of the cast and restored before Cast returns.
func (s *Sensor) Cast(pose physics.Pose) {
	origin := pose.TransformPoint(s.originOffset)
	dir := s.worldDirection(pose)
	s.reset(origin, dir)

	if s.world == nil || s.length <= 0 {
		return
	}

	restore := s.excludeOwnColliders()
	defer restore()

	switch s.kind {
	case KindRay:
		s.castRay(origin, dir)
	case KindSphere:
		s.castSphere(origin, dir)
	case KindRayArray:
		s.castRayArray(pose, origin, dir)
	default:
		if !s.warnedKinds[s.kind] {
			s.warnedKinds[s.kind] = true
			if s.log != nil {
				s.log.Warnf("sensor: unknown cast kind %d, reporting no hit", s.kind)
			}
		}
	}
}

// HasHit reports whether the last cast connected with any geometry.
func (s *Sensor) HasHit() bool { return s.hasHit }

// HitPoint returns the world-space hit position of the last cast.
func (s *Sensor) HitPoint() mgl32.Vec3 { return s.hitPoint }

// HitNormal returns the unit surface normal of the last cast.
func (s *Sensor) HitNormal() mgl32.Vec3 { return s.hitNormal }

// HitDistance returns the distance from the cast origin to the hit surface.
func (s *Sensor) HitDistance() float32 { return s.hitDistance }

// HitCollider returns the surface handle of the last cast, if any.
func (s *Sensor) HitCollider() physics.Collider { return s.hitCollider }

func (s *Sensor) reset(origin, dir mgl32.Vec3) {
	s.hasHit = false
	s.hitPoint = origin
	s.hitNormal = dir.Mul(-1)
	s.hitDistance = 0
	s.hitCollider = nil
}

// excludeOwnColliders parks the owner's colliders on the ignore-raycast layer
// and returns a function restoring their previous layers. The restore must
// run even if the query provider panics, so callers defer it.
func (s *Sensor) excludeOwnColliders() func() {
	saved := make([]physics.Layer, len(s.ownColliders))
	for i, col := range s.ownColliders {
		saved[i] = col.Layer()
		col.SetLayer(physics.LayerIgnoreRaycast)
	}
	return func() {
		for i, col := range s.ownColliders {
			col.SetLayer(saved[i])
		}
	}
}

func (s *Sensor) castRay(origin, dir mgl32.Vec3) {
	hit, ok := s.world.Raycast(origin, dir, s.length, physics.QueryFilter{Mask: s.mask})
	if !ok {
		return
	}
	s.hasHit = true
	s.hitPoint = hit.Point
	s.hitNormal = hit.Normal
	s.hitDistance = hit.Distance
	s.hitCollider = hit.Collider
}

func (s *Sensor) castSphere(origin, dir mgl32.Vec3) {
	hit, ok := s.world.Spherecast(origin, s.radius, dir, s.length, physics.QueryFilter{Mask: s.mask})
	if !ok {
		return
	}
	s.hasHit = true
	s.hitPoint = hit.Point
	s.hitNormal = hit.Normal
	// Sweeps report travel distance before surface contact; add the radius
	// back so sphere and ray results are comparable.
	s.hitDistance = hit.Distance + s.radius
	s.hitCollider = hit.Collider

	if s.refineNormal {
		s.hitNormal = s.refineSphereNormal(hit, dir)
	}
}

// refineSphereNormal fires a short ray just behind the sweep's hit point to
// recover the true surface normal. A refined normal deviating more than 89
// degrees from the negated cast direction is a grazing degenerate; the last
// known good normal is substituted and the backup only updates on a
// non-degenerate refinement.
func (s *Sensor) refineSphereNormal(hit physics.Hit, dir mgl32.Vec3) mgl32.Vec3 {
	origin := hit.Point.Sub(dir.Mul(refineBackstep))
	refined, ok := s.world.Raycast(origin, dir, refineBackstep*2, physics.QueryFilter{Mask: s.mask})
	if !ok {
		return hit.Normal
	}
	if kmath.Angle(refined.Normal, dir.Mul(-1)) > maxRefineAngle {
		return s.backupNormal
	}
	s.backupNormal = refined.Normal
	return refined.Normal
}

func (s *Sensor) castRayArray(pose physics.Pose, origin, dir mgl32.Vec3) {
	u, v := s.planeBasis(pose)

	var (
		hits     int
		pointSum mgl32.Vec3
		normSum  mgl32.Vec3
	)
	for _, offset := range s.arrayOffsets {
		rayOrigin := origin.Add(u.Mul(offset.X())).Add(v.Mul(offset.Y()))
		hit, ok := s.world.Raycast(rayOrigin, dir, s.length, physics.QueryFilter{Mask: s.mask})
		if !ok {
			continue
		}
		hits++
		pointSum = pointSum.Add(hit.Point)
		normSum = normSum.Add(hit.Normal)
		if s.hitCollider == nil {
			s.hitCollider = hit.Collider
		}
	}
	if hits == 0 {
		s.hitCollider = nil
		return
	}

	s.hasHit = true
	s.hitPoint = pointSum.Mul(1 / float32(hits))
	s.hitNormal = kmath.SafeNormalize(normSum)
	// Recompute the distance as a projection onto the cast direction so the
	// averaged result stays comparable to a single ray.
	s.hitDistance = math32.Abs(origin.Sub(s.hitPoint).Dot(dir))
}

func (s *Sensor) worldDirection(pose physics.Pose) mgl32.Vec3 {
	switch s.direction {
	case DirectionUp:
		return pose.Up()
	case DirectionForward:
		return pose.Forward()
	case DirectionBack:
		return pose.Back()
	case DirectionRight:
		return pose.Right()
	case DirectionLeft:
		return pose.Left()
	default:
		return pose.Down()
	}
}

// planeBasis returns two world-space axes spanning the plane perpendicular to
// the cast direction, used to place ray-array start offsets.
func (s *Sensor) planeBasis(pose physics.Pose) (mgl32.Vec3, mgl32.Vec3) {
	switch s.direction {
	case DirectionForward, DirectionBack:
		return pose.Right(), pose.Up()
	case DirectionRight, DirectionLeft:
		return pose.Forward(), pose.Up()
	default:
		return pose.Right(), pose.Forward()
	}
}
