package physics

import "github.com/go-gl/mathgl/mgl32"

// Hit is a normalized cast result returned by World queries. Normal is unit
// length and Distance is the travel distance along the cast direction.
type Hit struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
	Collider Collider
}

// Contact is a single collision contact reported by the engine for the
// current tick.
type Contact struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// QueryFilter narrows which colliders a World query may report.
type QueryFilter struct {
	Mask LayerMask
	// HitTriggers includes trigger volumes in query results. Ground sensing
	// always leaves this false.
	HitTriggers bool
}

// World bridges the physics engine's spatial query interface for ground and
// climb-surface sensing.
type World interface {
	Raycast(origin, dir mgl32.Vec3, maxDist float32, filter QueryFilter) (Hit, bool)
	Spherecast(origin mgl32.Vec3, radius float32, dir mgl32.Vec3, maxDist float32, filter QueryFilter) (Hit, bool)
	// CollisionMask returns the set of layers the given layer collides with.
	CollisionMask(layer Layer) LayerMask
}

// Body bridges the rigidbody the character is driven through. Velocity writes
// are integrated by the engine after the tick; the core never moves the body
// directly except through MovePosition.
type Body interface {
	Pose() Pose
	Velocity() mgl32.Vec3
	SetVelocity(vel mgl32.Vec3)
	MovePosition(pos mgl32.Vec3)
	SetFreezeRotation(freeze bool)
	SetGravityEnabled(enabled bool)
}

// Collider bridges a single collider owned by the character or hit by a cast.
type Collider interface {
	Layer() Layer
	SetLayer(layer Layer)

	SetCapsule(radius, height float32, center mgl32.Vec3)
	SetBox(halfExtents, center mgl32.Vec3)
	SetSphere(radius float32, center mgl32.Vec3)
}
