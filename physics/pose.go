package physics

import "github.com/go-gl/mathgl/mgl32"

// Pose is a position and orientation pair describing a transform in world
// space. The zero value is the identity pose at the origin.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// IdentityPose returns a pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: mgl32.QuatIdent()}
}

// rotate applies the pose's rotation to a local direction. A zero-valued
// quaternion is treated as identity so uninitialized poses stay usable.
func (p Pose) rotate(local mgl32.Vec3) mgl32.Vec3 {
	if p.Rotation.W == 0 && p.Rotation.V.LenSqr() == 0 {
		return local
	}
	return p.Rotation.Rotate(local)
}

// Up returns the pose's local +Y axis in world space.
func (p Pose) Up() mgl32.Vec3 { return p.rotate(mgl32.Vec3{0, 1, 0}) }

// Down returns the pose's local -Y axis in world space.
func (p Pose) Down() mgl32.Vec3 { return p.rotate(mgl32.Vec3{0, -1, 0}) }

// Forward returns the pose's local +Z axis in world space.
func (p Pose) Forward() mgl32.Vec3 { return p.rotate(mgl32.Vec3{0, 0, 1}) }

// Back returns the pose's local -Z axis in world space.
func (p Pose) Back() mgl32.Vec3 { return p.rotate(mgl32.Vec3{0, 0, -1}) }

// Right returns the pose's local +X axis in world space.
func (p Pose) Right() mgl32.Vec3 { return p.rotate(mgl32.Vec3{1, 0, 0}) }

// Left returns the pose's local -X axis in world space.
func (p Pose) Left() mgl32.Vec3 { return p.rotate(mgl32.Vec3{-1, 0, 0}) }

// TransformPoint converts a local-space point to world space.
func (p Pose) TransformPoint(local mgl32.Vec3) mgl32.Vec3 {
	return p.Position.Add(p.rotate(local))
}
