package zone

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/physics"
)

// Surface describes a ladder or free-climb zone the character currently
// overlaps. It is owned by the trigger that published it; the controller only
// reads it and drops its reference once the surface leaves the snapshot.
type Surface struct {
	ID string

	// StartOffset and EndOffset are anchor points in the surface's local
	// space. The character springs to the start anchor when attaching and
	// detaches past the end anchor.
	StartOffset mgl32.Vec3
	EndOffset   mgl32.Vec3

	Pose      physics.Pose
	FreeClimb bool
}

// StartAnchor returns the attach anchor in world space.
func (s Surface) StartAnchor() mgl32.Vec3 {
	return s.Pose.TransformPoint(s.StartOffset)
}

// EndAnchor returns the detach anchor in world space.
func (s Surface) EndAnchor() mgl32.Vec3 {
	return s.Pose.TransformPoint(s.EndOffset)
}

// Forward returns the surface's facing direction in world space, pointing
// away from the climbable face.
func (s Surface) Forward() mgl32.Vec3 {
	return s.Pose.Forward()
}

// Right returns the surface's lateral direction in world space.
func (s Surface) Right() mgl32.Vec3 {
	return s.Pose.Right()
}

// Snapshot is the per-tick view of every zone the character occupies. The
// controller never holds zone state across ticks beyond the surface ID; a
// surface missing from the next snapshot counts as exited.
type Snapshot struct {
	// Crouch is true while a crouch trigger reports overlap.
	Crouch bool
	// Surfaces lists active climb surfaces in the order they were entered.
	Surfaces []Surface
	// Ladder is the current ladder descriptor, if any.
	Ladder *Surface
}

// Surface returns the active surface with the given ID.
func (s Snapshot) Surface(id string) (Surface, bool) {
	for _, surf := range s.Surfaces {
		if surf.ID == id {
			return surf, true
		}
	}
	return Surface{}, false
}
