package zone

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/physics"
)

func surfaceAt(id string, freeClimb bool) Surface {
	return Surface{
		ID:          id,
		StartOffset: mgl32.Vec3{0, 0.5, 0},
		EndOffset:   mgl32.Vec3{0, 4, 0},
		Pose:        physics.IdentityPose(),
		FreeClimb:   freeClimb,
	}
}

func TestRegistryKeepsEntryOrder(t *testing.T) {
	r := NewRegistry()
	r.EnterSurface(surfaceAt("a", true))
	r.EnterSurface(surfaceAt("b", false))
	r.EnterSurface(surfaceAt("c", true))

	snap := r.Snapshot()
	if len(snap.Surfaces) != 3 {
		t.Fatalf("expected 3 surfaces, got %d", len(snap.Surfaces))
	}
	for i, want := range []string{"a", "b", "c"} {
		if snap.Surfaces[i].ID != want {
			t.Fatalf("surface %d: expected %q, got %q", i, want, snap.Surfaces[i].ID)
		}
	}
}

func TestRegistryLadderSelection(t *testing.T) {
	r := NewRegistry()
	r.EnterSurface(surfaceAt("wall", true))
	r.EnterSurface(surfaceAt("ladder", false))

	snap := r.Snapshot()
	if snap.Ladder == nil || snap.Ladder.ID != "ladder" {
		t.Fatalf("expected ladder descriptor, got %v", snap.Ladder)
	}

	r.LeaveSurface("ladder")
	if snap = r.Snapshot(); snap.Ladder != nil {
		t.Fatalf("expected no ladder after leave, got %v", snap.Ladder)
	}
}

func TestRegistryReentryKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.EnterSurface(surfaceAt("a", false))
	r.EnterSurface(surfaceAt("b", false))
	r.EnterSurface(surfaceAt("a", false))

	snap := r.Snapshot()
	if snap.Surfaces[0].ID != "a" || snap.Surfaces[1].ID != "b" {
		t.Fatalf("re-entry reordered surfaces: %v", snap.Surfaces)
	}
}

func TestRegistryCrouchNesting(t *testing.T) {
	r := NewRegistry()
	r.EnterCrouch()
	r.EnterCrouch()
	r.LeaveCrouch()
	if !r.Snapshot().Crouch {
		t.Fatal("expected crouch to remain active with one overlap left")
	}
	r.LeaveCrouch()
	if r.Snapshot().Crouch {
		t.Fatal("expected crouch inactive after all overlaps left")
	}
	r.LeaveCrouch()
	if r.Snapshot().Crouch {
		t.Fatal("expected extra leave to be a no-op")
	}
}

func TestSnapshotSurfaceLookup(t *testing.T) {
	r := NewRegistry()
	r.EnterSurface(surfaceAt("a", false))
	snap := r.Snapshot()

	if _, ok := snap.Surface("a"); !ok {
		t.Fatal("expected surface a to resolve")
	}
	if _, ok := snap.Surface("gone"); ok {
		t.Fatal("expected missing surface to fail lookup")
	}
}

func TestSurfaceAnchors(t *testing.T) {
	s := surfaceAt("a", false)
	s.Pose.Position = mgl32.Vec3{1, 2, 3}
	if got := s.StartAnchor(); got != (mgl32.Vec3{1, 2.5, 3}) {
		t.Fatalf("unexpected start anchor %v", got)
	}
	if got := s.EndAnchor(); got != (mgl32.Vec3{1, 6, 3}) {
		t.Fatalf("unexpected end anchor %v", got)
	}
}
