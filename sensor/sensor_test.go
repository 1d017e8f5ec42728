package sensor

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/physics"
)

// planeWorld reports hits against a horizontal plane at groundY for downward
// casts and lets tests inspect collider layers at query time.
type planeWorld struct {
	groundY   float32
	hasGround bool

	refineNormal    mgl32.Vec3
	hasRefineNormal bool

	watch       []physics.Collider
	sawOwnLayer bool
	rayCount    int
}

func (w *planeWorld) checkWatched() {
	for _, col := range w.watch {
		if col.Layer() != physics.LayerIgnoreRaycast {
			w.sawOwnLayer = true
		}
	}
}

func (w *planeWorld) Raycast(origin, dir mgl32.Vec3, maxDist float32, filter physics.QueryFilter) (physics.Hit, bool) {
	w.checkWatched()
	w.rayCount++

	if w.hasRefineNormal {
		return physics.Hit{Point: origin, Normal: w.refineNormal, Distance: 0.01}, true
	}
	if !w.hasGround || dir.Y() >= 0 {
		return physics.Hit{}, false
	}
	dist := origin.Y() - w.groundY
	if dist < 0 || dist > maxDist {
		return physics.Hit{}, false
	}
	return physics.Hit{
		Point:    mgl32.Vec3{origin.X(), w.groundY, origin.Z()},
		Normal:   mgl32.Vec3{0, 1, 0},
		Distance: dist,
	}, true
}

func (w *planeWorld) Spherecast(origin mgl32.Vec3, radius float32, dir mgl32.Vec3, maxDist float32, filter physics.QueryFilter) (physics.Hit, bool) {
	w.checkWatched()
	if !w.hasGround || dir.Y() >= 0 {
		return physics.Hit{}, false
	}
	dist := origin.Y() - w.groundY - radius
	if dist < 0 || dist > maxDist {
		return physics.Hit{}, false
	}
	return physics.Hit{
		Point:    mgl32.Vec3{origin.X(), w.groundY, origin.Z()},
		Normal:   mgl32.Vec3{0, 1, 0},
		Distance: dist,
	}, true
}

func (w *planeWorld) CollisionMask(layer physics.Layer) physics.LayerMask {
	return physics.MaskAll
}

type recordCollider struct {
	layer physics.Layer
}

func (c *recordCollider) Layer() physics.Layer         { return c.layer }
func (c *recordCollider) SetLayer(layer physics.Layer) { c.layer = layer }
func (c *recordCollider) SetCapsule(radius, height float32, center mgl32.Vec3) {}
func (c *recordCollider) SetBox(halfExtents, center mgl32.Vec3)                {}
func (c *recordCollider) SetSphere(radius float32, center mgl32.Vec3)          {}

func downSensor(world physics.World) *Sensor {
	s := New(world, nil)
	s.SetDirection(DirectionDown)
	s.SetLength(5)
	return s
}

func TestRecalibrateDeterministicCount(t *testing.T) {
	s := New(nil, nil)

	rows, raysPerRow := 3, 6
	s.Recalibrate(rows, raysPerRow, true, 0.5)
	first := append([]mgl32.Vec2(nil), s.ArrayOffsets()...)

	want := 1
	for i := 1; i <= rows; i++ {
		want += raysPerRow * i
	}
	if len(first) != want {
		t.Fatalf("expected %d offsets, got %d", want, len(first))
	}

	s.Recalibrate(rows, raysPerRow, true, 0.5)
	second := s.ArrayOffsets()
	if len(second) != len(first) {
		t.Fatalf("recalibrate changed count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("offset %d differs between identical recalibrations: %v vs %v", i, first[i], second[i])
		}
	}

	// Every offset stays inside the configured radius.
	for i, off := range first {
		if off.Len() > 0.5+1e-5 {
			t.Fatalf("offset %d outside radius: %v", i, off)
		}
	}
}

func TestCastRayHit(t *testing.T) {
	w := &planeWorld{groundY: 0, hasGround: true}
	s := downSensor(w)
	s.SetOriginOffset(mgl32.Vec3{0, 1.25, 0})

	pose := physics.IdentityPose()
	s.Cast(pose)

	if !s.HasHit() {
		t.Fatal("expected hit")
	}
	if math32.Abs(s.HitDistance()-1.25) > 1e-5 {
		t.Fatalf("expected distance 1.25, got %v", s.HitDistance())
	}
	if s.HitNormal() != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("unexpected normal %v", s.HitNormal())
	}
}

func TestCastMissResetsResult(t *testing.T) {
	w := &planeWorld{hasGround: false}
	s := downSensor(w)
	s.SetOriginOffset(mgl32.Vec3{0, 1, 0})

	s.Cast(physics.IdentityPose())

	if s.HasHit() {
		t.Fatal("expected miss")
	}
	if s.HitDistance() != 0 {
		t.Fatalf("expected zero distance, got %v", s.HitDistance())
	}
	// Miss resets the normal to the negated cast direction and the position
	// to the cast origin.
	if s.HitNormal() != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected negated cast direction, got %v", s.HitNormal())
	}
	if s.HitPoint() != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected cast origin, got %v", s.HitPoint())
	}
}

func TestSphereCastAddsRadiusBack(t *testing.T) {
	w := &planeWorld{groundY: 0, hasGround: true}
	s := downSensor(w)
	s.SetCastKind(KindSphere)
	s.SetRadius(0.5)
	s.SetOriginOffset(mgl32.Vec3{0, 2, 0})

	s.Cast(physics.IdentityPose())

	if !s.HasHit() {
		t.Fatal("expected hit")
	}
	if math32.Abs(s.HitDistance()-2) > 1e-5 {
		t.Fatalf("expected surface distance 2, got %v", s.HitDistance())
	}
}

func TestSphereCastBackupNormal(t *testing.T) {
	w := &planeWorld{groundY: 0, hasGround: true}
	s := downSensor(w)
	s.SetCastKind(KindSphere)
	s.SetRadius(0.5)
	s.SetRefineNormal(true)
	s.SetOriginOffset(mgl32.Vec3{0, 2, 0})
	pose := physics.IdentityPose()

	// A refined normal orthogonal to the negated cast direction is a grazing
	// degenerate; the initial backup normal must be substituted.
	w.hasRefineNormal = true
	w.refineNormal = mgl32.Vec3{1, 0, 0}
	s.Cast(pose)
	if s.HitNormal() != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected backup normal, got %v", s.HitNormal())
	}

	// A clean refinement is used directly and becomes the new backup.
	good := mgl32.Vec3{0.1, 1, 0}.Normalize()
	w.refineNormal = good
	s.Cast(pose)
	if s.HitNormal() != good {
		t.Fatalf("expected refined normal, got %v", s.HitNormal())
	}

	w.refineNormal = mgl32.Vec3{0, 0, 1}
	s.Cast(pose)
	if s.HitNormal() != good {
		t.Fatalf("expected updated backup normal, got %v", s.HitNormal())
	}
}

func TestRayArrayAveraging(t *testing.T) {
	w := &planeWorld{groundY: 0, hasGround: true}
	s := downSensor(w)
	s.SetCastKind(KindRayArray)
	s.Recalibrate(2, 4, false, 0.5)
	s.SetOriginOffset(mgl32.Vec3{0, 1.5, 0})

	s.Cast(physics.IdentityPose())

	if !s.HasHit() {
		t.Fatal("expected hit")
	}
	if math32.Abs(s.HitDistance()-1.5) > 1e-4 {
		t.Fatalf("expected projected distance 1.5, got %v", s.HitDistance())
	}
	if s.HitNormal().Sub(mgl32.Vec3{0, 1, 0}).Len() > 1e-4 {
		t.Fatalf("expected averaged up normal, got %v", s.HitNormal())
	}
	if math32.Abs(s.HitPoint().Y()) > 1e-4 {
		t.Fatalf("expected averaged point on plane, got %v", s.HitPoint())
	}
	wantRays := len(s.ArrayOffsets())
	if w.rayCount != wantRays {
		t.Fatalf("expected %d rays fired, got %d", wantRays, w.rayCount)
	}
}

func TestSelfExclusionDuringCast(t *testing.T) {
	own := &recordCollider{layer: 5}
	w := &planeWorld{groundY: 0, hasGround: true, watch: []physics.Collider{own}}
	for _, kind := range []Kind{KindRay, KindSphere, KindRayArray} {
		w.sawOwnLayer = false
		s := downSensor(w)
		s.SetCastKind(kind)
		s.SetRadius(0.25)
		s.Recalibrate(1, 4, false, 0.25)
		s.SetOwnColliders([]physics.Collider{own})
		s.SetOriginOffset(mgl32.Vec3{0, 1, 0})

		s.Cast(physics.IdentityPose())

		if w.sawOwnLayer {
			t.Fatalf("kind %d: own collider visible to world during cast", kind)
		}
		if own.Layer() != 5 {
			t.Fatalf("kind %d: layer not restored after cast, got %d", kind, own.Layer())
		}
	}
}

func TestUnknownCastKindReportsNoHit(t *testing.T) {
	w := &planeWorld{groundY: 0, hasGround: true}
	s := downSensor(w)
	s.SetCastKind(Kind(99))
	s.SetOriginOffset(mgl32.Vec3{0, 1, 0})

	s.Cast(physics.IdentityPose())

	if s.HasHit() {
		t.Fatal("expected no hit for unknown cast kind")
	}
}
