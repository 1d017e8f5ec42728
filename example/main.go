// A headless demo: a character running, rolling and crouching on an infinite
// flat plane. The toy physics types below stand in for a real engine binding;
// they implement just enough of the physics interfaces to drive a character.
package main

import (
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine"
	"github.com/kinemotion/kine/config"
	"github.com/kinemotion/kine/controller"
	"github.com/kinemotion/kine/loop"
	"github.com/kinemotion/kine/physics"
	"github.com/kinemotion/kine/zone"
	"github.com/sirupsen/logrus"
)

const tickInterval = 20 * time.Millisecond

type planeWorld struct{}

func (planeWorld) Raycast(origin, dir mgl32.Vec3, maxDist float32, filter physics.QueryFilter) (physics.Hit, bool) {
	if dir.Y() >= 0 {
		return physics.Hit{}, false
	}
	dist := origin.Y()
	if dist < 0 || dist > maxDist {
		return physics.Hit{}, false
	}
	return physics.Hit{
		Point:    mgl32.Vec3{origin.X(), 0, origin.Z()},
		Normal:   mgl32.Vec3{0, 1, 0},
		Distance: dist,
	}, true
}

func (w planeWorld) Spherecast(origin mgl32.Vec3, radius float32, dir mgl32.Vec3, maxDist float32, filter physics.QueryFilter) (physics.Hit, bool) {
	hit, ok := w.Raycast(origin, dir, maxDist+radius, filter)
	if !ok {
		return physics.Hit{}, false
	}
	hit.Distance -= radius
	return hit, ok
}

func (planeWorld) CollisionMask(layer physics.Layer) physics.LayerMask {
	return physics.MaskAll
}

// demoBody integrates the applied velocity over one tick interval, playing
// the role a physics engine's rigidbody step would.
type demoBody struct {
	pose physics.Pose
	vel  mgl32.Vec3
}

func (b *demoBody) Pose() physics.Pose   { return b.pose }
func (b *demoBody) Velocity() mgl32.Vec3 { return b.vel }
func (b *demoBody) SetVelocity(vel mgl32.Vec3) {
	b.vel = vel
	b.pose.Position = b.pose.Position.Add(vel.Mul(float32(tickInterval.Seconds())))
}
func (b *demoBody) MovePosition(pos mgl32.Vec3)   { b.pose.Position = pos }
func (b *demoBody) SetFreezeRotation(freeze bool) {}
func (b *demoBody) SetGravityEnabled(on bool)     {}

type demoCollider struct {
	layer physics.Layer
}

func (c *demoCollider) Layer() physics.Layer                                 { return c.layer }
func (c *demoCollider) SetLayer(layer physics.Layer)                         { c.layer = layer }
func (c *demoCollider) SetCapsule(radius, height float32, center mgl32.Vec3) {}
func (c *demoCollider) SetBox(halfExtents, center mgl32.Vec3)                {}
func (c *demoCollider) SetSphere(radius float32, center mgl32.Vec3)          {}

func main() {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	body := &demoBody{pose: physics.IdentityPose()}
	ch, err := kine.NewCharacter(planeWorld{}, body, &demoCollider{}, config.Default(), log, kine.CharacterOptions{
		Debugf: log.Debugf,
	})
	if err != nil {
		log.Fatalf("create character: %v", err)
	}

	ch.Events().SubscribeJump(func(m mgl32.Vec3) { log.Infof("jumped with momentum %v", m) })
	ch.Events().SubscribeLand(func(m mgl32.Vec3) { log.Infof("landed with momentum %v", m) })

	// The input script runs the character forward and taps roll once a
	// second in.
	var tick atomic.Int64
	input := func() controller.Input {
		n := tick.Add(1)
		return controller.Input{
			Vertical:    1,
			RollPressed: n == 50,
		}
	}

	zones := zone.NewRegistry()
	driver, err := loop.NewDriver(ch, tickInterval, input, zones.Snapshot, log)
	if err != nil {
		log.Fatalf("create driver: %v", err)
	}

	driver.Start()
	time.Sleep(2 * time.Second)

	// Duck under an obstacle for a second, then stand back up.
	zones.EnterCrouch()
	time.Sleep(time.Second)
	zones.LeaveCrouch()
	time.Sleep(time.Second)

	driver.Stop()
	log.Infof("final state %v at %v", ch.State(), body.pose.Position)
}
