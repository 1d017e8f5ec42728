package controller

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kinemotion/kine/config"
	"github.com/kinemotion/kine/kmath"
	"github.com/sirupsen/logrus"
)

// ceilingDetector classifies overhead collision contacts as ceiling hits. A
// contact counts when its normal points down the character's up axis within
// the configured angle limit.
type ceilingDetector struct {
	method     config.CeilingDetection
	angleLimit float32
	log        *logrus.Logger

	warned bool
	hit    bool
}

func newCeilingDetector(method config.CeilingDetection, angleLimit float32, log *logrus.Logger) *ceilingDetector {
	return &ceilingDetector{method: method, angleLimit: angleLimit, log: log}
}

// process feeds one tick's contact set into the detector. The hit flag stays
// latched until consumed.
func (d *ceilingDetector) process(contacts []mgl32.Vec3, up mgl32.Vec3) {
	if len(contacts) == 0 {
		return
	}

	switch d.method {
	case config.CeilingFirstContact:
		if d.isCeiling(contacts[0], up) {
			d.hit = true
		}
	case config.CeilingAllContacts:
		for _, normal := range contacts {
			if d.isCeiling(normal, up) {
				d.hit = true
				return
			}
		}
	case config.CeilingAveraged:
		var sum mgl32.Vec3
		for _, normal := range contacts {
			sum = sum.Add(normal)
		}
		if d.isCeiling(kmath.SafeNormalize(sum), up) {
			d.hit = true
		}
	default:
		// Unsupported method resolves to "no ceiling detected" so one bad
		// configuration value cannot stop the simulation.
		if !d.warned {
			d.warned = true
			if d.log != nil {
				d.log.Warnf("controller: unknown ceiling detection method %q, ceiling hits disabled", d.method)
			}
		}
	}
}

func (d *ceilingDetector) isCeiling(normal, up mgl32.Vec3) bool {
	return kmath.Angle(normal, up.Mul(-1)) < d.angleLimit
}

// wasHit reports the latched ceiling flag; reset clears it at tick end.
func (d *ceilingDetector) wasHit() bool {
	return d.hit
}

func (d *ceilingDetector) reset() {
	d.hit = false
}
