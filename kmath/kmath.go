package kmath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon below which vector magnitudes are treated as zero.
const Epsilon = 1e-5

// Clamp clamps the given value to the given range.
func Clamp(num, min, max float32) float32 {
	if num < min {
		return min
	}
	return math32.Min(num, max)
}

// IsZeroVec reports whether the vector's magnitude is negligible.
func IsZeroVec(v mgl32.Vec3) bool {
	return v.LenSqr() < Epsilon*Epsilon
}

// ExtractDotVector returns the component of v pointing along the unit
// direction dir.
func ExtractDotVector(v, dir mgl32.Vec3) mgl32.Vec3 {
	return dir.Mul(v.Dot(dir))
}

// RemoveDotVector returns v with its component along the unit direction dir
// removed.
func RemoveDotVector(v, dir mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(ExtractDotVector(v, dir))
}

// ProjectOntoPlane projects v onto the plane described by the unit normal.
func ProjectOntoPlane(v, normal mgl32.Vec3) mgl32.Vec3 {
	return RemoveDotVector(v, normal)
}

// Angle returns the unsigned angle between two vectors in degrees. Zero-length
// inputs yield zero.
func Angle(a, b mgl32.Vec3) float32 {
	d := a.Len() * b.Len()
	if d < Epsilon {
		return 0
	}
	cos := Clamp(a.Dot(b)/d, -1, 1)
	return math32.Acos(cos) * 180 / math32.Pi
}

// DecayToZero shrinks v exponentially toward zero at the given rate over one
// step of dt seconds.
func DecayToZero(v mgl32.Vec3, rate, dt float32) mgl32.Vec3 {
	f := Clamp(rate*dt, 0, 1)
	return v.Mul(1 - f)
}

// IncrementTowards moves v toward target by at most speed*dt, without
// overshooting.
func IncrementTowards(v, target mgl32.Vec3, speed, dt float32) mgl32.Vec3 {
	delta := target.Sub(v)
	dist := delta.Len()
	step := speed * dt
	if dist <= step || dist < Epsilon {
		return target
	}
	return v.Add(delta.Mul(step / dist))
}

// ClampMagnitude limits the magnitude of v to max.
func ClampMagnitude(v mgl32.Vec3, max float32) mgl32.Vec3 {
	lenSqr := v.LenSqr()
	if lenSqr <= max*max || lenSqr < Epsilon*Epsilon {
		return v
	}
	return v.Mul(max / math32.Sqrt(lenSqr))
}

// SafeNormalize normalizes v, returning the zero vector for negligible input
// instead of NaN components.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
