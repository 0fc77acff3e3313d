package mapper

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// CameraPlacement is the rigid transform (no scale) that places the sensor
// in world space. Rotation must be a unit quaternion.
type CameraPlacement struct {
	Translation r3.Vec
	Rotation    quat.Number
}

// Identity returns a placement at the world origin with no rotation.
func Identity() CameraPlacement {
	return CameraPlacement{Rotation: quat.Number{Real: 1}}
}

// PlacementFromEuler builds a placement from a translation and right-handed
// rotations in radians: roll about X, pitch about Y, yaw about Z (up),
// applied roll first and yaw last.
func PlacementFromEuler(translation r3.Vec, roll, pitch, yaw float64) CameraPlacement {
	qRoll := quat.Number(r3.NewRotation(roll, r3.Vec{X: 1}))
	qPitch := quat.Number(r3.NewRotation(pitch, r3.Vec{Y: 1}))
	qYaw := quat.Number(r3.NewRotation(yaw, r3.Vec{Z: 1}))

	q := quat.Mul(qYaw, quat.Mul(qPitch, qRoll))
	return CameraPlacement{
		Translation: translation,
		Rotation:    normalize(q),
	}
}

// TransformPosition maps a point from sensor-local axes into world space.
func (c CameraPlacement) TransformPosition(p r3.Vec) r3.Vec {
	return r3.Add(c.TransformDirection(p), c.Translation)
}

// InverseTransformPosition maps a world point back into sensor-local axes.
func (c CameraPlacement) InverseTransformPosition(p r3.Vec) r3.Vec {
	inv := r3.Rotation(quat.Conj(c.rotation()))
	return inv.Rotate(r3.Sub(p, c.Translation))
}

// TransformDirection rotates a direction into world space, ignoring translation.
func (c CameraPlacement) TransformDirection(v r3.Vec) r3.Vec {
	return r3.Rotation(c.rotation()).Rotate(v)
}

// rotation treats the zero value as identity so an unset placement is usable.
func (c CameraPlacement) rotation() quat.Number {
	if c.Rotation == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return c.Rotation
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}
