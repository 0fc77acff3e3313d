package mapper

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sensor axes: +X right, +Y down, +Z away from the sensor.
// World-local axes: +X forward, +Y right, +Z up.
//
// world.X = sensor.Z, world.Y = sensor.X, world.Z = sensor.Y
var remapMatrix = [3][3]float64{
	{0, 0, 1},
	{1, 0, 0},
	{0, 1, 0},
}

// remapRotation is the quaternion of remapMatrix, a 120° turn about (1,1,1).
var remapRotation = mustRotation(remapMatrix)

// RemapMatrix returns the fixed sensor-to-world axis permutation.
func RemapMatrix() [3][3]float64 {
	return remapMatrix
}

// RemapRotation returns the quaternion equivalent of RemapMatrix.
func RemapRotation() quat.Number {
	return remapRotation
}

func applyMatrix(m [3][3]float64, p r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z,
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z,
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z,
	}
}

func determinant(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// mustRotation converts a proper rotation matrix to a unit quaternion.
// A reflection (det -1) has no quaternion and would mirror every
// orientation, so it panics.
func mustRotation(m [3][3]float64) quat.Number {
	if d := determinant(m); math.Abs(d-1) > 1e-9 {
		panic(fmt.Sprintf("mapper: remap matrix is not a proper rotation (det=%g)", d))
	}

	var q quat.Number
	trace := m[0][0] + m[1][1] + m[2][2]
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(1+trace)
		q = quat.Number{
			Real: s / 4,
			Imag: (m[2][1] - m[1][2]) / s,
			Jmag: (m[0][2] - m[2][0]) / s,
			Kmag: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		q = quat.Number{
			Real: (m[2][1] - m[1][2]) / s,
			Imag: s / 4,
			Jmag: (m[0][1] + m[1][0]) / s,
			Kmag: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		q = quat.Number{
			Real: (m[0][2] - m[2][0]) / s,
			Imag: (m[0][1] + m[1][0]) / s,
			Jmag: s / 4,
			Kmag: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		q = quat.Number{
			Real: (m[1][0] - m[0][1]) / s,
			Imag: (m[0][2] + m[2][0]) / s,
			Jmag: (m[1][2] + m[2][1]) / s,
			Kmag: s / 4,
		}
	}
	return normalize(q)
}
