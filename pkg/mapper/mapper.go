// Package mapper converts body-tracker skeletons from sensor space into the
// consuming application's world space.
package mapper

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-bodytrack/pkg/skeleton"
)

// MillimetersToCentimeters is the default sensor-to-world length scale.
const MillimetersToCentimeters = 0.1

// Mapper remaps skeletons. It holds no per-call state and is safe to share.
type Mapper struct {
	// UnitScale converts sensor millimeters to world units.
	UnitScale float64
}

// New returns a Mapper producing centimeters.
func New() Mapper {
	return Mapper{UnitScale: MillimetersToCentimeters}
}

func (m Mapper) scale() float64 {
	if m.UnitScale == 0 {
		return MillimetersToCentimeters
	}
	return m.UnitScale
}

// SensorToLocal converts a sensor-space point in millimeters to world-local
// axes and units, before the camera placement is applied.
func (m Mapper) SensorToLocal(pMM r3.Vec) r3.Vec {
	return applyMatrix(remapMatrix, r3.Scale(m.scale(), pMM))
}

// LocalOrientation re-expresses a sensor-local orientation in world-local
// axes by conjugating with the remap rotation.
func LocalOrientation(q quat.Number) quat.Number {
	return quat.Mul(quat.Mul(remapRotation, q), quat.Conj(remapRotation))
}

// MapSkeleton converts a full raw skeleton into world space. raw must contain
// exactly skeleton.JointCount samples in enumeration order; otherwise nothing
// is returned.
func (m Mapper) MapSkeleton(raw []skeleton.JointSample, placement CameraPlacement) ([]skeleton.JointData, error) {
	if len(raw) != skeleton.JointCount {
		return nil, fmt.Errorf("%w: got %d joints, want %d", ErrIncompleteSkeleton, len(raw), skeleton.JointCount)
	}

	world := placement.rotation()
	out := make([]skeleton.JointData, 0, skeleton.JointCount)

	for i, src := range raw {
		joint := skeleton.Joint(i)
		if src.Joint != joint {
			return nil, fmt.Errorf("%w: index %d holds %s", ErrIncompleteSkeleton, i, src.Joint)
		}
		if !validOrientation(src.Orientation) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOrientation, joint)
		}

		out = append(out, skeleton.JointData{
			Joint:       joint,
			Name:        joint.String(),
			Position:    placement.TransformPosition(m.SensorToLocal(src.PositionMM)),
			Orientation: quat.Mul(world, LocalOrientation(src.Orientation)),
		})
	}

	return out, nil
}

func validOrientation(q quat.Number) bool {
	n := quat.Abs(q)
	return n > 0 && !math.IsNaN(n) && !math.IsInf(n, 0)
}
