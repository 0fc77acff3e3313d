package mapper

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-bodytrack/pkg/skeleton"
)

// rawSkeleton returns a full skeleton with every joint at pos and orientation q.
func rawSkeleton(pos r3.Vec, q quat.Number) []skeleton.JointSample {
	raw := make([]skeleton.JointSample, skeleton.JointCount)
	for i := range raw {
		raw[i] = skeleton.JointSample{
			Joint:       skeleton.Joint(i),
			PositionMM:  pos,
			Orientation: q,
		}
	}
	return raw
}

func TestMapper_SensorToLocal(t *testing.T) {
	m := New()

	tests := []struct {
		name string
		in   r3.Vec
		want r3.Vec
	}{
		{"origin", r3.Vec{}, r3.Vec{}},
		{"one meter ahead", r3.Vec{Z: 1000}, r3.Vec{X: 100}},
		{"mixed", r3.Vec{X: 10, Y: 20, Z: 30}, r3.Vec{X: 3, Y: 1, Z: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.SensorToLocal(tt.in)
			if !vecNear(got, tt.want, tolerance) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapper_UnitScale(t *testing.T) {
	meters := Mapper{UnitScale: 0.001}
	got := meters.SensorToLocal(r3.Vec{Z: 2500})
	if !vecNear(got, r3.Vec{X: 2.5}, tolerance) {
		t.Errorf("got %v, want {2.5 0 0}", got)
	}

	// Zero value falls back to centimeters.
	var zero Mapper
	got = zero.SensorToLocal(r3.Vec{Z: 10})
	if !vecNear(got, r3.Vec{X: 1}, tolerance) {
		t.Errorf("zero Mapper: got %v, want {1 0 0}", got)
	}
}

func TestMapSkeleton_OriginMapsToTranslation(t *testing.T) {
	placement := CameraPlacement{
		Translation: r3.Vec{X: 120, Y: -40, Z: 95},
		Rotation:    quat.Number{Real: 1},
	}

	joints, err := New().MapSkeleton(rawSkeleton(r3.Vec{}, quat.Number{Real: 1}), placement)
	if err != nil {
		t.Fatalf("MapSkeleton: %v", err)
	}
	for _, j := range joints {
		if !vecNear(j.Position, placement.Translation, tolerance) {
			t.Errorf("%s: got %v, want %v", j.Name, j.Position, placement.Translation)
		}
	}
}

func TestMapSkeleton_IdentityOrientation(t *testing.T) {
	joints, err := New().MapSkeleton(rawSkeleton(r3.Vec{}, quat.Number{Real: 1}), Identity())
	if err != nil {
		t.Fatalf("MapSkeleton: %v", err)
	}
	want := LocalOrientation(quat.Number{Real: 1})
	for _, j := range joints {
		if !quatNear(j.Orientation, want, tolerance) {
			t.Errorf("%s: got %v, want %v", j.Name, j.Orientation, want)
		}
	}
}

func TestMapSkeleton_PlacementRotation(t *testing.T) {
	// Yaw 90°: world-local (3,1,2) becomes (-1,3,2) before translation.
	placement := PlacementFromEuler(r3.Vec{X: 10}, 0, 0, math.Pi/2)
	raw := rawSkeleton(r3.Vec{X: 10, Y: 20, Z: 30}, quat.Number{Real: 1})

	joints, err := New().MapSkeleton(raw, placement)
	if err != nil {
		t.Fatalf("MapSkeleton: %v", err)
	}

	want := r3.Vec{X: 9, Y: 3, Z: 2}
	if !vecNear(joints[0].Position, want, 1e-9) {
		t.Errorf("position: got %v, want %v", joints[0].Position, want)
	}
	if !quatNear(joints[0].Orientation, placement.Rotation, 1e-12) {
		t.Errorf("orientation: got %v, want %v", joints[0].Orientation, placement.Rotation)
	}
}

func TestMapSkeleton_FullyPopulatedInOrder(t *testing.T) {
	raw := rawSkeleton(r3.Vec{Z: 1000}, quat.Number{Real: 1})
	got, err := New().MapSkeleton(raw, Identity())
	if err != nil {
		t.Fatalf("MapSkeleton: %v", err)
	}

	want := make([]skeleton.JointData, 0, skeleton.JointCount)
	for _, j := range skeleton.Joints() {
		want = append(want, skeleton.JointData{
			Joint:       j,
			Name:        j.String(),
			Position:    r3.Vec{X: 100},
			Orientation: quat.Number{Real: 1},
		})
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("MapSkeleton mismatch (-want +got):\n%s", diff)
	}
}

func TestMapSkeleton_UnitNorm(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := New()

	for i := 0; i < 200; i++ {
		axis := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		q := quat.Number(r3.NewRotation(rng.Float64()*2*math.Pi, axis))
		placement := PlacementFromEuler(
			r3.Vec{X: rng.Float64() * 100},
			rng.Float64()*math.Pi, rng.Float64()*math.Pi, rng.Float64()*2*math.Pi,
		)

		joints, err := m.MapSkeleton(rawSkeleton(r3.Vec{X: 1, Y: 2, Z: 3}, q), placement)
		if err != nil {
			t.Fatalf("MapSkeleton: %v", err)
		}
		for _, j := range joints {
			if n := quat.Abs(j.Orientation); math.Abs(n-1) > 1e-5 {
				t.Fatalf("iteration %d, %s: norm %v", i, j.Name, n)
			}
		}
	}
}

func TestMapSkeleton_Errors(t *testing.T) {
	full := rawSkeleton(r3.Vec{}, quat.Number{Real: 1})

	swapped := rawSkeleton(r3.Vec{}, quat.Number{Real: 1})
	swapped[3], swapped[4] = swapped[4], swapped[3]

	zeroOrientation := rawSkeleton(r3.Vec{}, quat.Number{Real: 1})
	zeroOrientation[skeleton.Head].Orientation = quat.Number{}

	nanOrientation := rawSkeleton(r3.Vec{}, quat.Number{Real: 1})
	nanOrientation[skeleton.Nose].Orientation = quat.Number{Real: math.NaN()}

	tests := []struct {
		name string
		raw  []skeleton.JointSample
		want error
	}{
		{"nil", nil, ErrIncompleteSkeleton},
		{"missing last joint", full[:skeleton.JointCount-1], ErrIncompleteSkeleton},
		{"extra joint", append(rawSkeleton(r3.Vec{}, quat.Number{Real: 1}), full[0]), ErrIncompleteSkeleton},
		{"out of order", swapped, ErrIncompleteSkeleton},
		{"zero orientation", zeroOrientation, ErrInvalidOrientation},
		{"nan orientation", nanOrientation, ErrInvalidOrientation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joints, err := New().MapSkeleton(tt.raw, Identity())
			if !errors.Is(err, tt.want) {
				t.Fatalf("error: got %v, want %v", err, tt.want)
			}
			if joints != nil {
				t.Errorf("expected no joints on error, got %d", len(joints))
			}
		})
	}
}

func TestCameraPlacement_InverseRoundTrip(t *testing.T) {
	placement := PlacementFromEuler(r3.Vec{X: 5, Y: -3, Z: 12}, 0.3, -0.4, 1.1)
	p := r3.Vec{X: 7, Y: 8, Z: -9}

	back := placement.InverseTransformPosition(placement.TransformPosition(p))
	if !vecNear(back, p, 1e-9) {
		t.Errorf("round trip: got %v, want %v", back, p)
	}
}

func TestCameraPlacement_ZeroValueIsIdentity(t *testing.T) {
	var placement CameraPlacement
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	if got := placement.TransformPosition(p); !vecNear(got, p, tolerance) {
		t.Errorf("got %v, want %v", got, p)
	}
}
