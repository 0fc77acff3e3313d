package tracking

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-bodytrack/pkg/selector"
	"github.com/teslashibe/go-bodytrack/pkg/skeleton"
)

// Body is one tracked person in a frame, joints in sensor space.
type Body struct {
	ID     int
	Joints []skeleton.JointSample
}

// Frame is one tick of body-tracking output.
type Frame struct {
	Timestamp time.Time
	Bodies    []Body
}

// JointPosition returns the sensor-space position of joint j.
func (b Body) JointPosition(j skeleton.Joint) (r3.Vec, bool) {
	if int(j) < len(b.Joints) && b.Joints[j].Joint == j {
		return b.Joints[j].PositionMM, true
	}
	for _, s := range b.Joints {
		if s.Joint == j {
			return s.PositionMM, true
		}
	}
	return r3.Vec{}, false
}

// raiseSample extracts the head and hand heights the wave policy needs.
func (b Body) raiseSample(at time.Time) (selector.BodySample, bool) {
	head, ok := b.JointPosition(skeleton.Head)
	if !ok {
		return selector.BodySample{}, false
	}
	left, ok := b.JointPosition(skeleton.HandLeft)
	if !ok {
		return selector.BodySample{}, false
	}
	right, ok := b.JointPosition(skeleton.HandRight)
	if !ok {
		return selector.BodySample{}, false
	}
	return selector.BodySample{
		ID:         b.ID,
		HeadY:      head.Y,
		LeftHandY:  left.Y,
		RightHandY: right.Y,
		ObservedAt: at,
	}, true
}

func (f Frame) raiseSamples() []selector.BodySample {
	out := make([]selector.BodySample, 0, len(f.Bodies))
	for _, b := range f.Bodies {
		if s, ok := b.raiseSample(f.Timestamp); ok {
			out = append(out, s)
		}
	}
	return out
}

func (f Frame) roots() []selector.RootSample {
	out := make([]selector.RootSample, 0, len(f.Bodies))
	for _, b := range f.Bodies {
		if p, ok := b.JointPosition(skeleton.Pelvis); ok {
			out = append(out, selector.RootSample{ID: b.ID, PositionMM: p})
		}
	}
	return out
}

func (f Frame) body(id int) (Body, bool) {
	if id < 0 {
		return Body{}, false
	}
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return Body{}, false
}
