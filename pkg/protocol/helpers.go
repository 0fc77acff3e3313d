package protocol

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-bodytrack/pkg/skeleton"
	"github.com/teslashibe/go-bodytrack/pkg/tracking"
)

// =============================================================================
// Conversions between wire and tracker types
// =============================================================================

// Frame converts a frame message into a tracker frame.
func (m *Message) Frame() (tracking.Frame, error) {
	if m.Type != TypeFrame {
		return tracking.Frame{}, fmt.Errorf("expected %q message, got %q", TypeFrame, m.Type)
	}
	var data FrameData
	if err := m.ParseData(&data); err != nil {
		return tracking.Frame{}, fmt.Errorf("failed to parse frame: %w", err)
	}

	frame := tracking.Frame{
		Timestamp: m.Time(),
		Bodies:    make([]tracking.Body, 0, len(data.Bodies)),
	}
	for _, b := range data.Bodies {
		body := tracking.Body{ID: b.ID, Joints: make([]skeleton.JointSample, 0, len(b.Joints))}
		for i, j := range b.Joints {
			joint := skeleton.Joint(i)
			if j.Name != "" {
				var ok bool
				if joint, ok = skeleton.ParseJoint(j.Name); !ok {
					return tracking.Frame{}, fmt.Errorf("body %d: unknown joint %q", b.ID, j.Name)
				}
			}
			body.Joints = append(body.Joints, skeleton.JointSample{
				Joint:       joint,
				PositionMM:  vec(j.Position),
				Orientation: number(j.Rotation),
			})
		}
		frame.Bodies = append(frame.Bodies, body)
	}
	return frame, nil
}

// NewFrameMessage creates a frame message from a tracker frame
func NewFrameMessage(f tracking.Frame) (*Message, error) {
	data := FrameData{Bodies: make([]BodyData, 0, len(f.Bodies))}
	for _, b := range f.Bodies {
		body := BodyData{ID: b.ID, Joints: make([]JointData, 0, len(b.Joints))}
		for _, j := range b.Joints {
			body.Joints = append(body.Joints, JointData{
				Name:     j.Joint.String(),
				Position: array3(j.PositionMM),
				Rotation: array4(j.Orientation),
			})
		}
		data.Bodies = append(data.Bodies, body)
	}
	return NewMessage(TypeFrame, f.Timestamp, data)
}

// NewActiveMessage creates an active-body change message
func NewActiveMessage(e tracking.ActiveChanged) (*Message, error) {
	return NewMessage(TypeActive, e.At, ActiveData{
		Old:     e.Old,
		New:     e.New,
		Session: e.Session,
	})
}

// NewSkeletonMessage creates a skeleton message from mapped joints
func NewSkeletonMessage(f tracking.Frame, bodyID int, joints []skeleton.JointData) (*Message, error) {
	data := SkeletonData{BodyID: bodyID, Joints: make([]JointData, 0, len(joints))}
	for _, j := range joints {
		data.Joints = append(data.Joints, JointData{
			Name:     j.Name,
			Position: array3(j.Position),
			Rotation: array4(j.Orientation),
		})
	}
	return NewMessage(TypeSkeleton, f.Timestamp, data)
}

// NewLookMessage creates a look-target message
func NewLookMessage(f tracking.Frame, bodyID int, target r3.Vec) (*Message, error) {
	return NewMessage(TypeLook, f.Timestamp, LookData{BodyID: bodyID, Target: array3(target)})
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func number(a [4]float64) quat.Number {
	return quat.Number{Real: a[0], Imag: a[1], Jmag: a[2], Kmag: a[3]}
}

func array3(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func array4(q quat.Number) [4]float64 {
	return [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag}
}
