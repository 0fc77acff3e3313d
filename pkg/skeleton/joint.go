// Package skeleton defines the body-tracking joint set and the per-joint
// records exchanged between the frame producer, the mapper and consumers.
package skeleton

import (
	"strings"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Joint identifies one skeletal landmark. Values index joint arrays, so the
// order below is part of the data contract.
type Joint uint8

const (
	Pelvis Joint = iota
	SpineNaval
	SpineChest
	Neck
	ClavicleLeft
	ShoulderLeft
	ElbowLeft
	WristLeft
	HandLeft
	HandTipLeft
	ThumbLeft
	ClavicleRight
	ShoulderRight
	ElbowRight
	WristRight
	HandRight
	HandTipRight
	ThumbRight
	HipLeft
	KneeLeft
	AnkleLeft
	FootLeft
	HipRight
	KneeRight
	AnkleRight
	FootRight
	Head
	Nose
	EyeLeft
	EarLeft
	EyeRight
	EarRight

	// JointCount is the number of joints in a full skeleton.
	JointCount = 32
)

var jointNames = [JointCount]string{
	Pelvis:        "Pelvis",
	SpineNaval:    "Spine (Naval)",
	SpineChest:    "Spine (Chest)",
	Neck:          "Neck",
	ClavicleLeft:  "Clavicle Left",
	ShoulderLeft:  "Shoulder Left",
	ElbowLeft:     "Elbow Left",
	WristLeft:     "Wrist Left",
	HandLeft:      "Hand Left",
	HandTipLeft:   "Hand Tip Left",
	ThumbLeft:     "Thumb Left",
	ClavicleRight: "Clavicle Right",
	ShoulderRight: "Shoulder Right",
	ElbowRight:    "Elbow Right",
	WristRight:    "Wrist Right",
	HandRight:     "Hand Right",
	HandTipRight:  "Hand Tip Right",
	ThumbRight:    "Thumb Right",
	HipLeft:       "Hip Left",
	KneeLeft:      "Knee Left",
	AnkleLeft:     "Ankle Left",
	FootLeft:      "Foot Left",
	HipRight:      "Hip Right",
	KneeRight:     "Knee Right",
	AnkleRight:    "Ankle Right",
	FootRight:     "Foot Right",
	Head:          "Head",
	Nose:          "Nose",
	EyeLeft:       "Eye Left",
	EarLeft:       "Ear Left",
	EyeRight:      "Eye Right",
	EarRight:      "Ear Right",
}

// Valid reports whether j is one of the JointCount known joints.
func (j Joint) Valid() bool {
	return int(j) < JointCount
}

// String returns the joint's display name, e.g. "Hand Tip Left".
func (j Joint) String() string {
	if !j.Valid() {
		return "Unknown"
	}
	return jointNames[j]
}

// ParseJoint resolves a display name (case-insensitive) to a Joint.
func ParseJoint(name string) (Joint, bool) {
	for i, n := range jointNames {
		if strings.EqualFold(n, name) {
			return Joint(i), true
		}
	}
	return 0, false
}

// Joints returns every joint in enumeration order.
func Joints() []Joint {
	out := make([]Joint, JointCount)
	for i := range out {
		out[i] = Joint(i)
	}
	return out
}

// JointSample is one raw joint as reported by the body tracker, in sensor
// space: millimeters, sensor axes (+Y down), sensor-local orientation.
type JointSample struct {
	Joint       Joint
	PositionMM  r3.Vec
	Orientation quat.Number
}

// JointData is one joint after mapping into world space.
type JointData struct {
	Joint       Joint
	Name        string
	Position    r3.Vec      // world units (cm by default)
	Orientation quat.Number // world orientation, unit length
}
