// Package selector decides which tracked body is the active subject.
//
// Two policies are available: Closest, which takes the body nearest the
// sensor, and WaveLastRaised, where the last person to raise a hand above
// their head takes over. The Selector is not safe for concurrent use;
// callers tick it once per frame from a single goroutine.
package selector

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoBody is the active id when no body is selected.
const NoBody = -1

// BodySample is the per-frame input for the wave policy. Y values are in
// millimeters in sensor space, where +Y points down.
type BodySample struct {
	ID         int
	HeadY      float64
	LeftHandY  float64
	RightHandY float64
	ObservedAt time.Time
}

// RaiseState is the retained gesture state for one body.
type RaiseState struct {
	LeftAboveHead  bool
	RightAboveHead bool
	LastSeenAt     time.Time
	// Raised is set by the first rising edge; LastRaiseEdgeAt is only
	// meaningful once it is.
	Raised          bool
	LastRaiseEdgeAt time.Time
}

// RootSample is a body's root joint (pelvis) position in sensor space.
type RootSample struct {
	ID         int
	PositionMM r3.Vec
}

// ClosestID returns the id whose root is nearest the sensor origin, or
// NoBody. The first body wins a tie; negative ids are ignored.
func ClosestID(roots []RootSample) int {
	best := NoBody
	bestDist := 0.0

	for _, r := range roots {
		if r.ID < 0 {
			continue
		}
		d := r3.Norm2(r.PositionMM)
		if best == NoBody || d < bestDist {
			best = r.ID
			bestDist = d
		}
	}
	return best
}
