package selector

import "time"

// PruneHorizon is how long a body may go unseen before its retained state
// is dropped. It is independent of Config.Sticky.
const PruneHorizon = 5 * time.Second

// Config holds the gesture thresholds for the wave policy.
type Config struct {
	// AboveHeadMarginMM is how far (mm) a hand must be above the head to
	// count as raised.
	AboveHeadMarginMM float64

	// RaiseHold is how long after a rising edge a still-raised hand keeps
	// re-asserting the body as active.
	RaiseHold time.Duration

	// Sticky is how long the active body may go unseen before it is dropped.
	Sticky time.Duration
}

// DefaultConfig returns the standard gesture thresholds.
func DefaultConfig() Config {
	return Config{
		AboveHeadMarginMM: 120, // ~12 cm
		RaiseHold:         150 * time.Millisecond,
		Sticky:            2 * time.Second,
	}
}
