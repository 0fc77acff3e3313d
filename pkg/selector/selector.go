package selector

import (
	"math"
	"sort"
	"time"
)

// ChangeFunc is called with the previous and new active id whenever the
// selection changes.
type ChangeFunc func(oldID, newID int)

type subscriber struct {
	id int
	fn ChangeFunc
}

// Selector maintains per-body gesture state and the active body decision.
type Selector struct {
	config Config
	states map[int]*RaiseState
	active int

	subscribers []subscriber
	nextSubID   int
}

// New creates a Selector with no active body.
func New(config Config) *Selector {
	return &Selector{
		config: config,
		states: make(map[int]*RaiseState),
		active: NoBody,
	}
}

// Configure replaces the thresholds. Retained per-body state is kept.
func (s *Selector) Configure(config Config) {
	s.config = config
}

// Config returns the current thresholds.
func (s *Selector) Config() Config {
	return s.config
}

// Reset forgets every body and clears the active selection.
func (s *Selector) Reset() {
	s.states = make(map[int]*RaiseState)
	s.setActive(NoBody)
}

// Subscribe registers fn for active-change notifications and returns a
// function that removes it.
func (s *Selector) Subscribe(fn ChangeFunc) (unsubscribe func()) {
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		kept := make([]subscriber, 0, len(s.subscribers))
		for _, sub := range s.subscribers {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}
		s.subscribers = kept
	}
}

// ActiveID returns the active body id, or NoBody.
func (s *Selector) ActiveID() int {
	return s.active
}

// HasActive reports whether a body is currently active.
func (s *Selector) HasActive() bool {
	return s.active != NoBody
}

// State returns a copy of the retained state for id.
func (s *Selector) State(id int) (RaiseState, bool) {
	st, ok := s.states[id]
	if !ok {
		return RaiseState{}, false
	}
	return *st, true
}

// TrackedIDs returns the ids with retained state, ascending.
func (s *Selector) TrackedIDs() []int {
	ids := make([]int, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// UpdateClosest makes closestID the active body verbatim. Any negative id
// means no body.
func (s *Selector) UpdateClosest(closestID int) (active int, changed bool) {
	if closestID < 0 {
		closestID = NoBody
	}
	changed = s.setActive(closestID)
	return s.active, changed
}

// UpdateClosestFrom picks the body nearest the sensor and makes it active.
func (s *Selector) UpdateClosestFrom(roots []RootSample) (active int, changed bool) {
	return s.UpdateClosest(ClosestID(roots))
}

// UpdateWaveLastRaised runs the hand-above-head policy over one frame of
// samples. Samples are processed in order and the last body that raised
// (or is still holding) a hand wins the frame.
func (s *Selector) UpdateWaveLastRaised(samples []BodySample, now time.Time) (active int, changed bool) {
	next := s.active
	seen := make(map[int]struct{}, len(samples))

	for _, b := range samples {
		if b.ID < 0 {
			continue
		}
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}

		// Sensor +Y is down: a raised hand has a smaller Y than the head.
		leftAbove := (b.HeadY - b.LeftHandY) > s.config.AboveHeadMarginMM
		rightAbove := (b.HeadY - b.RightHandY) > s.config.AboveHeadMarginMM

		st, ok := s.states[b.ID]
		if !ok {
			st = &RaiseState{}
			s.states[b.ID] = st
		}

		leftRising := !st.LeftAboveHead && leftAbove
		rightRising := !st.RightAboveHead && rightAbove
		rising := leftRising || rightRising
		if rising {
			st.Raised = true
			st.LastRaiseEdgeAt = now
		}

		st.LeftAboveHead = leftAbove
		st.RightAboveHead = rightAbove
		st.LastSeenAt = now

		held := (leftAbove || rightAbove) && s.sinceRaise(st, now) >= s.config.RaiseHold
		if rising || held {
			next = b.ID
		}
	}

	// Drop the active body once it is stale or its state has been pruned.
	if next != NoBody {
		st, ok := s.states[next]
		if !ok || now.Sub(st.LastSeenAt) > s.config.Sticky {
			next = NoBody
		}
	}

	for id, st := range s.states {
		if now.Sub(st.LastSeenAt) > PruneHorizon {
			delete(s.states, id)
		}
	}

	changed = s.setActive(next)
	return next, changed
}

// sinceRaise is the time since the last rising edge; a body that never
// raised counts as infinitely long ago.
func (s *Selector) sinceRaise(st *RaiseState, now time.Time) time.Duration {
	if !st.Raised {
		return time.Duration(math.MaxInt64)
	}
	return now.Sub(st.LastRaiseEdgeAt)
}

func (s *Selector) setActive(id int) bool {
	old := s.active
	if old == id {
		return false
	}
	s.active = id
	for _, sub := range s.subscribers {
		sub.fn(old, id)
	}
	return true
}
