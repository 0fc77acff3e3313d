// Package tracking ties a body-tracking frame source to active-body
// selection and skeleton mapping.
package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-bodytrack/internal/log"
	"github.com/teslashibe/go-bodytrack/pkg/mapper"
	"github.com/teslashibe/go-bodytrack/pkg/metrics"
	"github.com/teslashibe/go-bodytrack/pkg/selector"
	"github.com/teslashibe/go-bodytrack/pkg/skeleton"
)

// ActiveChanged is published whenever the tracker's active body changes.
type ActiveChanged struct {
	Old     int
	New     int
	At      time.Time
	Session string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the tracker's logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

type listener struct {
	id int
	fn func(ActiveChanged)
}

// Tracker selects the active body from each frame and maps skeletons on
// demand. All methods are safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	config   Config
	selector *selector.Selector
	logger   *slog.Logger
	metrics  *metrics.Metrics

	session   string
	frame     Frame
	activeID  int
	closestID int

	listeners  []listener
	nextListen int
}

// New creates a tracker.
func New(config Config, opts ...Option) *Tracker {
	t := &Tracker{
		config:    config,
		selector:  selector.New(config.Selector),
		session:   uuid.NewString(),
		activeID:  selector.NoBody,
		closestID: selector.NoBody,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.L()
	}
	t.logger = t.logger.With("component", "tracker")

	t.selector.Subscribe(func(oldID, newID int) {
		t.logger.Debug("selector changed", "old", oldID, "new", newID, "mode", t.config.Mode.String())
	})

	t.logger.Info("tracker created",
		"session", t.session,
		"mode", config.Mode.String(),
		"above_head_margin_mm", config.Selector.AboveHeadMarginMM,
		"raise_hold", config.Selector.RaiseHold,
		"sticky", config.Selector.Sticky,
	)
	return t
}

// OnActiveChanged registers fn for active-body changes. fn runs on the
// goroutine that called Process or Reset, after the tracker lock is released.
func (t *Tracker) OnActiveChanged(fn func(ActiveChanged)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextListen
	t.nextListen++
	t.listeners = append(t.listeners, listener{id: id, fn: fn})

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		kept := make([]listener, 0, len(t.listeners))
		for _, l := range t.listeners {
			if l.id != id {
				kept = append(kept, l)
			}
		}
		t.listeners = kept
	}
}

// Process ingests one frame and returns the active body id (selector.NoBody
// when none).
func (t *Tracker) Process(frame Frame) int {
	t.mu.Lock()

	t.frame = frame
	closest := selector.ClosestID(frame.roots())
	t.closestID = closest

	var (
		next   int
		policy string
	)
	switch t.config.Mode {
	case ModeWaveLastRaised:
		next, _ = t.selector.UpdateWaveLastRaised(frame.raiseSamples(), frame.Timestamp)
		policy = "wave"
		if next == selector.NoBody {
			next = closest
			policy = "closest_fallback"
		}
	default:
		next, _ = t.selector.UpdateClosest(closest)
		policy = "closest"
	}
	if next == selector.NoBody {
		policy = ""
	}

	event, changed := t.setActiveLocked(next, frame.Timestamp)
	listeners := t.listeners
	t.metrics.ObserveFrame(len(frame.Bodies), next, policy)
	t.mu.Unlock()

	t.logger.Debug("frame processed",
		"bodies", len(frame.Bodies),
		"closest", closest,
		"active", next,
		"policy", policy,
	)
	if changed {
		t.publish(listeners, event)
	}
	return next
}

// setActiveLocked must be called with t.mu held.
func (t *Tracker) setActiveLocked(id int, at time.Time) (ActiveChanged, bool) {
	if id == t.activeID {
		return ActiveChanged{}, false
	}
	event := ActiveChanged{Old: t.activeID, New: id, At: at, Session: t.session}
	t.activeID = id
	t.metrics.ObserveActiveChange()
	return event, true
}

func (t *Tracker) publish(listeners []listener, event ActiveChanged) {
	t.logger.Info("active body changed", "old", event.Old, "new", event.New, "session", event.Session)
	for _, l := range listeners {
		l.fn(event)
	}
}

// Run processes frames until ctx is cancelled or frames is closed.
func (t *Tracker) Run(ctx context.Context, frames <-chan Frame) error {
	t.logger.Info("tracker started", "mode", t.Mode().String(), "session", t.Session())

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("tracker stopped", "reason", ctx.Err())
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				t.logger.Info("tracker stopped", "reason", "frame source closed")
				return nil
			}
			t.Process(frame)
		}
	}
}

// Reset clears all selection state and starts a new session.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.selector.Reset()
	t.frame = Frame{}
	t.closestID = selector.NoBody
	t.session = uuid.NewString()
	event, changed := t.setActiveLocked(selector.NoBody, time.Now())
	listeners := t.listeners
	session := t.session
	t.mu.Unlock()

	t.logger.Info("tracker reset", "session", session)
	if changed {
		t.publish(listeners, event)
	}
}

// SetMode switches the selection policy. Gesture state is cleared so the
// wave policy always starts fresh; the active body is re-evaluated on the
// next frame.
func (t *Tracker) SetMode(mode Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if mode == t.config.Mode {
		return
	}
	t.config.Mode = mode
	t.selector.Reset()
	t.logger.Info("selection mode changed", "mode", mode.String())
}

// Configure replaces the gesture thresholds.
func (t *Tracker) Configure(cfg selector.Config) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config.Selector = cfg
	t.selector.Configure(cfg)
}

// SetPlacement updates where the sensor sits in the world.
func (t *Tracker) SetPlacement(p mapper.CameraPlacement) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config.Placement = p
}

// Mode returns the current selection policy.
func (t *Tracker) Mode() Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.config.Mode
}

// Config returns a copy of the current configuration.
func (t *Tracker) Config() Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.config
}

// Session returns the id of the current tracking session.
func (t *Tracker) Session() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session
}

// ActiveID returns the active body id or selector.NoBody.
func (t *Tracker) ActiveID() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeID
}

// HasActive reports whether any body is active.
func (t *Tracker) HasActive() bool {
	return t.ActiveID() != selector.NoBody
}

// ClosestID returns the body nearest the sensor in the latest frame.
func (t *Tracker) ClosestID() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closestID
}

// TrackedBodyCount returns the number of bodies in the latest frame.
func (t *Tracker) TrackedBodyCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.frame.Bodies)
}

// ActiveSkeleton maps the active body's skeleton into world space.
func (t *Tracker) ActiveSkeleton() ([]skeleton.JointData, error) {
	t.mu.RLock()
	id := t.activeID
	t.mu.RUnlock()

	if id == selector.NoBody {
		return nil, ErrNoActiveBody
	}
	return t.SkeletonByID(id)
}

// SkeletonByID maps the skeleton of body id from the latest frame.
func (t *Tracker) SkeletonByID(id int) ([]skeleton.JointData, error) {
	t.mu.RLock()
	body, ok := t.frame.body(id)
	m := t.config.Mapper
	placement := t.config.Placement
	t.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("body %d: %w", id, ErrBodyNotFound)
	}

	joints, err := m.MapSkeleton(body.Joints, placement)
	if err != nil {
		t.metrics.ObserveMapError()
		t.logger.Warn("skeleton rejected", "body", id, "error", err)
		return nil, fmt.Errorf("body %d: %w", id, err)
	}
	return joints, nil
}

// ActiveLookTarget computes where an avatar at avatarHead should look, seen
// through camera, so that it faces the active body's head.
func (t *Tracker) ActiveLookTarget(camera mapper.CameraPlacement, avatarHead r3.Vec, aimDistance float64) (r3.Vec, error) {
	t.mu.RLock()
	id := t.activeID
	body, ok := t.frame.body(id)
	m := t.config.Mapper
	sensor := t.config.Placement
	t.mu.RUnlock()

	if id == selector.NoBody {
		return r3.Vec{}, ErrNoActiveBody
	}
	if !ok {
		return r3.Vec{}, fmt.Errorf("body %d: %w", id, ErrBodyNotFound)
	}
	head, ok := body.JointPosition(skeleton.Head)
	if !ok {
		return r3.Vec{}, fmt.Errorf("body %d head: %w", id, mapper.ErrIncompleteSkeleton)
	}
	return m.LookTarget(head, sensor, camera, avatarHead, aimDistance), nil
}
