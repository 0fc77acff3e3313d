// bodytrack-replay feeds recorded body-tracking frames through the tracker.
//
// Input is one protocol message per line (stdin or -in). Active-body changes,
// and optionally the active skeleton and look target, are written to stdout
// as protocol messages. Logs go to stderr.
//
// Usage:
//
//	BODYTRACK_SELECTION_MODE=wave bodytrack-replay -in session.jsonl -skeleton
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-bodytrack/internal/config"
	"github.com/teslashibe/go-bodytrack/internal/log"
	"github.com/teslashibe/go-bodytrack/pkg/metrics"
	"github.com/teslashibe/go-bodytrack/pkg/protocol"
	"github.com/teslashibe/go-bodytrack/pkg/tracking"
)

const maxLineBytes = 4 << 20

func main() {
	in := flag.String("in", "", "Input file of frame messages (default stdin)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	emitSkeleton := flag.Bool("skeleton", false, "Emit the active skeleton after every frame")
	emitLook := flag.Bool("look", false, "Emit the active look target after every frame")
	aimDistance := flag.Float64("aim-distance", 100, "Look target distance from the avatar head, in world units")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	level := cfg.LogLevel
	if *debug {
		level = "debug"
	}
	logger := log.New(os.Stderr, level)
	slog.SetDefault(logger)

	trackingCfg, err := cfg.TrackingConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	input := io.Reader(os.Stdin)
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			logger.Error("open input", "path", *in, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		input = f
	}

	m := metrics.New(prometheus.NewRegistry())
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			logger.Info("serving metrics", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := &replayer{
		tracker:      tracking.New(trackingCfg, tracking.WithLogger(logger), tracking.WithMetrics(m)),
		out:          bufio.NewWriter(os.Stdout),
		logger:       logger,
		emitSkeleton: *emitSkeleton,
		emitLook:     *emitLook,
		aimDistance:  *aimDistance,
	}
	err = r.run(ctx, input)
	if errors.Is(err, context.Canceled) {
		err = r.flush()
	}
	if err != nil {
		logger.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

type replayer struct {
	tracker *tracking.Tracker
	logger  *slog.Logger

	mu       sync.Mutex
	out      *bufio.Writer
	writeErr error

	emitSkeleton bool
	emitLook     bool
	aimDistance  float64
}

func (r *replayer) run(ctx context.Context, input io.Reader) error {
	unsubscribe := r.tracker.OnActiveChanged(func(e tracking.ActiveChanged) {
		msg, err := protocol.NewActiveMessage(e)
		if err != nil {
			r.logger.Warn("encode active change", "error", err)
			return
		}
		r.write(msg)
	})
	defer unsubscribe()

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	frames, skipped, line := 0, 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		msg, err := protocol.ParseMessage(scanner.Bytes())
		if err != nil {
			skipped++
			r.logger.Warn("skipping line", "line", line, "error", err)
			continue
		}
		if msg.Type != protocol.TypeFrame {
			continue
		}
		frame, err := msg.Frame()
		if err != nil {
			skipped++
			r.logger.Warn("skipping frame", "line", line, "error", err)
			continue
		}

		active := r.tracker.Process(frame)
		frames++
		r.emit(frame, active)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	r.logger.Info("replay complete",
		"frames", frames,
		"skipped", skipped,
		"active", r.tracker.ActiveID(),
		"session", r.tracker.Session(),
	)
	return r.flush()
}

func (r *replayer) emit(frame tracking.Frame, active int) {
	if active < 0 {
		return
	}
	if r.emitSkeleton {
		joints, err := r.tracker.ActiveSkeleton()
		if err != nil {
			r.logger.Debug("no active skeleton", "error", err)
		} else if msg, err := protocol.NewSkeletonMessage(frame, active, joints); err != nil {
			r.logger.Debug("encode skeleton", "body", active, "error", err)
		} else {
			r.write(msg)
		}
	}
	if r.emitLook {
		// Avatar and virtual camera share the sensor's world placement.
		target, err := r.tracker.ActiveLookTarget(r.tracker.Config().Placement, r3.Vec{}, r.aimDistance)
		if err != nil {
			r.logger.Debug("no look target", "error", err)
			return
		}
		msg, err := protocol.NewLookMessage(frame, active, target)
		if err != nil {
			r.logger.Debug("encode look target", "body", active, "error", err)
			return
		}
		r.write(msg)
	}
}

func (r *replayer) write(msg *protocol.Message) {
	b, err := msg.Bytes()
	if err != nil {
		r.logger.Warn("encode message", "type", msg.Type, "error", err)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return
	}
	if _, err := r.out.Write(append(b, '\n')); err != nil {
		r.writeErr = err
		r.logger.Error("write output", "type", msg.Type, "error", err)
	}
}

// flush writes any buffered output and reports the first write failure.
func (r *replayer) flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr == nil {
		if err := r.out.Flush(); err != nil {
			r.writeErr = err
			r.logger.Error("write output", "error", err)
		}
	}
	if r.writeErr != nil {
		return fmt.Errorf("write output: %w", r.writeErr)
	}
	return nil
}
