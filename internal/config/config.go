// Package config loads go-bodytrack settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-bodytrack/pkg/mapper"
	"github.com/teslashibe/go-bodytrack/pkg/selector"
	"github.com/teslashibe/go-bodytrack/pkg/tracking"
)

// Tracking is the environment-driven tracker configuration. Camera
// position is in world units, angles are in degrees.
type Tracking struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	SelectionMode     string        `env:"BODYTRACK_SELECTION_MODE" envDefault:"closest"`
	AboveHeadMarginMM float64       `env:"BODYTRACK_ABOVE_HEAD_MARGIN_MM" envDefault:"120"`
	RaiseHold         time.Duration `env:"BODYTRACK_RAISE_HOLD" envDefault:"150ms"`
	Sticky            time.Duration `env:"BODYTRACK_STICKY" envDefault:"2s"`

	CameraX     float64 `env:"BODYTRACK_CAMERA_X" envDefault:"0"`
	CameraY     float64 `env:"BODYTRACK_CAMERA_Y" envDefault:"0"`
	CameraZ     float64 `env:"BODYTRACK_CAMERA_Z" envDefault:"0"`
	CameraRoll  float64 `env:"BODYTRACK_CAMERA_ROLL" envDefault:"0"`
	CameraPitch float64 `env:"BODYTRACK_CAMERA_PITCH" envDefault:"0"`
	CameraYaw   float64 `env:"BODYTRACK_CAMERA_YAW" envDefault:"0"`
}

// Load reads Tracking from the environment.
func Load() (Tracking, error) {
	var cfg Tracking
	if err := env.Parse(&cfg); err != nil {
		return Tracking{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Placement returns the sensor placement described by the camera fields.
func (c Tracking) Placement() mapper.CameraPlacement {
	return mapper.PlacementFromEuler(
		r3.Vec{X: c.CameraX, Y: c.CameraY, Z: c.CameraZ},
		mapper.Radians(c.CameraRoll),
		mapper.Radians(c.CameraPitch),
		mapper.Radians(c.CameraYaw),
	)
}

// TrackingConfig converts the environment settings into a tracker config.
func (c Tracking) TrackingConfig() (tracking.Config, error) {
	mode, err := tracking.ParseMode(c.SelectionMode)
	if err != nil {
		return tracking.Config{}, fmt.Errorf("BODYTRACK_SELECTION_MODE: %w", err)
	}
	if c.AboveHeadMarginMM < 0 {
		return tracking.Config{}, fmt.Errorf("BODYTRACK_ABOVE_HEAD_MARGIN_MM must not be negative, got %v", c.AboveHeadMarginMM)
	}
	if c.RaiseHold < 0 || c.Sticky < 0 {
		return tracking.Config{}, fmt.Errorf("durations must not be negative (raise hold %v, sticky %v)", c.RaiseHold, c.Sticky)
	}

	cfg := tracking.DefaultConfig()
	cfg.Mode = mode
	cfg.Selector = selector.Config{
		AboveHeadMarginMM: c.AboveHeadMarginMM,
		RaiseHold:         c.RaiseHold,
		Sticky:            c.Sticky,
	}
	cfg.Placement = c.Placement()
	return cfg, nil
}
