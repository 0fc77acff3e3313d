package tracking

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-bodytrack/pkg/mapper"
	"github.com/teslashibe/go-bodytrack/pkg/selector"
)

// Mode chooses how the active body is selected.
type Mode int

const (
	// ModeClosest selects the body nearest the sensor.
	ModeClosest Mode = iota
	// ModeWaveLastRaised selects the last body to raise a hand above its
	// head, falling back to the closest body when nobody has.
	ModeWaveLastRaised
)

func (m Mode) String() string {
	switch m {
	case ModeClosest:
		return "closest"
	case ModeWaveLastRaised:
		return "wave"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "closest" or "wave" (also "wave_last_raised").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "closest", "":
		return ModeClosest, nil
	case "wave", "wave_last_raised", "wavelastraised":
		return ModeWaveLastRaised, nil
	default:
		return 0, fmt.Errorf("unknown selection mode %q", s)
	}
}

// Config holds everything the tracker needs to select and map bodies.
type Config struct {
	Mode      Mode
	Selector  selector.Config
	Placement mapper.CameraPlacement
	Mapper    mapper.Mapper
}

// DefaultConfig returns closest-body selection, default gesture thresholds,
// the sensor at the world origin and centimeter output.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeClosest,
		Selector:  selector.DefaultConfig(),
		Placement: mapper.Identity(),
		Mapper:    mapper.New(),
	}
}
