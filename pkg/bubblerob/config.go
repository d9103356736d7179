// Package bubblerob implements the reactive decision core of a two-wheeled
// simulated robot: obstacle backing, detection logging, turning jitter and
// cruise speed mapping.
package bubblerob

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel configuration errors.
var (
	ErrInvalidSpeedRange = errors.New("bubblerob: invalid speed range")
	ErrInvalidBackoff    = errors.New("bubblerob: invalid backoff duration")
)

// Config holds the immutable parameters of a controller session.
type Config struct {
	// Wheel speed bounds (rad/s). The slider maps linearly onto this range.
	MinSpeed float64
	MaxSpeed float64

	// Backing window durations (seconds of simulation time)
	NoseBackoff float64 // Obstacle ahead of the nose sensor
	FireBackoff float64 // Fire seen by the fire radar

	// Entity aliases recognised by the person and fire radars.
	// Anything else the radars report is ignored.
	FireNames   []string
	PersonNames []string
}

// DefaultConfig returns the stock BubbleRob scene configuration.
func DefaultConfig() Config {
	return Config{
		MinSpeed: 50 * math.Pi / 180,  // 50°/s
		MaxSpeed: 300 * math.Pi / 180, // 300°/s

		NoseBackoff: 1.0,
		FireBackoff: 0.5,

		FireNames:   enumerate("Fire", 5),
		PersonNames: enumerate("Person", 7),
	}
}

// Validate checks the config invariants.
func (c Config) Validate() error {
	if c.MinSpeed <= 0 || c.MaxSpeed <= c.MinSpeed {
		return fmt.Errorf("%w: min=%v max=%v", ErrInvalidSpeedRange, c.MinSpeed, c.MaxSpeed)
	}
	if c.NoseBackoff < 0 || c.FireBackoff < 0 {
		return fmt.Errorf("%w: nose=%v fire=%v", ErrInvalidBackoff, c.NoseBackoff, c.FireBackoff)
	}
	return nil
}

// enumerate returns prefix0 .. prefix(n-1).
func enumerate(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return names
}
