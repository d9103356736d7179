package bubblerob

import (
	"math"
	"sync"
)

// SpeedController maps a normalized slider fraction onto the cruise speed.
// It is the only piece of controller state written from outside the tick,
// so it carries its own lock.
type SpeedController struct {
	min, max float64

	mu    sync.RWMutex
	speed float64
}

// NewSpeedController creates a controller sitting at the midpoint speed.
func NewSpeedController(min, max float64) *SpeedController {
	s := &SpeedController{min: min, max: max}
	s.SetFraction(0.5)
	return s
}

// SetFraction sets speed = min + f*(max-min). f is clamped to [0, 1]; NaN
// counts as 0.
func (s *SpeedController) SetFraction(f float64) {
	if math.IsNaN(f) {
		f = 0
	}
	speed := s.min + clamp(f, 0, 1)*(s.max-s.min)
	s.mu.Lock()
	s.speed = speed
	s.mu.Unlock()
}

// Speed returns the current cruise speed.
func (s *SpeedController) Speed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speed
}

// Fraction returns the slider fraction of the current speed.
func (s *SpeedController) Fraction() float64 {
	return s.FractionOf(s.Speed())
}

// FractionOf is the inverse of SetFraction, clamped to [0, 1].
func (s *SpeedController) FractionOf(speed float64) float64 {
	return clamp((speed-s.min)/(s.max-s.min), 0, 1)
}

// Bounds returns the configured speed range.
func (s *SpeedController) Bounds() (min, max float64) {
	return s.min, s.max
}

// clamp restricts v to the range [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
