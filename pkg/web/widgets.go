package web

import (
	"sync"

	"github.com/teslashibe/go-bubblerob/pkg/bubblerob"
)

// Slider is the dashboard speed slider of one session (range 0..100).
type Slider struct {
	mu        sync.RWMutex
	value     float64
	destroyed bool

	onChange func(v float64)
}

// SetValue moves the slider without notifying the controller.
func (s *Slider) SetValue(v float64) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

// Destroy marks the widget gone. Later changes are refused.
func (s *Slider) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.mu.Unlock()
}

// Change applies a user move. Values outside 0..100 are clamped.
// Returns false if the widget was destroyed.
func (s *Slider) Change(v float64) bool {
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return false
	}
	s.value = v
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(v)
	}
	return true
}

// Value returns the slider position.
func (s *Slider) Value() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Destroyed reports whether the session released the widget.
func (s *Slider) Destroyed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destroyed
}

// traceCapacity matches the cyclic path buffer of the scene's trace drawing.
const traceCapacity = 500

// TracePoint is one sample of the robot path.
type TracePoint struct {
	T float64 `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Trace is a cyclic buffer of recent robot positions.
type Trace struct {
	mu     sync.RWMutex
	points []TracePoint
	next   int
	full   bool
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{points: make([]TracePoint, traceCapacity)}
}

// AddTracePoint implements bubblerob.Tracer.
func (t *Trace) AddTracePoint(at float64, p bubblerob.Vec3) {
	t.mu.Lock()
	t.points[t.next] = TracePoint{T: at, X: p.X, Y: p.Y, Z: p.Z}
	t.next = (t.next + 1) % len(t.points)
	if t.next == 0 {
		t.full = true
	}
	t.mu.Unlock()
}

// Points returns the buffered path, oldest first.
func (t *Trace) Points() []TracePoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.full {
		return append([]TracePoint(nil), t.points[:t.next]...)
	}
	out := make([]TracePoint, 0, len(t.points))
	out = append(out, t.points[t.next:]...)
	return append(out, t.points[:t.next]...)
}

var (
	_ bubblerob.Slider = (*Slider)(nil)
	_ bubblerob.Tracer = (*Trace)(nil)
)
