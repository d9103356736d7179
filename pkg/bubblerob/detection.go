package bubblerob

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Kind classifies a detected entity.
type Kind int

const (
	KindPerson Kind = iota + 1
	KindFire
)

func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindFire:
		return "fire"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind render as its name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Vec3 is a point in simulation world coordinates.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// String renders the point as "(x, y, z)" rounded to 4 decimals.
func (v Vec3) String() string {
	return "(" + formatCoord(v.X) + ", " + formatCoord(v.Y) + ", " + formatCoord(v.Z) + ")"
}

// formatCoord rounds to 4 decimals and prints the shortest form that reads
// back to the rounded value. Integral values keep a trailing ".0" and negative
// zero keeps its sign. Magnitudes from 1e16 up use exponent form.
func formatCoord(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	// 'f' with a fixed precision rounds the exact binary value, so halfway
	// cases resolve the same way round(v, 4) does.
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	if err != nil {
		r = v
	}
	if math.Abs(r) >= 1e16 {
		return strconv.FormatFloat(r, 'e', -1, 64)
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// DetectionEntry is the record kept for every entity ever seen.
type DetectionEntry struct {
	ID        string  `json:"id"`
	Kind      Kind    `json:"kind"`
	LastPoint Vec3    `json:"last_point"`
	FirstSeen float64 `json:"first_seen"`
	Message   string  `json:"message"` // Line logged at discovery
}

// Detection is a first sighting, emitted once per entity id.
type Detection struct {
	ID    string  `json:"id"`
	Kind  Kind    `json:"kind"`
	Point Vec3    `json:"point"`
	Time  float64 `json:"time"`
}

// Message returns the human readable log line for the sighting.
func (d Detection) Message() string {
	if d.Kind == KindFire {
		return fmt.Sprintf("[Alert] - %s has been spotted at %s", d.ID, d.Point)
	}
	return fmt.Sprintf("%s has been found at %s", d.ID, d.Point)
}

// DetectionLog is an append-only record of detected entities.
// Entries are never removed for the life of a session.
type DetectionLog struct {
	mu      sync.RWMutex
	entries map[string]*DetectionEntry
	order   []string
}

// NewDetectionLog creates an empty log.
func NewDetectionLog() *DetectionLog {
	return &DetectionLog{entries: make(map[string]*DetectionEntry)}
}

// Observe records a sighting. The first sighting of id returns the
// Detection to emit and true; later sightings only refresh the last point.
func (l *DetectionLog) Observe(kind Kind, id string, point Vec3, now float64) (Detection, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[id]; ok {
		e.LastPoint = point
		return Detection{}, false
	}

	d := Detection{ID: id, Kind: kind, Point: point, Time: now}
	l.entries[id] = &DetectionEntry{ID: id, Kind: kind, LastPoint: point, FirstSeen: now, Message: d.Message()}
	l.order = append(l.order, id)
	return d, true
}

// IsKnown reports whether id has been logged.
func (l *DetectionLog) IsKnown(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[id]
	return ok
}

// Get returns a copy of the entry for id.
func (l *DetectionLog) Get(id string) (DetectionEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[id]
	if !ok {
		return DetectionEntry{}, false
	}
	return *e, true
}

// Entries returns all entries in discovery order.
func (l *DetectionLog) Entries() []DetectionEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]DetectionEntry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.entries[id])
	}
	return out
}

// Len returns the number of distinct entities logged.
func (l *DetectionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}
