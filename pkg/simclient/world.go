package simclient

import (
	"math"

	"github.com/teslashibe/go-bubblerob/pkg/protocol"
)

// Entity is a named object the radars can pick up.
type Entity struct {
	Handle string
	Alias  string
	Pos    [2]float64
}

// World is a minimal flat arena used to exercise the controller without a
// real simulator: square walls, point entities, differential drive.
type World struct {
	HalfSize    float64 // Arena walls at ±HalfSize on both axes
	WheelRadius float64
	AxleWidth   float64
	NoseRange   float64
	FireRange   float64
	PersonRange float64
	Step        float64 // Seconds per tick

	Fires   []Entity
	Persons []Entity

	x, y, heading float64
	time          float64
	seq           uint64
}

// DefaultWorld returns an arena with two fires and three people.
func DefaultWorld() *World {
	return &World{
		HalfSize:    2.0,
		WheelRadius: 0.04,
		AxleWidth:   0.2,
		NoseRange:   0.25,
		FireRange:   0.6,
		PersonRange: 1.0,
		Step:        0.05,
		Fires: []Entity{
			{Handle: "21", Alias: "Fire0", Pos: [2]float64{1.2, 0.4}},
			{Handle: "22", Alias: "Fire3", Pos: [2]float64{-1.0, -1.3}},
		},
		Persons: []Entity{
			{Handle: "31", Alias: "Person1", Pos: [2]float64{0.8, -0.6}},
			{Handle: "32", Alias: "Person5", Pos: [2]float64{-1.5, 1.2}},
			{Handle: "33", Alias: "Bystander", Pos: [2]float64{0.0, 1.5}},
		},
	}
}

// Time returns the current simulation time.
func (w *World) Time() float64 { return w.time }

// Position returns the robot position and heading.
func (w *World) Position() (x, y, heading float64) { return w.x, w.y, w.heading }

// Sense builds the tick frame for the current world state.
func (w *World) Sense() protocol.TickData {
	w.seq++
	pose := protocol.Point{w.x, w.y, 0}
	tick := protocol.TickData{
		Seq:  w.seq,
		Time: w.time,
		Pose: &pose,
	}

	noseX := w.x + w.NoseRange*math.Cos(w.heading)
	noseY := w.y + w.NoseRange*math.Sin(w.heading)
	if math.Abs(noseX) >= w.HalfSize || math.Abs(noseY) >= w.HalfSize {
		tick.Nose = protocol.SensorReading{Detected: true, Distance: w.NoseRange}
	}

	tick.Fire = w.nearest(w.Fires, w.FireRange)
	tick.Person = w.nearest(w.Persons, w.PersonRange)
	return tick
}

// nearest returns the closest entity within reach as a sensor reading.
func (w *World) nearest(es []Entity, reach float64) protocol.SensorReading {
	best := protocol.SensorReading{}
	bestDist := reach
	for _, e := range es {
		d := math.Hypot(e.Pos[0]-w.x, e.Pos[1]-w.y)
		if d > bestDist {
			continue
		}
		bestDist = d
		p := protocol.Point{e.Pos[0], e.Pos[1], 0}
		best = protocol.SensorReading{
			Detected: true,
			Distance: d,
			Point:    &p,
			EntityID: e.Handle,
			Alias:    e.Alias,
		}
	}
	return best
}

// Apply integrates the wheel velocities over one step and advances time.
func (w *World) Apply(m protocol.MotorData) {
	v := w.WheelRadius * (m.Left + m.Right) / 2
	omega := w.WheelRadius * (m.Right - m.Left) / w.AxleWidth

	w.heading = math.Mod(w.heading+omega*w.Step, 2*math.Pi)
	w.x = clampAbs(w.x+v*math.Cos(w.heading)*w.Step, w.HalfSize)
	w.y = clampAbs(w.y+v*math.Sin(w.heading)*w.Step, w.HalfSize)
	w.time += w.Step
}

func clampAbs(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
