package simclient

import (
	"math"
	"testing"

	"github.com/teslashibe/go-bubblerob/pkg/protocol"
)

func TestWorld_NoseSeesWall(t *testing.T) {
	w := DefaultWorld()
	w.x = w.HalfSize - 0.1

	tick := w.Sense()
	if !tick.Nose.Detected {
		t.Error("nose should see the wall 0.1m ahead")
	}
	if tick.Seq != 1 {
		t.Errorf("Seq = %d, want 1", tick.Seq)
	}
}

func TestWorld_RadarsPickNearest(t *testing.T) {
	w := DefaultWorld()
	w.x, w.y = 1.0, 0.3

	tick := w.Sense()
	if !tick.Fire.Detected || tick.Fire.Alias != "Fire0" {
		t.Errorf("fire = %+v, want Fire0", tick.Fire)
	}
	if !tick.Person.Detected || tick.Person.Alias != "Person1" {
		t.Errorf("person = %+v, want Person1", tick.Person)
	}
	if tick.Nose.Detected {
		t.Error("nose should be clear in the middle of the arena")
	}
}

func TestWorld_ApplyDrivesForward(t *testing.T) {
	w := DefaultWorld()
	w.Apply(protocol.MotorData{Left: 5, Right: 5})

	x, y, heading := w.Position()
	want := w.WheelRadius * 5 * w.Step
	if math.Abs(x-want) > 1e-12 || y != 0 || heading != 0 {
		t.Errorf("pose = (%v, %v, %v), want (%v, 0, 0)", x, y, heading, want)
	}
	if math.Abs(w.Time()-w.Step) > 1e-12 {
		t.Errorf("time = %v, want %v", w.Time(), w.Step)
	}
}

func TestWorld_StaysInArena(t *testing.T) {
	w := DefaultWorld()
	for i := 0; i < 1000; i++ {
		w.Apply(protocol.MotorData{Left: 50, Right: 50})
	}
	x, y, _ := w.Position()
	if math.Abs(x) > w.HalfSize || math.Abs(y) > w.HalfSize {
		t.Errorf("robot left the arena: (%v, %v)", x, y)
	}
}
