package bubblerob

import "testing"

func TestAvoidance_StartsForward(t *testing.T) {
	a := NewAvoidance()
	if got := a.Tick(0); got != StateForward {
		t.Errorf("initial state: got %v, want forward", got)
	}
	if a.Deadline() != -1 {
		t.Errorf("initial deadline: got %v, want -1", a.Deadline())
	}
}

func TestAvoidance_BackingWindow(t *testing.T) {
	a := NewAvoidance()
	a.Trigger(10, 1.0)

	if got := a.Tick(10.5); got != StateBacking {
		t.Errorf("Tick(10.5): got %v, want backing", got)
	}
	if got := a.Tick(11.0); got != StateForward {
		t.Errorf("Tick(11.0): got %v, want forward", got)
	}
}

func TestAvoidance_TriggerOverwritesDeadline(t *testing.T) {
	a := NewAvoidance()
	a.Trigger(10, 1.0) // nose
	a.Trigger(10, 0.5) // fire

	if a.State() != StateBacking || a.Deadline() != 10.5 {
		t.Fatalf("got %v deadline %v, want backing deadline 10.5", a.State(), a.Deadline())
	}
	if got := a.Tick(10.6); got != StateForward {
		t.Errorf("Tick(10.6): got %v, want forward (deadline was overwritten)", got)
	}
}

func TestAvoidance_RetriggerWhileBacking(t *testing.T) {
	a := NewAvoidance()
	a.Trigger(1, 1)
	a.Tick(1.5)
	a.Trigger(1.5, 1)

	if got := a.Tick(2.2); got != StateBacking {
		t.Errorf("Tick(2.2): got %v, want backing", got)
	}
	if got := a.Tick(2.5); got != StateForward {
		t.Errorf("Tick(2.5): got %v, want forward", got)
	}
}

func TestAvoidance_NoseScenario(t *testing.T) {
	a := NewAvoidance()
	a.Trigger(5, 1.0)

	want := []struct {
		t     float64
		state State
	}{
		{5.2, StateBacking},
		{5.9, StateBacking},
		{6.1, StateForward},
	}
	for _, w := range want {
		if got := a.Tick(w.t); got != w.state {
			t.Errorf("Tick(%v): got %v, want %v", w.t, got, w.state)
		}
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		speed  float64
		jitter JitterPair
		want   MotorCommand
	}{
		{"forward ignores jitter", StateForward, 2.0, JitterPair{0.3, 44}, MotorCommand{2.0, 2.0}},
		{"backing divides by jitter", StateBacking, 2.0, JitterPair{0.5, 20}, MotorCommand{-4.0, -0.1}},
		{"backing full factor", StateBacking, 3.0, JitterPair{1.0, 60}, MotorCommand{-3.0, -0.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.state, tt.speed, tt.jitter)
			if !floatEquals(got.Left, tt.want.Left) || !floatEquals(got.Right, tt.want.Right) {
				t.Errorf("Compose() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if StateForward.String() != "forward" || StateBacking.String() != "backing" {
		t.Errorf("unexpected names %q %q", StateForward, StateBacking)
	}
}
