package bubblerob

import "encoding/json"

// State is the avoidance mode for a tick.
type State int

const (
	StateForward State = iota
	StateBacking
)

func (s State) String() string {
	if s == StateBacking {
		return "backing"
	}
	return "forward"
}

// MarshalJSON renders the state name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Avoidance is the forward/backing state machine. While backing, the
// deadline is an absolute simulation time compared against each tick.
type Avoidance struct {
	state    State
	deadline float64
}

// NewAvoidance starts in StateForward.
func NewAvoidance() *Avoidance {
	return &Avoidance{state: StateForward, deadline: -1}
}

// Trigger enters the backing window ending at now+extra.
//
// Each call overwrites the previous deadline, even a later one: a fire
// trigger right after a nose trigger shortens the window to the fire's.
func (a *Avoidance) Trigger(now, extra float64) {
	a.state = StateBacking
	a.deadline = now + extra
}

// Tick resolves the state at time now. Backing reverts to forward once
// now reaches the deadline.
func (a *Avoidance) Tick(now float64) State {
	if a.state == StateBacking && now >= a.deadline {
		a.state = StateForward
	}
	return a.state
}

// State returns the current state without advancing time.
func (a *Avoidance) State() State {
	return a.state
}

// Deadline returns the end of the last backing window, or -1 if the
// machine never backed.
func (a *Avoidance) Deadline() float64 {
	return a.deadline
}
