package bubblerob

// MotorCommand holds the target angular velocities for both wheels.
// Negative values spin the wheel backwards.
type MotorCommand struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Compose turns the resolved state into wheel velocities. Forward drives
// both wheels at speed; backing reverses each wheel at speed divided by
// its jitter factor.
func Compose(state State, speed float64, jitter JitterPair) MotorCommand {
	if state == StateBacking {
		return MotorCommand{
			Left:  -speed / jitter.LeftFactor,
			Right: -speed / jitter.RightFactor,
		}
	}
	return MotorCommand{Left: speed, Right: speed}
}
