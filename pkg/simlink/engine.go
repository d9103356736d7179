package simlink

import (
	"github.com/teslashibe/go-bubblerob/pkg/bubblerob"
	"github.com/teslashibe/go-bubblerob/pkg/protocol"
)

// tickEngine presents one received tick frame as the controller's engine.
// Motor writes are captured and sent back as the tick's reply.
type tickEngine struct {
	tick     *protocol.TickData
	readings bubblerob.Readings

	left, right float64
}

func newTickEngine(tick *protocol.TickData) *tickEngine {
	return &tickEngine{tick: tick, readings: tick.Readings()}
}

func (e *tickEngine) SimulationTime() float64 {
	return e.tick.Time
}

func (e *tickEngine) ReadProximity(sensor bubblerob.SensorID) bubblerob.SensorHit {
	switch sensor {
	case bubblerob.SensorNose:
		return e.readings.Nose
	case bubblerob.SensorFire:
		return e.readings.Fire
	case bubblerob.SensorPerson:
		return e.readings.Person
	}
	return bubblerob.SensorHit{}
}

func (e *tickEngine) SetMotorVelocity(motor bubblerob.MotorID, v float64) {
	switch motor {
	case bubblerob.MotorLeft:
		e.left = v
	case bubblerob.MotorRight:
		e.right = v
	}
}

// EntityAlias looks the entity up among the aliases shipped with the frame.
func (e *tickEngine) EntityAlias(entityID string) string {
	for _, r := range []protocol.SensorReading{e.tick.Nose, e.tick.Fire, e.tick.Person} {
		if r.EntityID == entityID && r.Alias != "" {
			return r.Alias
		}
	}
	return ""
}

func (e *tickEngine) RobotPosition() (bubblerob.Vec3, bool) {
	if e.tick.Pose == nil {
		return bubblerob.Vec3{}, false
	}
	return e.tick.Pose.Vec3(), true
}

// command returns the captured motor writes.
func (e *tickEngine) command() bubblerob.MotorCommand {
	return bubblerob.MotorCommand{Left: e.left, Right: e.right}
}
