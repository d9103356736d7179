package bubblerob

// SensorID names a proximity sensor on the robot.
type SensorID string

// MotorID names a wheel joint.
type MotorID string

// Scene object names of the stock robot model.
const (
	SensorNose   SensorID = "sensingNose"
	SensorPerson SensorID = "personRadar"
	SensorFire   SensorID = "fireRadar"

	MotorLeft  MotorID = "leftMotor"
	MotorRight MotorID = "rightMotor"
)

// SensorHit is one proximity sensor result for one tick.
// A failed read or empty sensor is simply Detected == false.
type SensorHit struct {
	Detected bool    `json:"detected"`
	Distance float64 `json:"distance,omitempty"`
	Point    *Vec3   `json:"point,omitempty"`
	EntityID string  `json:"entity_id,omitempty"`
	Alias    string  `json:"alias,omitempty"` // Resolved scene alias of EntityID
}

// name returns the alias used for classification, falling back to the raw id.
func (h SensorHit) name() string {
	if h.Alias != "" {
		return h.Alias
	}
	return h.EntityID
}

// Readings bundles the three sensor hits of a tick.
type Readings struct {
	Nose   SensorHit `json:"nose"`
	Fire   SensorHit `json:"fire"`
	Person SensorHit `json:"person"`
}

// Engine is the simulator surface the controller needs each tick.
type Engine interface {
	SimulationTime() float64
	ReadProximity(sensor SensorID) SensorHit
	SetMotorVelocity(motor MotorID, velocity float64)
	EntityAlias(entityID string) string
}

// PoseReader is implemented by engines able to report the robot position
// during the sensing phase.
type PoseReader interface {
	RobotPosition() (Vec3, bool)
}

// Tracer receives the robot path for visualization.
type Tracer interface {
	AddTracePoint(t float64, p Vec3)
}

// Slider is the speed control widget owned by the session.
type Slider interface {
	SetValue(v float64) // 0..100
	Destroy()
}

// classifier matches scene aliases against the configured name lists.
type classifier struct {
	fires   map[string]struct{}
	persons map[string]struct{}
}

func newClassifier(cfg Config) classifier {
	c := classifier{
		fires:   make(map[string]struct{}, len(cfg.FireNames)),
		persons: make(map[string]struct{}, len(cfg.PersonNames)),
	}
	for _, n := range cfg.FireNames {
		c.fires[n] = struct{}{}
	}
	for _, n := range cfg.PersonNames {
		c.persons[n] = struct{}{}
	}
	return c
}

// match reports whether hit is a usable sighting of a known entity of the
// given kind.
func (c classifier) match(kind Kind, hit SensorHit) bool {
	if !hit.Detected || hit.Point == nil {
		return false
	}
	name := hit.name()
	if name == "" {
		return false
	}
	set := c.persons
	if kind == KindFire {
		set = c.fires
	}
	_, ok := set[name]
	return ok
}
