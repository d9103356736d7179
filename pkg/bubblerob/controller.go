package bubblerob

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/teslashibe/go-bubblerob/internal/log"
	"github.com/teslashibe/go-bubblerob/pkg/debug"
)

// Controller owns all state of one robot session. The host calls
// OnSensing and OnActuation once per simulation tick, serially.
type Controller struct {
	cfg        Config
	classifier classifier
	speed      *SpeedController
	jitter     *JitterGenerator
	detections *DetectionLog
	logger     *slog.Logger

	mu          sync.Mutex // Guards tick state for Snapshot readers
	avoidance   *Avoidance
	lastCommand MotorCommand
	lastJitter  JitterPair
	lastTime    float64
	ticks       uint64

	slider      Slider
	tracer      Tracer
	onDetection func(Detection)
	closeOnce   sync.Once
}

// NewController validates cfg and creates a controller at the midpoint
// speed in the forward state. A nil src uses the global random generator.
func NewController(cfg Config, src RandomSource) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	return &Controller{
		cfg:        cfg,
		classifier: newClassifier(cfg),
		speed:      NewSpeedController(cfg.MinSpeed, cfg.MaxSpeed),
		jitter:     NewJitterGenerator(src),
		detections: NewDetectionLog(),
		logger:     log.L(),
		avoidance:  NewAvoidance(),
	}, nil
}

// SetLogger replaces the logger used for detection lines.
func (c *Controller) SetLogger(l *slog.Logger) {
	c.logger = l
}

// AttachSlider binds the speed widget and moves it to the current speed.
func (c *Controller) AttachSlider(s Slider) {
	c.slider = s
	if s != nil {
		s.SetValue(100 * c.speed.FractionOf(c.speed.Speed()))
	}
}

// SetTracer sets the path trace collaborator used by OnSensing.
func (c *Controller) SetTracer(t Tracer) {
	c.tracer = t
}

// OnDetection sets the callback invoked for each first sighting.
func (c *Controller) OnDetection(cb func(Detection)) {
	c.onDetection = cb
}

// OnSliderChange handles a slider move (0..100). Safe to call between ticks
// from another goroutine.
func (c *Controller) OnSliderChange(value float64) {
	c.speed.SetFraction(value / 100)
}

// Config returns the session configuration.
func (c *Controller) Config() Config { return c.cfg }

// Speed returns the speed controller.
func (c *Controller) Speed() *SpeedController { return c.speed }

// Detections returns the detection log.
func (c *Controller) Detections() *DetectionLog { return c.detections }

// OnSensing runs the sensing phase. The core makes no decision here; it only
// feeds the robot position to the tracer.
func (c *Controller) OnSensing(e Engine) {
	if c.tracer == nil {
		return
	}
	pr, ok := e.(PoseReader)
	if !ok {
		return
	}
	if p, ok := pr.RobotPosition(); ok {
		c.tracer.AddTracePoint(e.SimulationTime(), p)
	}
}

// OnActuation reads the sensors from the engine, runs Step and writes the
// resulting wheel velocities back.
func (c *Controller) OnActuation(e Engine) MotorCommand {
	now := e.SimulationTime()
	r := Readings{
		Nose:   e.ReadProximity(SensorNose),
		Fire:   resolve(e, e.ReadProximity(SensorFire)),
		Person: resolve(e, e.ReadProximity(SensorPerson)),
	}

	cmd, _ := c.Step(now, r)

	e.SetMotorVelocity(MotorLeft, cmd.Left)
	e.SetMotorVelocity(MotorRight, cmd.Right)
	return cmd
}

// resolve fills in the scene alias of a hit's entity.
func resolve(e Engine, h SensorHit) SensorHit {
	if h.Detected && h.EntityID != "" && h.Alias == "" {
		h.Alias = e.EntityAlias(h.EntityID)
	}
	return h
}

// Step executes one actuation tick against already-read sensor values and
// returns the wheel command plus any first sightings made this tick.
func (c *Controller) Step(now float64, r Readings) (MotorCommand, []Detection) {
	c.mu.Lock()

	jitter := c.jitter.Next()

	if r.Nose.Detected {
		c.avoidance.Trigger(now, c.cfg.NoseBackoff)
	}

	var found []Detection
	if c.classifier.match(KindFire, r.Fire) {
		c.avoidance.Trigger(now, c.cfg.FireBackoff)
		if d, ok := c.detections.Observe(KindFire, r.Fire.name(), *r.Fire.Point, now); ok {
			found = append(found, d)
		}
	}
	if c.classifier.match(KindPerson, r.Person) {
		if d, ok := c.detections.Observe(KindPerson, r.Person.name(), *r.Person.Point, now); ok {
			found = append(found, d)
		}
	}

	state := c.avoidance.Tick(now)
	cmd := Compose(state, c.speed.Speed(), jitter)

	c.lastCommand = cmd
	c.lastJitter = jitter
	c.lastTime = now
	c.ticks++
	deadline := c.avoidance.Deadline()
	c.mu.Unlock()

	debug.TickLog("t=%.3f state=%s deadline=%.3f cmd=(%.3f, %.3f)\n", now, state, deadline, cmd.Left, cmd.Right)

	for _, d := range found {
		c.emit(d)
	}
	return cmd, found
}

// emit logs a first sighting and forwards it to the callback.
func (c *Controller) emit(d Detection) {
	if d.Kind == KindFire {
		c.logger.Warn(d.Message(), "kind", d.Kind.String(), "id", d.ID, "t", d.Time)
	} else {
		c.logger.Info(d.Message(), "kind", d.Kind.String(), "id", d.ID, "t", d.Time)
	}
	if c.onDetection != nil {
		c.onDetection(d)
	}
}

// Status is a point-in-time view of the controller for dashboards.
type Status struct {
	State       State            `json:"state"`
	Deadline    float64          `json:"deadline"`
	Speed       float64          `json:"speed"`
	Fraction    float64          `json:"fraction"`
	MinSpeed    float64          `json:"min_speed"`
	MaxSpeed    float64          `json:"max_speed"`
	LastCommand MotorCommand     `json:"last_command"`
	LastJitter  JitterPair       `json:"last_jitter"`
	LastTime    float64          `json:"last_time"`
	Ticks       uint64           `json:"ticks"`
	Detections  []DetectionEntry `json:"detections"`
}

// State returns the avoidance state resolved by the last tick.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.avoidance.State()
}

// Snapshot returns the current status.
func (c *Controller) Snapshot() Status {
	c.mu.Lock()
	st := Status{
		State:       c.avoidance.State(),
		Deadline:    c.avoidance.Deadline(),
		LastCommand: c.lastCommand,
		LastJitter:  c.lastJitter,
		LastTime:    c.lastTime,
		Ticks:       c.ticks,
	}
	c.mu.Unlock()

	st.Speed = c.speed.Speed()
	st.Fraction = c.speed.Fraction()
	st.MinSpeed, st.MaxSpeed = c.speed.Bounds()
	st.Detections = c.detections.Entries()
	return st
}

// Close ends the session and destroys the slider. Safe to call twice.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.slider != nil {
			c.slider.Destroy()
		}
	})
}
