// Package simlink accepts simulator connections over WebSocket and runs one
// BubbleRob controller per connected simulation.
package simlink

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-bubblerob/internal/log"
	"github.com/teslashibe/go-bubblerob/pkg/bubblerob"
	"github.com/teslashibe/go-bubblerob/pkg/protocol"
)

// ErrSessionExists is returned when a simulator reuses a live session id.
var ErrSessionExists = errors.New("session already connected")

// Session is one connected simulation and its controller.
type Session struct {
	ID         string
	Controller *bubblerob.Controller
	Connected  time.Time

	conn *websocket.Conn

	mu       sync.Mutex // Serializes writes and guards LastSeen
	lastSeen time.Time
}

// Send writes a message to the simulator.
func (s *Session) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// LastSeen returns when the simulator last sent a frame.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Options configures new sessions.
type Options struct {
	Config bubblerob.Config

	// Source returns the jitter source for a new session. Nil means the
	// global random generator.
	Source func(sessionID string) bubblerob.RandomSource

	Debug bool
}

// Link manages simulator WebSocket sessions.
type Link struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*Session
	opening  map[string]bool // Reserved ids whose OnOpen has not returned yet

	// Callbacks
	onOpen      func(s *Session)
	onClose     func(s *Session)
	onMotor     func(s *Session, motor protocol.MotorData)
	onDetection func(s *Session, d bubblerob.Detection)

	// Stats
	ticksReceived  atomic.Uint64
	framesRejected atomic.Uint64
	messagesSent   atomic.Uint64
}

// New creates a link. opts.Config is validated per session.
func New(opts Options) *Link {
	return &Link{
		opts:     opts,
		sessions: make(map[string]*Session),
		opening:  make(map[string]bool),
	}
}

// OnOpen sets the callback run after a session's controller is created and
// before its first tick. It may attach a slider or tracer. The session is
// not visible through GetSession or Sessions until the callback returns.
func (l *Link) OnOpen(cb func(s *Session)) {
	l.mu.Lock()
	l.onOpen = cb
	l.mu.Unlock()
}

// OnClose sets the callback run after a session's controller is closed.
func (l *Link) OnClose(cb func(s *Session)) {
	l.mu.Lock()
	l.onClose = cb
	l.mu.Unlock()
}

// OnMotor sets the callback run for every motor reply.
func (l *Link) OnMotor(cb func(s *Session, motor protocol.MotorData)) {
	l.mu.Lock()
	l.onMotor = cb
	l.mu.Unlock()
}

// OnDetection sets the callback run for every first sighting.
func (l *Link) OnDetection(cb func(s *Session, d bubblerob.Detection)) {
	l.mu.Lock()
	l.onDetection = cb
	l.mu.Unlock()
}

// RegisterRoutes registers the simulator endpoints on a Fiber app.
func (l *Link) RegisterRoutes(app *fiber.App) {
	app.Use("/ws/sim", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/sim", websocket.New(l.handleSim))
	app.Get("/ws/sim/:id", websocket.New(l.handleSim))
}

// open creates and registers a session.
func (l *Link) open(id string, conn *websocket.Conn) (*Session, error) {
	var src bubblerob.RandomSource
	if l.opts.Source != nil {
		src = l.opts.Source(id)
	}
	ctrl, err := bubblerob.NewController(l.opts.Config, src)
	if err != nil {
		return nil, err
	}
	ctrl.SetLogger(log.With("session", id))

	now := time.Now()
	s := &Session{ID: id, Controller: ctrl, Connected: now, conn: conn, lastSeen: now}

	l.mu.Lock()
	if _, exists := l.sessions[id]; exists || l.opening[id] {
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, id)
	}
	l.opening[id] = true
	onOpen := l.onOpen
	l.mu.Unlock()

	ctrl.OnDetection(func(d bubblerob.Detection) { l.detected(s, d) })
	if onOpen != nil {
		onOpen(s)
	}

	l.mu.Lock()
	delete(l.opening, id)
	l.sessions[id] = s
	count := len(l.sessions)
	l.mu.Unlock()

	log.Info("simulation connected", "session", id, "sessions", count)
	return s, nil
}

// close tears a session down. The controller releases its slider here.
func (l *Link) close(s *Session) {
	l.mu.Lock()
	if cur, ok := l.sessions[s.ID]; ok && cur == s {
		delete(l.sessions, s.ID)
	}
	count := len(l.sessions)
	onClose := l.onClose
	l.mu.Unlock()

	s.Controller.Close()
	if onClose != nil {
		onClose(s)
	}
	log.Info("simulation disconnected", "session", s.ID, "sessions", count)
}

// handleSim runs one simulator connection.
func (l *Link) handleSim(c *websocket.Conn) {
	id := c.Params("id")
	if id == "" {
		id = uuid.New().String()
	}

	s, err := l.open(id, c)
	if err != nil {
		log.Warn("rejected simulation", "session", id, "error", err)
		if msg, mErr := protocol.NewErrorMessage(err); mErr == nil {
			if data, bErr := msg.Bytes(); bErr == nil {
				c.WriteMessage(websocket.TextMessage, data)
			}
		}
		return
	}
	defer l.close(s)

	cfg := s.Controller.Config()
	hello, err := protocol.NewHelloMessage(id, cfg.MinSpeed, cfg.MaxSpeed, s.Controller.Speed().Speed())
	if err == nil {
		l.send(s, hello)
	}

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if l.opts.Debug {
				log.Debug("simulation read ended", "session", id, "error", err)
			}
			return
		}
		s.touch()

		if done := l.handleMessage(s, data); done {
			return
		}
	}
}

// handleMessage processes one frame. Returns true when the simulator ended
// the session.
func (l *Link) handleMessage(s *Session, data []byte) bool {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		l.reject(s, err)
		return false
	}

	switch msg.Type {
	case protocol.TypeTick:
		tick, err := msg.GetTickData()
		if err != nil {
			l.reject(s, fmt.Errorf("bad tick: %w", err))
			return false
		}
		l.tick(s, tick)

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			ping = &protocol.PingData{}
		}
		if pong, err := protocol.NewPongMessage(ping.ID, msg.Timestamp, time.Now().UnixMilli()); err == nil {
			l.send(s, pong)
		}

	case protocol.TypeBye:
		return true

	default:
		l.reject(s, fmt.Errorf("unexpected message type %q", msg.Type))
	}
	return false
}

// tick runs the sensing and actuation phases for one frame and replies with
// the motor command.
func (l *Link) tick(s *Session, tick *protocol.TickData) {
	l.ticksReceived.Add(1)

	e := newTickEngine(tick)
	s.Controller.OnSensing(e)
	s.Controller.OnActuation(e)

	state := s.Controller.State()
	motor := protocol.MotorData{Seq: tick.Seq, Left: e.left, Right: e.right, State: state.String()}
	if msg, err := protocol.NewMotorMessage(tick.Seq, e.command(), state); err == nil {
		l.send(s, msg)
	}

	l.mu.RLock()
	onMotor := l.onMotor
	l.mu.RUnlock()
	if onMotor != nil {
		onMotor(s, motor)
	}
}

// detected forwards a first sighting to the simulator and the callback.
func (l *Link) detected(s *Session, d bubblerob.Detection) {
	if msg, err := protocol.NewDetectionMessage(d); err == nil {
		l.send(s, msg)
	}

	l.mu.RLock()
	cb := l.onDetection
	l.mu.RUnlock()
	if cb != nil {
		cb(s, d)
	}
}

// reject drops a malformed frame and tells the simulator why.
func (l *Link) reject(s *Session, err error) {
	l.framesRejected.Add(1)
	log.Warn("dropped simulator frame", "session", s.ID, "error", err)
	if msg, mErr := protocol.NewErrorMessage(err); mErr == nil {
		l.send(s, msg)
	}
}

func (l *Link) send(s *Session, msg *protocol.Message) {
	l.messagesSent.Add(1)
	if err := s.Send(msg); err != nil && l.opts.Debug {
		log.Debug("simulator write failed", "session", s.ID, "error", err)
	}
}

// GetSession returns a session by id, or nil.
func (l *Link) GetSession(id string) *Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessions[id]
}

// Sessions returns all live sessions.
func (l *Link) Sessions() []*Session {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		out = append(out, s)
	}
	return out
}

// SessionCount returns the number of live sessions.
func (l *Link) SessionCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

// Stats contains link statistics
type Stats struct {
	Sessions       int    `json:"sessions"`
	TicksReceived  uint64 `json:"ticks_received"`
	FramesRejected uint64 `json:"frames_rejected"`
	MessagesSent   uint64 `json:"messages_sent"`
}

// GetStats returns link statistics
func (l *Link) GetStats() Stats {
	return Stats{
		Sessions:       l.SessionCount(),
		TicksReceived:  l.ticksReceived.Load(),
		FramesRejected: l.framesRejected.Load(),
		MessagesSent:   l.messagesSent.Load(),
	}
}
