// Package web provides the operator dashboard: session status, detection
// log, path trace, the speed slider and live telemetry.
package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-bubblerob/internal/log"
	"github.com/teslashibe/go-bubblerob/pkg/bubblerob"
	"github.com/teslashibe/go-bubblerob/pkg/hub"
	"github.com/teslashibe/go-bubblerob/pkg/protocol"
	"github.com/teslashibe/go-bubblerob/pkg/simlink"
)

// LogEntry represents a detection log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Session string `json:"session"`
	Level   string `json:"level"` // info, alert
	Message string `json:"message"`
}

// maxLogs bounds the in-memory log buffer.
const maxLogs = 500

// Server is the dashboard server. It also hosts the simulator link.
type Server struct {
	app  *fiber.App
	port string
	link *simlink.Link

	telemetry *hub.Hub

	widgetsMu sync.RWMutex
	sliders   map[string]*Slider
	traces    map[string]*Trace

	logs   []LogEntry
	logsMu sync.RWMutex
}

// NewServer creates the dashboard and wires it to link.
// accessLog enables the per-request access logger.
func NewServer(port string, link *simlink.Link, accessLog bool) *Server {
	s := &Server{
		port:      port,
		link:      link,
		telemetry: hub.New("telemetry"),
		sliders:   make(map[string]*Slider),
		traces:    make(map[string]*Trace),
		logs:      make([]LogEntry, 0, maxLogs),
	}

	app := fiber.New(fiber.Config{
		AppName:               "BubbleRob Dashboard",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if accessLog {
		app.Use(logger.New())
	}

	// API routes
	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/stats", s.handleStats)
	api.Get("/logs", s.handleGetLogs)
	api.Get("/sessions", s.handleListSessions)
	api.Get("/sessions/:id", s.handleGetSession)
	api.Get("/sessions/:id/detections", s.handleGetDetections)
	api.Get("/sessions/:id/trace", s.handleGetTrace)
	api.Get("/sessions/:id/speed", s.handleGetSpeed)
	api.Post("/sessions/:id/speed", s.handleSetSpeed)

	// Telemetry websocket
	app.Use("/ws/telemetry", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("session", c.Query("session"))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))

	link.RegisterRoutes(app)
	link.OnOpen(s.sessionOpened)
	link.OnClose(s.sessionClosed)
	link.OnMotor(s.motorSent)
	link.OnDetection(s.detected)

	s.app = app
	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the telemetry hub and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go s.telemetry.Run(ctx)

	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Warn("dashboard shutdown", "error", err)
		}
	}()

	log.Info("dashboard listening", "url", fmt.Sprintf("http://localhost:%s", s.port))
	if err := s.app.Listen(":" + s.port); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// Telemetry returns the telemetry hub.
func (s *Server) Telemetry() *hub.Hub {
	return s.telemetry
}

// Slider returns the speed slider of a session, or nil.
func (s *Server) Slider(id string) *Slider {
	s.widgetsMu.RLock()
	defer s.widgetsMu.RUnlock()
	return s.sliders[id]
}

// Trace returns the path trace of a session, or nil.
func (s *Server) Trace(id string) *Trace {
	s.widgetsMu.RLock()
	defer s.widgetsMu.RUnlock()
	return s.traces[id]
}

// sessionOpened creates the session's widgets and binds them to its controller.
func (s *Server) sessionOpened(sess *simlink.Session) {
	ctrl := sess.Controller
	slider := &Slider{}
	slider.onChange = func(v float64) {
		ctrl.OnSliderChange(v)
		s.telemetry.Publish(hub.EventStatus, sess.ID, ctrl.Snapshot())
	}
	trace := NewTrace()

	s.widgetsMu.Lock()
	s.sliders[sess.ID] = slider
	s.traces[sess.ID] = trace
	s.widgetsMu.Unlock()

	ctrl.AttachSlider(slider)
	ctrl.SetTracer(trace)

	s.telemetry.Publish(hub.EventSession, sess.ID, fiber.Map{"open": true})
}

// sessionClosed forgets the session's widgets. The controller has already
// destroyed the slider.
func (s *Server) sessionClosed(sess *simlink.Session) {
	s.widgetsMu.Lock()
	delete(s.sliders, sess.ID)
	delete(s.traces, sess.ID)
	s.widgetsMu.Unlock()

	s.telemetry.Publish(hub.EventSession, sess.ID, fiber.Map{"open": false})
}

func (s *Server) motorSent(sess *simlink.Session, m protocol.MotorData) {
	s.telemetry.Publish(hub.EventMotor, sess.ID, m)
}

func (s *Server) detected(sess *simlink.Session, d bubblerob.Detection) {
	level := "info"
	if d.Kind == bubblerob.KindFire {
		level = "alert"
	}
	s.AddLog(sess.ID, level, d.Message())
	s.telemetry.Publish(hub.EventDetection, sess.ID, d)
}

// AddLog adds a log entry to the dashboard buffer
func (s *Server) AddLog(session, level, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Session: session,
		Level:   level,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()
}
