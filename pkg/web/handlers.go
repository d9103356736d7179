package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-bubblerob/pkg/hub"
	"github.com/teslashibe/go-bubblerob/pkg/simlink"
)

// SessionInfo summarizes a connected simulation.
type SessionInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
	State     string    `json:"state"`
	Speed     float64   `json:"speed"`
	Ticks     uint64    `json:"ticks"`
}

// SpeedRequest is the slider on_change body.
type SpeedRequest struct {
	Value *float64 `json:"value"` // 0..100
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"link":              s.link.GetStats(),
		"telemetry_clients": s.telemetry.ClientCount(),
	})
}

// handleGetLogs returns recent detection log lines
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

func (s *Server) handleListSessions(c *fiber.Ctx) error {
	sessions := s.link.Sessions()
	infos := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		st := sess.Controller.Snapshot()
		infos = append(infos, SessionInfo{
			ID:        sess.ID,
			Connected: sess.Connected,
			LastSeen:  sess.LastSeen(),
			State:     st.State.String(),
			Speed:     st.Speed,
			Ticks:     st.Ticks,
		})
	}
	return c.JSON(fiber.Map{
		"sessions": infos,
		"count":    len(infos),
	})
}

// session resolves the :id param.
func (s *Server) session(c *fiber.Ctx) (*simlink.Session, error) {
	sess := s.link.GetSession(c.Params("id"))
	if sess == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not connected")
	}
	return sess, nil
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(sess.Controller.Snapshot())
}

func (s *Server) handleGetDetections(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	entries := sess.Controller.Detections().Entries()
	return c.JSON(fiber.Map{
		"detections": entries,
		"count":      len(entries),
	})
}

func (s *Server) handleGetTrace(c *fiber.Ctx) error {
	if _, err := s.session(c); err != nil {
		return err
	}
	trace := s.Trace(c.Params("id"))
	if trace == nil {
		return c.JSON([]TracePoint{})
	}
	return c.JSON(trace.Points())
}

func (s *Server) handleGetSpeed(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(s.speedBody(sess))
}

// handleSetSpeed is the slider on_change: value/100 becomes the speed fraction.
func (s *Server) handleSetSpeed(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var req SpeedRequest
	if err := c.BodyParser(&req); err != nil || req.Value == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body must be {\"value\": 0..100}",
		})
	}

	slider := s.Slider(sess.ID)
	if slider == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "slider not attached",
		})
	}
	if !slider.Change(*req.Value) {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"error": "slider destroyed",
		})
	}
	return c.JSON(s.speedBody(sess))
}

func (s *Server) speedBody(sess *simlink.Session) fiber.Map {
	speed := sess.Controller.Speed()
	min, max := speed.Bounds()
	body := fiber.Map{
		"speed":     speed.Speed(),
		"fraction":  speed.Fraction(),
		"min_speed": min,
		"max_speed": max,
	}
	if slider := s.Slider(sess.ID); slider != nil {
		body["slider"] = slider.Value()
	}
	return body
}

// handleTelemetryWS streams telemetry events. ?session=<id> filters to one
// session.
func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	session, _ := c.Locals("session").(string)
	hub.NewClient(s.telemetry, c, session).Run()
}
