// Package protocol defines the WebSocket message types exchanged between a
// simulator and the BubbleRob controller.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-bubblerob/pkg/bubblerob"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Simulator → Controller messages
	TypeTick MessageType = "tick" // One sensing+actuation cycle
	TypeBye  MessageType = "bye"  // Simulation ended (cleanup)

	// Controller → Simulator messages
	TypeHello     MessageType = "hello"     // Session accepted
	TypeMotor     MessageType = "motor"     // Wheel velocities for a tick
	TypeDetection MessageType = "detection" // First sighting of an entity
	TypeError     MessageType = "error"     // Frame rejected

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// =============================================================================
// Simulator → Controller
// =============================================================================

// Point is a world coordinate triple.
type Point [3]float64

// Vec3 converts to the controller point type.
func (p Point) Vec3() bubblerob.Vec3 {
	return bubblerob.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// SensorReading is the wire form of one proximity sensor read.
type SensorReading struct {
	Detected bool    `json:"detected"`
	Distance float64 `json:"distance,omitempty"`
	Point    *Point  `json:"point,omitempty"`
	EntityID string  `json:"entity_id,omitempty"`
	Alias    string  `json:"alias,omitempty"`
}

// Hit converts the reading to a controller sensor hit.
func (r SensorReading) Hit() bubblerob.SensorHit {
	h := bubblerob.SensorHit{
		Detected: r.Detected,
		Distance: r.Distance,
		EntityID: r.EntityID,
		Alias:    r.Alias,
	}
	if r.Point != nil {
		v := r.Point.Vec3()
		h.Point = &v
	}
	return h
}

// TickData carries everything the controller reads during one tick.
type TickData struct {
	Seq    uint64        `json:"seq"`
	Time   float64       `json:"time"` // Simulation time (s)
	Pose   *Point        `json:"pose,omitempty"`
	Nose   SensorReading `json:"nose"`
	Fire   SensorReading `json:"fire"`
	Person SensorReading `json:"person"`
}

// =============================================================================
// Controller → Simulator
// =============================================================================

// HelloData is sent once when a simulator session is accepted.
type HelloData struct {
	SessionID string  `json:"session_id"`
	MinSpeed  float64 `json:"min_speed"`
	MaxSpeed  float64 `json:"max_speed"`
	Speed     float64 `json:"speed"`
}

// MotorData holds the wheel velocities for a tick.
type MotorData struct {
	Seq   uint64  `json:"seq"`
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
	State string  `json:"state"`
}

// DetectionData reports a first sighting.
type DetectionData struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Point   Point   `json:"point"`
	Time    float64 `json:"time"`
	Message string  `json:"message"`
}

// ErrorData explains a rejected frame.
type ErrorData struct {
	Error string `json:"error"`
}

// =============================================================================
// Bidirectional
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
