// Package hub provides a thread-safe websocket broadcast hub for controller
// telemetry, using the channel-based fan-out pattern.
package hub

import "encoding/json"

// EventKind names a telemetry event.
type EventKind string

const (
	EventStatus    EventKind = "status"    // Controller snapshot
	EventMotor     EventKind = "motor"     // Wheel command for a tick
	EventDetection EventKind = "detection" // First sighting
	EventSession   EventKind = "session"   // Session opened/closed
)

// Event is the JSON envelope sent to dashboard clients.
type Event struct {
	Kind    EventKind   `json:"kind"`
	Session string      `json:"session,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Message is an encoded event queued for delivery.
type Message struct {
	Session string // Empty for events every client should see
	Data    []byte
}

// newMessage encodes e.
func newMessage(e Event) (Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Message{}, err
	}
	return Message{Session: e.Session, Data: data}, nil
}
