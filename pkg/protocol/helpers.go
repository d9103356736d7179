package protocol

import "github.com/teslashibe/go-bubblerob/pkg/bubblerob"

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewTickMessage creates a tick message
func NewTickMessage(tick TickData) (*Message, error) {
	return NewMessage(TypeTick, tick)
}

// NewHelloMessage creates a hello message
func NewHelloMessage(sessionID string, minSpeed, maxSpeed, speed float64) (*Message, error) {
	return NewMessage(TypeHello, HelloData{
		SessionID: sessionID,
		MinSpeed:  minSpeed,
		MaxSpeed:  maxSpeed,
		Speed:     speed,
	})
}

// NewMotorMessage creates a motor command message
func NewMotorMessage(seq uint64, cmd bubblerob.MotorCommand, state bubblerob.State) (*Message, error) {
	return NewMessage(TypeMotor, MotorData{
		Seq:   seq,
		Left:  cmd.Left,
		Right: cmd.Right,
		State: state.String(),
	})
}

// NewDetectionMessage creates a detection message
func NewDetectionMessage(d bubblerob.Detection) (*Message, error) {
	return NewMessage(TypeDetection, DetectionData{
		ID:      d.ID,
		Kind:    d.Kind.String(),
		Point:   Point{d.Point.X, d.Point.Y, d.Point.Z},
		Time:    d.Time,
		Message: d.Message(),
	})
}

// NewErrorMessage creates an error message
func NewErrorMessage(err error) (*Message, error) {
	return NewMessage(TypeError, ErrorData{Error: err.Error()})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{ID: id})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetTickData extracts tick data from a message
func (m *Message) GetTickData() (*TickData, error) {
	var data TickData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Readings converts the tick's sensor block for the controller.
func (t *TickData) Readings() bubblerob.Readings {
	return bubblerob.Readings{
		Nose:   t.Nose.Hit(),
		Fire:   t.Fire.Hit(),
		Person: t.Person.Hit(),
	}
}

// GetHelloData extracts hello data from a message
func (m *Message) GetHelloData() (*HelloData, error) {
	var data HelloData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetMotorData extracts motor data from a message
func (m *Message) GetMotorData() (*MotorData, error) {
	var data MotorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetDetectionData extracts detection data from a message
func (m *Message) GetDetectionData() (*DetectionData, error) {
	var data DetectionData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetErrorData extracts error data from a message
func (m *Message) GetErrorData() (*ErrorData, error) {
	var data ErrorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
