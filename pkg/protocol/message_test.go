package protocol

import (
	"testing"

	"github.com/teslashibe/go-bubblerob/pkg/bubblerob"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		msgType MessageType
		data    interface{}
		wantErr bool
	}{
		{
			name:    "tick message",
			msgType: TypeTick,
			data:    TickData{Seq: 1, Time: 0.05},
			wantErr: false,
		},
		{
			name:    "motor message",
			msgType: TypeMotor,
			data:    MotorData{Left: 1, Right: 1, State: "forward"},
			wantErr: false,
		},
		{
			name:    "nil data",
			msgType: TypePing,
			data:    nil,
			wantErr: false,
		},
		{
			name:    "unmarshalable data",
			msgType: TypeTick,
			data:    make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.msgType, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if msg.Type != tt.msgType {
				t.Errorf("NewMessage() type = %v, want %v", msg.Type, tt.msgType)
			}
			if msg.Timestamp == 0 {
				t.Error("NewMessage() timestamp should be set")
			}
		})
	}
}

func TestParseMessage_Invalid(t *testing.T) {
	tests := []string{
		"not json",
		`{"data":{}}`,
		"",
	}
	for _, in := range tests {
		if _, err := ParseMessage([]byte(in)); err == nil {
			t.Errorf("ParseMessage(%q) should fail", in)
		}
	}
}

func TestTickReadings(t *testing.T) {
	raw := []byte(`{"type":"tick","data":{"seq":7,"time":5.25,
		"nose":{"detected":true,"distance":0.12},
		"fire":{"detected":true,"point":[1,2,0.5],"entity_id":"17","alias":"Fire2"},
		"person":{"detected":false}}}`)

	msg, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	tick, err := msg.GetTickData()
	if err != nil {
		t.Fatalf("GetTickData() error = %v", err)
	}
	if tick.Seq != 7 || tick.Time != 5.25 {
		t.Errorf("seq=%d time=%v", tick.Seq, tick.Time)
	}

	r := tick.Readings()
	if !r.Nose.Detected || r.Nose.Point != nil {
		t.Errorf("nose = %+v", r.Nose)
	}
	if r.Fire.Point == nil || *r.Fire.Point != (bubblerob.Vec3{X: 1, Y: 2, Z: 0.5}) {
		t.Errorf("fire point = %v", r.Fire.Point)
	}
	if r.Fire.Alias != "Fire2" || r.Fire.EntityID != "17" {
		t.Errorf("fire = %+v", r.Fire)
	}
	if r.Person.Detected {
		t.Error("person should not be detected")
	}
}

func TestDetectionMessage(t *testing.T) {
	d := bubblerob.Detection{ID: "Fire0", Kind: bubblerob.KindFire, Point: bubblerob.Vec3{X: 1, Y: 2, Z: 3}, Time: 4}

	msg, err := NewDetectionMessage(d)
	if err != nil {
		t.Fatalf("NewDetectionMessage() error = %v", err)
	}
	data, err := msg.GetDetectionData()
	if err != nil {
		t.Fatalf("GetDetectionData() error = %v", err)
	}
	if data.Kind != "fire" || data.Message != "[Alert] - Fire0 has been spotted at (1.0, 2.0, 3.0)" {
		t.Errorf("unexpected detection data %+v", data)
	}
}

func TestMotorMessage(t *testing.T) {
	msg, err := NewMotorMessage(3, bubblerob.MotorCommand{Left: -4, Right: -0.1}, bubblerob.StateBacking)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := msg.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatal(err)
	}
	m, err := parsed.GetMotorData()
	if err != nil {
		t.Fatal(err)
	}
	if m.Seq != 3 || m.Left != -4 || m.Right != -0.1 || m.State != "backing" {
		t.Errorf("motor = %+v", m)
	}
}

func TestPongLatency(t *testing.T) {
	msg, _ := NewPongMessage("p1", 1000, 1025)
	pong, err := msg.GetPongData()
	if err != nil {
		t.Fatal(err)
	}
	if pong.LatencyMs != 25 {
		t.Errorf("LatencyMs = %d, want 25", pong.LatencyMs)
	}
}
