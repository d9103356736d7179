// Package simclient is the simulator side of the controller link. A
// simulation (or the scripted driver) uses it to send sensor ticks and
// receive wheel commands.
package simclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-bubblerob/pkg/protocol"
)

// ErrRejected is returned when the controller answers a frame with an error.
var ErrRejected = errors.New("controller rejected frame")

// Client is a single simulator connection. Not safe for concurrent use;
// the simulator drives it from its tick loop.
type Client struct {
	ws      *websocket.Conn
	hello   protocol.HelloData
	timeout time.Duration
}

// Dial connects to the controller link at url (ws://host:port/ws/sim).
// A non-empty sessionID is appended to the path.
func Dial(ctx context.Context, url, sessionID string) (*Client, error) {
	if sessionID != "" {
		url = strings.TrimRight(url, "/") + "/" + sessionID
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to controller: %w", err)
	}

	c := &Client{ws: ws, timeout: 5 * time.Second}

	msg, err := c.read()
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("waiting for hello: %w", err)
	}
	switch msg.Type {
	case protocol.TypeHello:
		hello, err := msg.GetHelloData()
		if err != nil {
			ws.Close()
			return nil, fmt.Errorf("bad hello: %w", err)
		}
		c.hello = *hello
	case protocol.TypeError:
		ws.Close()
		return nil, rejection(msg)
	default:
		ws.Close()
		return nil, fmt.Errorf("expected hello, got %q", msg.Type)
	}
	return c, nil
}

// SessionID returns the id assigned by the controller.
func (c *Client) SessionID() string { return c.hello.SessionID }

// Hello returns the session parameters announced by the controller.
func (c *Client) Hello() protocol.HelloData { return c.hello }

// SetTimeout sets how long Tick waits for the reply.
func (c *Client) SetTimeout(d time.Duration) { c.timeout = d }

// Result is the controller's answer to one tick.
type Result struct {
	Motor      protocol.MotorData
	Detections []protocol.DetectionData
}

// Tick sends one sensor frame and waits for its motor reply. Detection
// frames that arrive before the reply are collected into the result.
func (c *Client) Tick(tick protocol.TickData) (*Result, error) {
	msg, err := protocol.NewTickMessage(tick)
	if err != nil {
		return nil, err
	}
	if err := c.write(msg); err != nil {
		return nil, err
	}

	res := &Result{}
	for {
		reply, err := c.read()
		if err != nil {
			return nil, err
		}

		switch reply.Type {
		case protocol.TypeDetection:
			d, err := reply.GetDetectionData()
			if err != nil {
				return nil, err
			}
			res.Detections = append(res.Detections, *d)

		case protocol.TypeMotor:
			m, err := reply.GetMotorData()
			if err != nil {
				return nil, err
			}
			if m.Seq != tick.Seq {
				continue // stale reply
			}
			res.Motor = *m
			return res, nil

		case protocol.TypeError:
			return nil, rejection(reply)
		}
	}
}

// Ping measures the round trip to the controller.
func (c *Client) Ping(id string) (*protocol.PongData, error) {
	msg, err := protocol.NewPingMessage(id)
	if err != nil {
		return nil, err
	}
	if err := c.write(msg); err != nil {
		return nil, err
	}
	for {
		reply, err := c.read()
		if err != nil {
			return nil, err
		}
		if reply.Type == protocol.TypePong {
			return reply.GetPongData()
		}
	}
}

// Close ends the simulation and closes the connection.
func (c *Client) Close() error {
	if bye, err := protocol.NewMessage(protocol.TypeBye, nil); err == nil {
		c.write(bye)
	}
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.ws.Close()
}

func (c *Client) write(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	c.ws.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s: %w", msg.Type, err)
	}
	return nil
}

func (c *Client) read() (*protocol.Message, error) {
	c.ws.SetReadDeadline(time.Now().Add(c.timeout))
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return protocol.ParseMessage(data)
}

func rejection(msg *protocol.Message) error {
	e, err := msg.GetErrorData()
	if err != nil || e.Error == "" {
		return ErrRejected
	}
	return fmt.Errorf("%w: %s", ErrRejected, e.Error)
}
