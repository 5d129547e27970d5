package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/example/mpvmenu/internal/ipc"
	"github.com/example/mpvmenu/internal/logging"
	"github.com/example/mpvmenu/internal/protocol"
)

// maxQueuedEvents bounds events held back while a reply is awaited.
const maxQueuedEvents = 256

// Result is the outcome of one command. Data is only meaningful when OK.
type Result struct {
	OK     bool
	Status string
	Data   json.RawMessage
}

// Decode unmarshals the payload of a successful result into v.
func (r Result) Decode(v any) error {
	if !r.OK {
		return fmt.Errorf("decode result: command failed: %s", r.Status)
	}
	if len(r.Data) == 0 {
		return fmt.Errorf("decode result: no data")
	}
	return json.Unmarshal(r.Data, v)
}

// Client speaks mpv's request/reply dialect over a connection that also
// carries unsolicited events. At most one request is outstanding at a time:
// callers must not issue overlapping commands.
//
// Events that arrive while a reply is awaited are queued and handed out by
// later RecvData calls in arrival order.
type Client struct {
	conn   *ipc.Conn
	events []protocol.Message
}

// NewClient wraps an established connection.
func NewClient(conn *ipc.Conn) *Client {
	return &Client{conn: conn}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// SendCmd writes one command request.
func (c *Client) SendCmd(name string, args ...any) error {
	payload, err := json.Marshal(protocol.NewRequest(name, args...))
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", name, err)
	}
	return c.conn.SendLine(payload)
}

// RecvData returns the next message: a queued event if any, otherwise the next
// line from the wire. ipc.ErrEndOfStream signals that the session is over.
func (c *Client) RecvData() (protocol.Message, error) {
	if len(c.events) > 0 {
		msg := c.events[0]
		c.events[0] = nil
		c.events = c.events[1:]
		return msg, nil
	}
	return c.readMessage()
}

// GetResult reads until a message carrying a result status arrives and
// returns it. Everything received before it is queued as an event.
func (c *Client) GetResult() (protocol.Message, error) {
	for {
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		if msg.IsReply() {
			return msg, nil
		}
		c.queue(msg)
	}
}

// Pending reports how many events are queued.
func (c *Client) Pending() int {
	return len(c.events)
}

// Command sends name with args and waits for its reply. The returned error is
// reserved for transport and framing faults; a command the player rejects
// yields a Result with OK false.
func (c *Client) Command(name string, args ...any) (Result, error) {
	if err := c.SendCmd(name, args...); err != nil {
		return Result{}, err
	}
	reply, err := c.GetResult()
	if err != nil {
		return Result{}, err
	}

	res := Result{Status: reply.Status()}
	res.OK = res.Status == protocol.StatusSuccess
	if res.OK {
		res.Data = reply.Data()
	} else {
		logging.Debugf("command %s failed: %s", name, res.Status)
	}
	return res, nil
}

// GetProp reads a property. ok is false when the player cannot provide it.
func (c *Client) GetProp(name string) (json.RawMessage, bool, error) {
	res, err := c.Command("get_property", name)
	if err != nil {
		return nil, false, err
	}
	if !res.OK {
		return nil, false, nil
	}
	return res.Data, true, nil
}

// SetProp writes a property and reports whether the player accepted it.
func (c *Client) SetProp(name string, value any) (bool, error) {
	res, err := c.Command("set_property", name, value)
	if err != nil {
		return false, err
	}
	return res.OK, nil
}

// GetBool reads a boolean property; ok is false when absent or not a bool.
func (c *Client) GetBool(name string) (bool, bool, error) {
	var v bool
	ok, err := c.getTyped(name, &v)
	return v, ok, err
}

// GetString reads a string property.
func (c *Client) GetString(name string) (string, bool, error) {
	var v string
	ok, err := c.getTyped(name, &v)
	return v, ok, err
}

// GetInt reads an integer property.
func (c *Client) GetInt(name string) (int, bool, error) {
	var v int
	ok, err := c.getTyped(name, &v)
	return v, ok, err
}

func (c *Client) getTyped(name string, v any) (bool, error) {
	raw, ok, err := c.GetProp(name)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		logging.Debugf("property %s has unexpected value %s: %v", name, raw, err)
		return false, nil
	}
	return true, nil
}

func (c *Client) readMessage() (protocol.Message, error) {
	line, err := c.conn.RecvLine()
	if err != nil {
		return nil, err
	}
	return protocol.ParseMessage(line)
}

func (c *Client) queue(msg protocol.Message) {
	if len(c.events) >= maxQueuedEvents {
		logging.Debugf("event queue full, dropping oldest event")
		c.events[0] = nil
		c.events = c.events[1:]
	}
	c.events = append(c.events, msg)
}
