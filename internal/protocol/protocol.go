package protocol

import (
	"encoding/json"
	"fmt"
)

// docs: https://mpv.io/manual/stable/#json-ipc

const (
	// StatusSuccess is the error value mpv reports for a successful command.
	StatusSuccess = "success"

	// EventClientMessage is emitted for script-message commands; its args
	// carry the message name followed by its arguments.
	EventClientMessage = "client-message"
)

// Request is one command sent to the player.
type Request struct {
	Command []any `json:"command"`
}

// NewRequest builds the request for name with positional arguments.
func NewRequest(name string, args ...any) Request {
	cmd := make([]any, 0, len(args)+1)
	cmd = append(cmd, name)
	cmd = append(cmd, args...)
	return Request{Command: cmd}
}

// Message is any JSON object received from the player: either a reply to the
// pending request or an unsolicited event.
type Message map[string]json.RawMessage

// ParseMessage decodes one received line. Lines that are not JSON objects
// are rejected.
func ParseMessage(line []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return nil, fmt.Errorf("decode ipc message: %w", err)
	}
	if msg == nil {
		return nil, fmt.Errorf("decode ipc message: not an object: %s", line)
	}
	return msg, nil
}

// IsReply reports whether the message carries a result status and therefore
// answers the pending request.
func (m Message) IsReply() bool {
	_, ok := m["error"]
	return ok
}

// Status returns the reply status ("success" or an error string).
func (m Message) Status() string {
	return m.stringField("error")
}

// Data returns the raw reply payload, or nil when absent.
func (m Message) Data() json.RawMessage {
	return m["data"]
}

// Event returns the event name and whether the message is an event at all.
func (m Message) Event() (string, bool) {
	if _, ok := m["event"]; !ok {
		return "", false
	}
	return m.stringField("event"), true
}

// Args returns the arguments of a client-message event by position.
// Non-string arguments become "" so later arguments keep their index.
func (m Message) Args() []string {
	raw, ok := m["args"]
	if !ok {
		return nil
	}
	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[i] = s
		}
	}
	return out
}

func (m Message) stringField(key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
