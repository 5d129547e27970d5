package protocol

import (
	"encoding/json"
	"testing"
)

func TestNewRequestEncoding(t *testing.T) {
	raw, err := json.Marshal(NewRequest("set_property", "pause", true))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"command":["set_property","pause",true]}` {
		t.Fatalf("unexpected encoding %s", raw)
	}
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantReply bool
		wantEvent string
		isEvent   bool
		wantArgs  []string
		wantErr   bool
	}{
		{name: "success reply", line: `{"data":42,"error":"success"}`, wantReply: true},
		{name: "failed reply", line: `{"error":"property unavailable"}`, wantReply: true},
		{name: "client message", line: `{"event":"client-message","args":["popup_menu","x"]}`, isEvent: true, wantEvent: "client-message", wantArgs: []string{"popup_menu", "x"}},
		{name: "mixed args", line: `{"event":"client-message","args":["popup_menu",3]}`, isEvent: true, wantEvent: "client-message", wantArgs: []string{"popup_menu", ""}},
		{name: "non-string first arg", line: `{"event":"client-message","args":[7,"popup_menu"]}`, isEvent: true, wantEvent: "client-message", wantArgs: []string{"", "popup_menu"}},
		{name: "null arg", line: `{"event":"client-message","args":[null]}`, isEvent: true, wantEvent: "client-message", wantArgs: []string{""}},
		{name: "unknown shape", line: `{"foo":"bar"}`},
		{name: "array", line: `[1,2]`, wantErr: true},
		{name: "null", line: `null`, wantErr: true},
		{name: "garbage", line: `{"event":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage([]byte(tt.line))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMessage returned error: %v", err)
			}
			if msg.IsReply() != tt.wantReply {
				t.Fatalf("IsReply = %v, want %v", msg.IsReply(), tt.wantReply)
			}
			event, ok := msg.Event()
			if ok != tt.isEvent || event != tt.wantEvent {
				t.Fatalf("Event = (%q, %v), want (%q, %v)", event, ok, tt.wantEvent, tt.isEvent)
			}
			args := msg.Args()
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Fatalf("Args = %v, want %v", args, tt.wantArgs)
				}
			}
		})
	}
}

func TestReplyStatusAndData(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"data":"/home/me","error":"success","request_id":0}`))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.Status() != StatusSuccess {
		t.Fatalf("Status = %q", msg.Status())
	}
	if string(msg.Data()) != `"/home/me"` {
		t.Fatalf("Data = %s", msg.Data())
	}
}
