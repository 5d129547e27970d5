package logging

import (
	"strings"
	"testing"
)

func TestDescribePayloadUTF8(t *testing.T) {
	got := describePayload([]byte(`{"command":["get_property","pause"]}`))
	if !strings.HasPrefix(got, "(utf-8, 36 bytes): ") {
		t.Fatalf("unexpected description %q", got)
	}
	if !strings.HasSuffix(got, `"pause"]}`) {
		t.Fatalf("payload not echoed: %q", got)
	}
}

func TestDescribePayloadBinary(t *testing.T) {
	got := describePayload([]byte{0xff, 0xfe, 0x00})
	if !strings.HasPrefix(got, "(base64, 3 bytes): ") {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestDescribePayloadTruncates(t *testing.T) {
	body := []byte(strings.Repeat("a", maxPayloadLog+10))
	got := describePayload(body)
	if !strings.HasSuffix(got, "(10 bytes omitted)") {
		t.Fatalf("expected truncation marker, got %q", got[len(got)-40:])
	}
}
