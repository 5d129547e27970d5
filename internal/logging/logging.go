package logging

import (
	"encoding/base64"
	"fmt"
	"sync/atomic"
	"unicode/utf8"

	"github.com/tr1v3r/pkg/log"
)

// maxPayloadLog bounds how much of a single IPC line is echoed into the log.
// track-list replies can run to several kilobytes.
const maxPayloadLog = 512

var debugEnabled atomic.Bool

// EnableDebug turns on verbose debug logging for the companion lifecycle.
func EnableDebug() {
	debugEnabled.Store(true)
	log.SetLevel(log.DebugLevel)
	log.Debug("[DEBUG] debug logging enabled")
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf emits a formatted debug log message when debugging is enabled.
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	log.Debug("[DEBUG] "+format, args...)
}

// Infof emits an informational message.
func Infof(format string, args ...interface{}) {
	log.Info(format, args...)
}

// Errorf emits an error message.
func Errorf(format string, args ...interface{}) {
	log.Error(format, args...)
}

// Close flushes the log backend. Call once before the process exits.
func Close() {
	log.Close()
}

// LogSend records an outbound IPC line when debugging is enabled.
func LogSend(line []byte) {
	if !DebugEnabled() || len(line) == 0 {
		return
	}
	log.Debug("[DEBUG] ipc --> %s", describePayload(line))
}

// LogRecv records an inbound IPC line when debugging is enabled.
func LogRecv(line []byte) {
	if !DebugEnabled() || len(line) == 0 {
		return
	}
	log.Debug("[DEBUG] ipc <-- %s", describePayload(line))
}

func describePayload(body []byte) string {
	shown := body
	suffix := ""
	if len(shown) > maxPayloadLog {
		shown = shown[:maxPayloadLog]
		suffix = fmt.Sprintf(" ... (%d bytes omitted)", len(body)-maxPayloadLog)
	}

	if utf8.Valid(shown) {
		return fmt.Sprintf("(utf-8, %d bytes): %s%s", len(body), string(shown), suffix)
	}

	encoded := base64.StdEncoding.EncodeToString(shown)
	return fmt.Sprintf("(base64, %d bytes): %s%s", len(body), encoded, suffix)
}
