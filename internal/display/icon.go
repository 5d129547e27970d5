package display

import _ "embed"

//go:embed icon.png
var defaultIconData []byte

// trayIcon returns a private copy of data, or of the embedded icon when data
// is empty.
func trayIcon(data []byte) []byte {
	if len(data) == 0 {
		data = defaultIconData
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp
}
