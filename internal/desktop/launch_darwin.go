//go:build darwin
// +build darwin

package desktop

func launcher(raw string) (string, []string) {
	return "open", []string{raw}
}
