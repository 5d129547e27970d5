//go:build !darwin
// +build !darwin

package desktop

func launcher(raw string) (string, []string) {
	return "xdg-open", []string{raw}
}
