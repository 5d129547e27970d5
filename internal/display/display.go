// Package display renders a built menu and reports the user's choice, either
// as a system tray menu or as a full-screen terminal list.
package display

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Mode selects a presenter.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeTray     Mode = "tray"
	ModeTerminal Mode = "terminal"
)

var (
	// ErrTrayUnavailable is returned when the binary was built without tray
	// support or no graphical session is present.
	ErrTrayUnavailable = errors.New("display: system tray is unavailable")
	// ErrNoTerminal is returned when the terminal presenter has no tty.
	ErrNoTerminal = errors.New("display: stdin is not a terminal")
)

// ParseMode validates a mode name. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeTray, ModeTerminal:
		return m, nil
	default:
		return "", fmt.Errorf("unknown presenter %q (want auto, tray or terminal)", s)
	}
}

// Resolve turns mode into a concrete presenter choice given what the process
// has available. Auto prefers the tray and falls back to the terminal.
func Resolve(mode Mode, trayOK, tty bool) (Mode, error) {
	switch mode {
	case ModeTray:
		if !trayOK {
			return "", ErrTrayUnavailable
		}
		return ModeTray, nil
	case ModeTerminal:
		if !tty {
			return "", ErrNoTerminal
		}
		return ModeTerminal, nil
	case ModeAuto, "":
		switch {
		case trayOK:
			return ModeTray, nil
		case tty:
			return ModeTerminal, nil
		default:
			return "", fmt.Errorf("no presenter available: %w", ErrTrayUnavailable)
		}
	default:
		return "", fmt.Errorf("unknown presenter %q", mode)
	}
}

// TrayAvailable reports whether a tray can be shown: the binary must carry
// tray support and, outside macOS, an X11 or Wayland display must be set.
func TrayAvailable() bool {
	if !trayBuilt {
		return false
	}
	if runtime.GOOS == "darwin" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
