//go:build !cgo
// +build !cgo

package display

import (
	"context"

	"github.com/example/mpvmenu/internal/menu"
)

const trayBuilt = false

// Tray is unavailable without cgo support.
type Tray struct{}

// NewTray returns a tray presenter that always fails.
func NewTray() *Tray {
	return &Tray{}
}

// Run returns ErrTrayUnavailable.
func (t *Tray) Run(context.Context, func(context.Context) error) error {
	return ErrTrayUnavailable
}

// Show returns ErrTrayUnavailable.
func (t *Tray) Show(context.Context, *menu.Menu) (*menu.Entry, error) {
	return nil, ErrTrayUnavailable
}
