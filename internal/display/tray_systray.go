//go:build cgo
// +build cgo

package display

import (
	"context"
	"runtime"
	"sync"

	"github.com/getlantern/systray"

	"github.com/example/mpvmenu/internal/logging"
	"github.com/example/mpvmenu/internal/menu"
)

const trayBuilt = true

// Tray presents menus through the system tray. The tray stays up for the whole
// process; Show swaps the menu in and out around each popup.
//
// systray cannot remove items, so native items are pooled by their position
// in the menu and reused by later popups. The pool only grows to the largest
// menu shape shown.
type Tray struct {
	mu      sync.Mutex
	idle    *systray.MenuItem
	dismiss *systray.MenuItem
	slots   map[string]*systray.MenuItem
}

// NewTray returns a tray presenter. Run must be called before Show.
func NewTray() *Tray {
	return &Tray{slots: make(map[string]*systray.MenuItem)}
}

// Run starts the tray event loop on the calling goroutine, which must be the
// main goroutine on macOS, and runs fn alongside it. The tray exits when fn
// returns or ctx ends; Run then returns fn's error.
func (t *Tray) Run(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	systray.Run(func() {
		icon := trayIcon(defaultIconData)
		systray.SetIcon(icon)
		if runtime.GOOS == "darwin" {
			systray.SetTemplateIcon(icon, icon)
		}
		systray.SetTitle("mpv")
		systray.SetTooltip("mpv context menu")

		t.mu.Lock()
		t.idle = systray.AddMenuItem("Waiting for mpv", "Trigger the menu from mpv to populate it")
		t.idle.Disable()
		t.dismiss = systray.AddMenuItem("Close menu", "Dismiss without choosing")
		t.dismiss.Hide()
		t.mu.Unlock()

		go func() {
			<-ctx.Done()
			systray.Quit()
		}()
		go func() {
			errCh <- fn(ctx)
			systray.Quit()
		}()
	}, cancel)

	return <-errCh
}

// Show renders m into the tray and blocks until an entry is clicked, the
// "Close menu" item is clicked (nil entry) or ctx ends.
func (t *Tray) Show(ctx context.Context, m *menu.Menu) (*menu.Entry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.idle == nil {
		return nil, ErrTrayUnavailable
	}
	t.idle.Hide()
	defer t.idle.Show()

	// Buffered so the first click wins and later clicks are dropped.
	picked := make(chan *menu.Entry, 1)
	items := t.render(ctx, m.Entries, nil, "", picked)
	t.dismiss.Show()
	items = append(items, t.dismiss)
	defer func() {
		for _, mi := range items {
			mi.Hide()
		}
	}()
	logging.Debugf("tray menu rendered with %d items, %d pooled", len(items), len(t.slots))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.dismiss.ClickedCh:
		return nil, nil
	case e := <-picked:
		return e, nil
	}
}

func (t *Tray) render(ctx context.Context, entries []*menu.Entry, parent *systray.MenuItem, prefix string, picked chan<- *menu.Entry) []*systray.MenuItem {
	items := make([]*systray.MenuItem, 0, len(entries))
	for i, e := range entries {
		key := slotKey(prefix, i, e)
		mi := t.slot(key, parent, e.Checkable)
		switch {
		case e.IsSeparator():
			// systray separators cannot be hidden, so a disabled dash stands in.
			mi.SetTitle("—")
			mi.Disable()
			items = append(items, mi)
		case e.IsSubmenu():
			mi.SetTitle(e.Label)
			if len(e.Children) == 0 {
				mi.Disable()
			} else {
				mi.Enable()
			}
			go drainClicks(ctx, mi.ClickedCh)
			items = append(items, mi)
			items = append(items, t.render(ctx, e.Children, mi, key, picked)...)
		default:
			mi.SetTitle(e.Label)
			mi.Enable()
			if e.Checkable {
				if e.Checked {
					mi.Check()
				} else {
					mi.Uncheck()
				}
			}
			go forwardClick(ctx, mi.ClickedCh, e, picked)
			items = append(items, mi)
		}
	}
	for _, mi := range items {
		mi.Show()
	}
	return items
}

// slot returns the pooled item at key, creating it under parent on first use.
func (t *Tray) slot(key string, parent *systray.MenuItem, checkable bool) *systray.MenuItem {
	if mi, ok := t.slots[key]; ok {
		return mi
	}
	mi := addItem(parent, "", checkable, false)
	t.slots[key] = mi
	return mi
}

func addItem(parent *systray.MenuItem, label string, checkable, checked bool) *systray.MenuItem {
	switch {
	case parent == nil && checkable:
		return systray.AddMenuItemCheckbox(label, "", checked)
	case parent == nil:
		return systray.AddMenuItem(label, "")
	case checkable:
		return parent.AddSubMenuItemCheckbox(label, "", checked)
	default:
		return parent.AddSubMenuItem(label, "")
	}
}

func forwardClick(ctx context.Context, ch <-chan struct{}, e *menu.Entry, picked chan<- *menu.Entry) {
	select {
	case <-ctx.Done():
	case _, ok := <-ch:
		if !ok {
			return
		}
		select {
		case picked <- e:
		default:
		}
	}
}

func drainClicks(ctx context.Context, ch <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
		}
	}
}
