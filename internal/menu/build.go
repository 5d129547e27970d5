package menu

import (
	"context"
	"fmt"

	"github.com/example/mpvmenu/internal/logging"
)

// Entry is a materialised menu element ready for display.
type Entry struct {
	ID        int
	Label     string
	Kind      Kind
	Checkable bool
	Checked   bool
	Children  []*Entry

	submenu bool
	item    Item
}

// IsSubmenu reports whether the entry opens a nested menu.
func (e *Entry) IsSubmenu() bool {
	return e.submenu
}

// IsSeparator reports whether the entry is a divider.
func (e *Entry) IsSeparator() bool {
	return !e.submenu && e.Kind == KindSeparator
}

// Selectable reports whether choosing the entry activates something.
func (e *Entry) Selectable() bool {
	return !e.submenu && e.Kind != KindSeparator
}

// Menu is one built instance of the layout. Check states are snapshots taken
// while building and are not refreshed afterwards.
type Menu struct {
	Entries []*Entry

	env       *Env
	nextID    int
	tracks    *TrackGroups
	activated bool
}

// Build materialises nodes against the player. Every leaf's init runs exactly
// once here, and track lists are read at most once, so the menu reflects the
// player's state at construction time.
func Build(ctx context.Context, env *Env, nodes []Node) (*Menu, error) {
	m := &Menu{env: env}
	entries, err := m.build(ctx, nodes)
	if err != nil {
		return nil, err
	}
	m.Entries = entries
	return m, nil
}

func (m *Menu) build(ctx context.Context, nodes []Node) ([]*Entry, error) {
	out := make([]*Entry, 0, len(nodes))
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch {
		case n.IsLeaf():
			entry, err := m.leaf(*n.Item)
			if err != nil {
				return nil, err
			}
			out = append(out, entry)
		case n.IsTrackList():
			children, err := m.trackEntries(n.Tracks)
			if err != nil {
				return nil, err
			}
			out = append(out, m.submenu(n.Label, children))
		default:
			children, err := m.build(ctx, n.Children)
			if err != nil {
				return nil, err
			}
			out = append(out, m.submenu(n.Label, children))
		}
	}
	return out, nil
}

func (m *Menu) leaf(item Item) (*Entry, error) {
	checked, err := item.init(m.env.Player)
	if err != nil {
		return nil, fmt.Errorf("init %q: %w", item.Label, err)
	}
	m.nextID++
	return &Entry{
		ID:        m.nextID,
		Label:     item.Label,
		Kind:      item.Kind,
		Checkable: item.Checkable(),
		Checked:   checked,
		item:      item,
	}, nil
}

func (m *Menu) submenu(label string, children []*Entry) *Entry {
	m.nextID++
	return &Entry{ID: m.nextID, Label: label, submenu: true, Children: children}
}

func (m *Menu) trackEntries(t TrackType) ([]*Entry, error) {
	if m.tracks == nil {
		groups, err := QueryTracks(m.env.Player)
		if err != nil {
			return nil, fmt.Errorf("query tracks: %w", err)
		}
		m.tracks = &groups
		logging.Debugf("track table: %d video, %d audio, %d sub", len(groups.Video), len(groups.Audio), len(groups.Sub))
	}

	tracks := m.tracks.Of(t)
	out := make([]*Entry, 0, len(tracks))
	for _, tr := range tracks {
		entry, err := m.leaf(SetProperty(tr.DisplayName(), t.SelectProperty(), tr.ID))
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// Activated reports whether an entry of this menu has been activated.
func (m *Menu) Activated() bool {
	return m.activated
}

// Activate runs the chosen entry's effect. Only the first call per menu has
// any effect, so a widget that fires its selection twice cannot double-apply.
func (m *Menu) Activate(ctx context.Context, e *Entry) error {
	if e == nil || !e.Selectable() {
		return nil
	}
	if m.activated {
		logging.Debugf("ignoring repeated activation of %q", e.Label)
		return nil
	}
	m.activated = true
	logging.Debugf("activating %s item %q", e.Kind, e.Label)
	return e.item.activate(ctx, m.env, e.Checked)
}

// Find returns the first selectable entry with the given label, searching
// submenus depth-first.
func (m *Menu) Find(label string) *Entry {
	return find(m.Entries, label)
}

// FindByID returns the entry with the given ID.
func (m *Menu) FindByID(id int) *Entry {
	var found *Entry
	visit(m.Entries, func(e *Entry) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

func find(entries []*Entry, label string) *Entry {
	var found *Entry
	visit(entries, func(e *Entry) bool {
		if e.Selectable() && e.Label == label {
			found = e
			return false
		}
		return true
	})
	return found
}

// visit walks entries depth-first until fn returns false.
func visit(entries []*Entry, fn func(*Entry) bool) bool {
	for _, e := range entries {
		if !fn(e) {
			return false
		}
		if e.submenu && !visit(e.Children, fn) {
			return false
		}
	}
	return true
}
