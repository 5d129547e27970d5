package display

import (
	"strings"
	"testing"

	"github.com/example/mpvmenu/internal/menu"
)

// slotKeys lists the keys a tray render of entries touches, depth first.
func slotKeys(prefix string, entries []*menu.Entry) []string {
	var keys []string
	for i, e := range entries {
		key := slotKey(prefix, i, e)
		keys = append(keys, key)
		if e.IsSubmenu() {
			keys = append(keys, slotKeys(key, e.Children)...)
		}
	}
	return keys
}

func TestSlotKeysAreStableAcrossPopups(t *testing.T) {
	first := slotKeys("", buildTestMenu(t).Entries)
	second := slotKeys("", buildTestMenu(t).Entries)

	if strings.Join(first, " ") != strings.Join(second, " ") {
		t.Fatalf("reopened menu maps to new slots:\n%v\n%v", first, second)
	}
	seen := make(map[string]bool)
	for _, k := range first {
		if seen[k] {
			t.Fatalf("slot %q used twice in one render", k)
		}
		seen[k] = true
	}
	pool := make(map[string]bool)
	for i := 0; i < 50; i++ {
		for _, k := range slotKeys("", buildTestMenu(t).Entries) {
			pool[k] = true
		}
	}
	if len(pool) != len(first) {
		t.Fatalf("pool grew to %d slots over repeated popups, want %d", len(pool), len(first))
	}
}

func TestSlotKeysSeparateKinds(t *testing.T) {
	want := []string{
		"/0>",    // Playback
		"/0>/0x", // Pause
		"/0>/1x", // Mute
		"/1>",    // Audio, no tracks
		"/2-",
		"/3.", // Open file
		"/4.", // Quit menu
	}
	got := slotKeys("", buildTestMenu(t).Entries)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("slotKeys = %v, want %v", got, want)
	}
}
