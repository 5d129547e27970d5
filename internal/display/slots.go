package display

import (
	"strconv"

	"github.com/example/mpvmenu/internal/menu"
)

// slotKey names the tray item that shows entries[i] under prefix. The same
// position and kind always maps to the same key, so a reopened menu reuses
// its items. The kind is part of the key because checkbox items cannot
// change type once created.
func slotKey(prefix string, i int, e *menu.Entry) string {
	key := prefix + "/" + strconv.Itoa(i)
	switch {
	case e.IsSeparator():
		return key + "-"
	case e.IsSubmenu():
		return key + ">"
	case e.Checkable:
		return key + "x"
	default:
		return key + "."
	}
}
