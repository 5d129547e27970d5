package menu

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/example/mpvmenu/internal/logging"
)

// ErrQuit is returned by the quit action; it ends the companion instead of
// restarting the session.
var ErrQuit = errors.New("menu: quit requested")

// Desktop is the set of desktop collaborators post-menu actions use.
type Desktop interface {
	// ChooseFile returns the chosen absolute path, or "" when cancelled.
	ChooseFile(ctx context.Context, dir, title string) (string, error)
	ShowError(ctx context.Context, title, message string)
	FetchSubtitles(ctx context.Context, mediaPath string) error
	OpenURL(ctx context.Context, raw string) error
}

// PostAction is an effect deferred until the menu has fully closed.
type PostAction func(ctx context.Context) error

// Env is the per-connection state menu items act on: the player handle, the
// player's working directory, and the single pending post-menu action.
type Env struct {
	Player     Player
	Desktop    Desktop
	WorkingDir string

	pending PostAction
}

// NewEnv builds an Env for one connection.
func NewEnv(p Player, d Desktop, workingDir string) *Env {
	return &Env{Player: p, Desktop: d, WorkingDir: workingDir}
}

// Defer schedules fn to run after the menu closes. Only one action can be
// pending; a later call replaces an earlier one.
func (e *Env) Defer(fn PostAction) {
	if e.pending != nil {
		logging.Debugf("replacing pending post-menu action")
	}
	e.pending = fn
}

// HasPending reports whether a post-menu action is scheduled.
func (e *Env) HasPending() bool {
	return e.pending != nil
}

// RunPending runs and clears the pending post-menu action, if any.
func (e *Env) RunPending(ctx context.Context) error {
	fn := e.pending
	e.pending = nil
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Abs resolves path against the player's working directory. Empty paths and
// URLs are returned unchanged.
func (e *Env) Abs(path string) string {
	if path == "" || filepath.IsAbs(path) || isURL(path) {
		return path
	}
	if e.WorkingDir == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return path
		}
		return abs
	}
	return filepath.Join(e.WorkingDir, path)
}

// isURL matches mpv stream paths such as https:// or ytdl:// locations.
func isURL(path string) bool {
	return strings.Contains(path, "://")
}
