package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/mpvmenu/internal/logging"
	"github.com/example/mpvmenu/internal/menu"
	"github.com/example/mpvmenu/internal/protocol"
	"github.com/example/mpvmenu/internal/rpc"
)

// DefaultTrigger is the client-message that opens the menu, sent from mpv
// with e.g. `MBTN_RIGHT script-message popup_menu` in input.conf.
const DefaultTrigger = "popup_menu"

// ErrNoPresenter is returned by Run when Options carries no Presenter.
var ErrNoPresenter = errors.New("session: no menu presenter configured")

// State is the loop's position in its two-state machine.
type State int

const (
	StateIdle State = iota
	StateMenuOpen
)

func (s State) String() string {
	if s == StateMenuOpen {
		return "menu-open"
	}
	return "idle"
}

// Presenter displays a built menu and blocks until the user picks an entry or
// dismisses the menu (nil entry).
type Presenter interface {
	Show(ctx context.Context, m *menu.Menu) (*menu.Entry, error)
}

// Options configures a session.
type Options struct {
	Trigger   string
	Layout    []menu.Node
	Presenter Presenter
	Desktop   menu.Desktop
}

// Loop waits for the trigger event on one connection and runs the menu.
type Loop struct {
	client *rpc.Client
	opts   Options
	id     string
	state  State
	env    *menu.Env
}

// NewLoop prepares a loop over client. id tags the loop's log lines.
func NewLoop(client *rpc.Client, opts Options, id string) *Loop {
	if opts.Trigger == "" {
		opts.Trigger = DefaultTrigger
	}
	if opts.Layout == nil {
		opts.Layout = menu.DefaultLayout()
	}
	return &Loop{client: client, opts: opts, id: id}
}

// State returns the loop's current state.
func (l *Loop) State() State {
	return l.state
}

// Run resolves the player's working directory and then dispatches events
// until the stream ends (ipc.ErrEndOfStream), a transport fault occurs, or an
// activated item asks to quit (menu.ErrQuit).
func (l *Loop) Run(ctx context.Context) error {
	if l.opts.Presenter == nil {
		return ErrNoPresenter
	}
	wd, ok, err := l.client.GetString("working-directory")
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if !ok {
		logging.Debugf("[%s] working-directory unavailable", l.id)
	}
	l.env = menu.NewEnv(l.client, l.opts.Desktop, wd)
	l.state = StateIdle
	logging.Debugf("[%s] session ready, working directory %q", l.id, wd)

	for {
		msg, err := l.client.RecvData()
		if err != nil {
			return err
		}
		if !l.isTrigger(msg) {
			continue
		}
		if err := l.openMenu(ctx); err != nil {
			return err
		}
	}
}

func (l *Loop) isTrigger(msg protocol.Message) bool {
	event, ok := msg.Event()
	if !ok || event != protocol.EventClientMessage {
		return false
	}
	args := msg.Args()
	return len(args) > 0 && args[0] == l.opts.Trigger
}

func (l *Loop) openMenu(ctx context.Context) error {
	l.state = StateMenuOpen
	defer func() { l.state = StateIdle }()

	m, err := menu.Build(ctx, l.env, l.opts.Layout)
	if err != nil {
		return fmt.Errorf("build menu: %w", err)
	}
	logging.Debugf("[%s] menu built with %d top-level entries", l.id, len(m.Entries))

	chosen, err := l.opts.Presenter.Show(ctx, m)
	if err != nil {
		return fmt.Errorf("show menu: %w", err)
	}
	if chosen == nil {
		logging.Debugf("[%s] menu dismissed", l.id)
	} else if err := m.Activate(ctx, chosen); err != nil {
		return err
	}

	if l.env.HasPending() {
		logging.Debugf("[%s] running post-menu action", l.id)
	}
	return l.env.RunPending(ctx)
}
