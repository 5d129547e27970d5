package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/example/mpvmenu/internal/ipc"
	"github.com/example/mpvmenu/internal/logging"
	"github.com/example/mpvmenu/internal/menu"
	"github.com/example/mpvmenu/internal/rpc"
)

// DialFunc establishes a fresh player connection, blocking until one is
// available or ctx ends.
type DialFunc func(ctx context.Context) (*ipc.Conn, error)

// Supervisor keeps a session running across player restarts. Each attempt
// gets a new connection and fresh session state.
type Supervisor struct {
	dial DialFunc
	opts Options

	restarts int
}

// NewSupervisor builds a supervisor around dial.
func NewSupervisor(dial DialFunc, opts Options) *Supervisor {
	return &Supervisor{dial: dial, opts: opts}
}

// Restarts reports how many times a session was restarted.
func (s *Supervisor) Restarts() int {
	return s.restarts
}

// Run loops until the quit action (returns nil), ctx cancellation, or an
// error that does not mean "the player went away" (returned as is).
func (s *Supervisor) Run(ctx context.Context) error {
	if s.opts.Presenter == nil {
		return ErrNoPresenter
	}
	for {
		conn, err := s.dial(ctx)
		if err != nil {
			return err
		}

		id := uuid.NewString()
		err = s.runOnce(ctx, conn, id)

		switch {
		case errors.Is(err, menu.ErrQuit):
			logging.Infof("quit requested, exiting")
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ipc.ErrEndOfStream):
			logging.Infof("[%s] mpv closed the connection, reconnecting", id)
		case ipc.IsPeerGone(err):
			logging.Infof("[%s] lost mpv connection (%v), reconnecting", id, err)
		case err == nil:
			logging.Debugf("[%s] session ended, reconnecting", id)
		default:
			return err
		}
		s.restarts++
	}
}

func (s *Supervisor) runOnce(ctx context.Context, conn *ipc.Conn, id string) error {
	client := rpc.NewClient(conn)
	defer client.Close()

	// Unblock the loop's pending read when ctx ends.
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	logging.Debugf("[%s] session started", id)
	return NewLoop(client, s.opts, id).Run(ctx)
}
