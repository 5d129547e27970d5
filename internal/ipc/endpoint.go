package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/example/mpvmenu/internal/logging"
)

// DefaultConnectDelay is the pause between connection attempts while the
// player has not created its socket yet.
const DefaultConnectDelay = 2 * time.Second

// Endpoint describes where the player's IPC server listens.
type Endpoint struct {
	Network string
	Address string
}

// DefaultEndpoint resolves the per-user socket path, honouring MPVMENU_SOCKET.
func DefaultEndpoint() Endpoint {
	if addr := strings.TrimSpace(os.Getenv("MPVMENU_SOCKET")); addr != "" {
		return Endpoint{Network: "unix", Address: addr}
	}
	return Endpoint{Network: "unix", Address: DefaultSocketPath()}
}

// DefaultSocketPath returns the socket mpv is expected to be started with
// (--input-ipc-server=<path>) for the current user.
func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("mpvsocket-%d", unix.Getuid()))
}

// DialContext makes a single connection attempt.
func (e Endpoint) DialContext(ctx context.Context) (net.Conn, error) {
	network := e.Network
	if network == "" {
		network = "unix"
	}
	d := &net.Dialer{Timeout: 5 * time.Second}
	return d.DialContext(ctx, network, e.Address)
}

// String provides a readable representation for logs.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", e.Network, e.Address)
}

// Connect dials the endpoint until it accepts a connection, sleeping delay
// between attempts. There is no attempt limit: the player may create its
// socket long after the companion starts. Only ctx cancellation ends the wait.
func Connect(ctx context.Context, e Endpoint, delay time.Duration) (*Conn, error) {
	if delay <= 0 {
		delay = DefaultConnectDelay
	}

	attempt := 0
	for {
		attempt++
		conn, err := e.DialContext(ctx)
		if err == nil {
			logging.Debugf("connected to %s after %d attempt(s)", e, attempt)
			return NewConn(conn), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == 1 {
			logging.Infof("waiting for mpv socket at %s", e.Address)
		}
		logging.Debugf("connect %s attempt %d failed: %v", e, attempt, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
