// Package mpvtest provides an in-process stand-in for mpv's JSON IPC server.
package mpvtest

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// Server listens on a Unix socket and answers get_property/set_property from
// an in-memory property table. Every other command is recorded and succeeds.
type Server struct {
	Path string

	ln  net.Listener
	dir string

	mu       sync.Mutex
	props    map[string]any
	commands [][]any
	conns    []*serverConn
	accepted int
	failing  map[string]string
}

type serverConn struct {
	conn net.Conn
	wmu  sync.Mutex
}

// NewServer starts a server and registers its shutdown with t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()

	// Unix socket paths are length limited; keep them short.
	dir, err := os.MkdirTemp("", "mpvtest")
	if err != nil {
		t.Fatalf("mpvtest: temp dir: %v", err)
	}
	path := filepath.Join(dir, "mpv.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("mpvtest: listen: %v", err)
	}

	s := &Server{
		Path:    path,
		ln:      ln,
		dir:     dir,
		props:   make(map[string]any),
		failing: make(map[string]string),
	}
	go s.acceptLoop()
	t.Cleanup(s.Close)
	return s
}

// Close stops listening and drops every connection.
func (s *Server) Close() {
	_ = s.ln.Close()
	s.DropConnections()
	os.RemoveAll(s.dir)
}

// SetProperty seeds the property table.
func (s *Server) SetProperty(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.props[name] = value
}

// Property returns the current value of name.
func (s *Server) Property(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.props[name]
	return v, ok
}

// FailCommand makes every request named name fail with status.
func (s *Server) FailCommand(name, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[name] = status
}

// Commands returns a copy of every request received, in order.
func (s *Server) Commands() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.commands))
	copy(out, s.commands)
	return out
}

// CommandsNamed returns the recorded requests whose name matches.
func (s *Server) CommandsNamed(name string) [][]any {
	var out [][]any
	for _, cmd := range s.Commands() {
		if len(cmd) > 0 && cmd[0] == name {
			out = append(out, cmd)
		}
	}
	return out
}

// Accepted reports how many connections have been accepted so far.
func (s *Server) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

// WaitAccepted blocks until n connections were accepted or timeout elapses.
func (s *Server) WaitAccepted(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.Accepted() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// Emit sends an unsolicited event to every connected client.
func (s *Server) Emit(event map[string]any) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	conns := append([]*serverConn(nil), s.conns...)
	s.mu.Unlock()
	for _, c := range conns {
		if err := c.writeLine(raw); err != nil {
			return err
		}
	}
	return nil
}

// DropConnections closes every client connection, as a quitting player would.
func (s *Server) DropConnections() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()
	for _, c := range conns {
		_ = c.conn.Close()
	}
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		sc := &serverConn{conn: conn}
		s.mu.Lock()
		s.conns = append(s.conns, sc)
		s.accepted++
		s.mu.Unlock()
		go s.serve(sc)
	}
}

func (s *Server) serve(c *serverConn) {
	defer c.conn.Close()
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var req struct {
			Command []any `json:"command"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			_ = c.writeReply(map[string]any{"error": "invalid parameter"})
			continue
		}
		_ = c.writeReply(s.handle(req.Command))
	}
}

func (s *Server) handle(cmd []any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)

	if len(cmd) == 0 {
		return map[string]any{"error": "invalid parameter"}
	}
	name, _ := cmd[0].(string)
	if status, ok := s.failing[name]; ok {
		return map[string]any{"error": status}
	}

	switch name {
	case "get_property":
		if len(cmd) < 2 {
			return map[string]any{"error": "invalid parameter"}
		}
		prop, _ := cmd[1].(string)
		v, ok := s.props[prop]
		if !ok {
			return map[string]any{"error": "property unavailable"}
		}
		return map[string]any{"error": "success", "data": v}
	case "set_property":
		if len(cmd) < 3 {
			return map[string]any{"error": "invalid parameter"}
		}
		prop, _ := cmd[1].(string)
		s.props[prop] = cmd[2]
		return map[string]any{"error": "success"}
	default:
		return map[string]any{"error": "success", "data": nil}
	}
}

func (c *serverConn) writeReply(reply map[string]any) error {
	raw, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	return c.writeLine(raw)
}

func (c *serverConn) writeLine(raw []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.conn.Write(append(raw, '\n'))
	return err
}
