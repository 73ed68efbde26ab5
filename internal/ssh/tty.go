// Package ssh adapts gliderlabs SSH sessions into tcell screens so every
// connection can drive its own arena.
package ssh

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// DefaultTerm is assumed when the client does not send TERM.
const DefaultTerm = "xterm-256color"

// Tty implements tcell.Tty on top of one SSH session. Window changes from
// the client are tracked for the lifetime of the session.
type Tty struct {
	session gossh.Session

	mu     sync.Mutex
	window gossh.Window
	onSize func()
}

// NewTty wraps s. pty holds the initial window; winCh delivers later
// resizes and is drained until the client closes it.
func NewTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *Tty {
	t := &Tty{session: s, window: pty.Window}
	go t.watch(winCh)
	return t
}

func (t *Tty) watch(winCh <-chan gossh.Window) {
	for win := range winCh {
		t.mu.Lock()
		t.window = win
		cb := t.onSize
		t.mu.Unlock()
		if cb != nil {
			cb()
		}
	}
}

func (t *Tty) Read(b []byte) (int, error)  { return t.session.Read(b) }
func (t *Tty) Write(b []byte) (int, error) { return t.session.Write(b) }
func (t *Tty) Close() error                { return t.session.Close() }

// Start, Stop and Drain are no-ops: the channel is opened and torn down by
// the SSH server, and writes are not buffered.
func (t *Tty) Start() error { return nil }
func (t *Tty) Stop() error  { return nil }
func (t *Tty) Drain() error { return nil }

func (t *Tty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize replaces the resize callback. nil unregisters it.
func (t *Tty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.onSize = cb
	t.mu.Unlock()
}

// Term returns the client's TERM, or DefaultTerm when it sent none.
func Term(s gossh.Session) string {
	for _, env := range s.Environ() {
		if v, ok := strings.CutPrefix(env, "TERM="); ok && v != "" {
			return v
		}
	}
	return DefaultTerm
}

// termMu guards the process-wide TERM variable while terminfo is resolved.
var termMu sync.Mutex

// NewScreen creates and initialises a mouse-enabled tcell screen drawing
// onto the session, using term to pick the terminfo entry.
func NewScreen(s gossh.Session, term string) (tcell.Screen, error) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, fmt.Errorf("session has no pty")
	}
	tty := NewTty(s, pty, winCh)

	termMu.Lock()
	prev, had := os.LookupEnv("TERM")
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	if had {
		_ = os.Setenv("TERM", prev)
	} else {
		_ = os.Unsetenv("TERM")
	}
	termMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("terminal setup: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	screen.EnableMouse()
	return screen, nil
}
