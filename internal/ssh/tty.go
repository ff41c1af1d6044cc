// Package ssh bridges a gliderlabs session to tcell, so the same
// client code that draws on a local terminal can draw down a network
// connection.
package ssh

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// Tty adapts one SSH session to tcell's Tty interface. Reads come off
// the session's stdin, writes go to its stdout, and window sizes track
// the pty's resize channel.
type Tty struct {
	session gossh.Session

	mu     sync.Mutex
	window gossh.Window
	winCh  <-chan gossh.Window
	resize func()
	watch  bool
}

// NewTty wraps a session whose pty request already succeeded. The pty
// carries the starting window; winCh delivers every change after it.
func NewTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *Tty {
	return &Tty{session: s, window: pty.Window, winCh: winCh}
}

func (t *Tty) Read(b []byte) (int, error)  { return t.session.Read(b) }
func (t *Tty) Write(b []byte) (int, error) { return t.session.Write(b) }
func (t *Tty) Close() error                { return t.session.Close() }

// Start, Stop, and Drain have nothing to do here. The channel is open
// before tcell ever sees it and the server handler owns its lifetime.
func (t *Tty) Start() error { return nil }
func (t *Tty) Stop() error  { return nil }
func (t *Tty) Drain() error { return nil }

func (t *Tty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize hands tcell the callback to fire on window changes.
// The first call starts the watcher that follows the resize channel
// until the session closes.
func (t *Tty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.resize = cb
	start := !t.watch
	t.watch = true
	t.mu.Unlock()

	if !start {
		return
	}
	go func() {
		for win := range t.winCh {
			t.mu.Lock()
			t.window = win
			cb := t.resize
			t.mu.Unlock()
			if cb != nil {
				cb()
			}
		}
	}()
}
