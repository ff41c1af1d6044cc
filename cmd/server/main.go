// hollowvale-server serves the town over SSH, one session per
// connection. Build:
//
//	go build -o hollowvale-server ./cmd/server
//
// Usage:
//
//	./hollowvale-server [--port 2222] [--key host_key] [--saves hollowvale.db] [--log info]
//
// Connect:
//
//	ssh -p 2222 <host>
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"
	xssh "golang.org/x/crypto/ssh"

	"hollowvale/assets"
	"hollowvale/internal/logger"
	"hollowvale/internal/save"
	"hollowvale/internal/session"
	internalssh "hollowvale/internal/ssh"
)

func main() {
	port := flag.Int("port", 2222, "SSH port")
	keyFile := flag.String("key", "host_key", "PEM host key, generated when absent")
	savePath := flag.String("saves", "hollowvale.db", "save database")
	logLevel := flag.String("log", "info", "log level")
	flag.Parse()

	logger.Setup(*logLevel)

	tables, err := assets.Load()
	if err != nil {
		logrus.Fatalf("loading tables: %v", err)
	}
	store, err := save.Open(*savePath)
	if err != nil {
		logrus.Fatalf("opening saves: %v", err)
	}
	defer store.Close()

	signer := loadOrCreateHostKey(*keyFile)

	srv := &gossh.Server{
		Addr: fmt.Sprintf(":%d", *port),
		Handler: func(s gossh.Session) {
			handleSession(s, store, tables)
		},
		// Any pty request is fine, and no auth: the session asks for
		// a character name itself. Add gossh.PublicKeyAuth for a
		// server that faces strangers.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		HostSigners: []gossh.Signer{signer},
	}

	logrus.Infof("listening on :%d", *port)
	logrus.Fatal(srv.ListenAndServe())
}

// termMu serializes screen creation. TERM has to sit in the process
// environment while tcell reads terminfo, and sessions arrive
// concurrently.
var termMu sync.Mutex

// handleSession runs one visit. It blocks for the life of the
// connection; gliderlabs gives every session its own goroutine.
func handleSession(s gossh.Session, store *save.Store, tables *assets.Tables) {
	log := logger.Component("server").WithField("remote", s.RemoteAddr().String())

	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "A pty is required. Connect with: ssh -t <host>")
		return
	}

	tty := internalssh.NewTty(s, pty, winCh)
	termMu.Lock()
	os.Setenv("TERM", termFor(s.Environ()))
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(s, "Screen init failed: %v\n", err)
		return
	}
	defer screen.Fini()

	log.Info("connected")
	if err := session.Run(screen, store, tables, time.Now().UnixNano()); err != nil {
		log.WithError(err).Error("session ended badly")
	}
	log.Info("disconnected")
}

// allowedTerms are the terminal types worth handing to terminfo.
// Clients send TERM themselves, so anything unrecognized falls back
// to a safe default instead of reaching the environment.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode-256color": true,
}

// termFor picks the terminal type for a session from its environment.
func termFor(environ []string) string {
	for _, env := range environ {
		if strings.HasPrefix(env, "TERM=") {
			if t := env[5:]; allowedTerms[t] {
				return t
			}
			break
		}
	}
	return "xterm-256color"
}

// loadOrCreateHostKey reads a PEM private key, or generates and keeps
// an ed25519 one when the file is absent or unreadable.
func loadOrCreateHostKey(path string) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logrus.Infof("host key loaded from %s", path)
			return signer
		}
	}

	logrus.Infof("generating an ed25519 host key at %s", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		logrus.Fatalf("generating host key: %v", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		logrus.Fatalf("building signer: %v", err)
	}
	if block, err := xssh.MarshalPrivateKey(key, "hollowvale server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
			logrus.Warnf("keeping host key: %v", err)
		}
	}
	return signer
}
