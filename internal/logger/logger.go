// Package logger configures the process-wide logrus logger once, from
// the entry point's flags. Everything else logs through the plain
// package-level logrus calls or a Component entry.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup points the shared logger at stderr with a timestamped text
// formatter and the given level. An unparseable level falls back to
// info. Stderr, not stdout: the local client owns the terminal.
func Setup(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
}

// SetOutput redirects the shared logger, for entry points that keep a
// log file instead of a terminal.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// Component returns an entry tagged with the subsystem writing it, so
// session and server lines sort apart in one stream.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
