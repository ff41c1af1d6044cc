package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTermForPicksAllowedTypes(t *testing.T) {
	cases := []struct {
		name    string
		environ []string
		want    string
	}{
		{"plain xterm", []string{"TERM=xterm-256color"}, "xterm-256color"},
		{"tmux", []string{"LANG=C", "TERM=tmux"}, "tmux"},
		{"unknown falls back", []string{"TERM=evil-term"}, "xterm-256color"},
		{"path traversal falls back", []string{"TERM=../../../etc/passwd"}, "xterm-256color"},
		{"no TERM at all", []string{"LANG=C"}, "xterm-256color"},
		{"empty TERM", []string{"TERM="}, "xterm-256color"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := termFor(tc.environ); got != tc.want {
				t.Errorf("termFor(%v) = %q, want %q", tc.environ, got, tc.want)
			}
		})
	}
}

func TestHostKeyRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")

	first := loadOrCreateHostKey(path)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("key file not kept: %v", err)
	}

	second := loadOrCreateHostKey(path)
	a := first.PublicKey().Marshal()
	b := second.PublicKey().Marshal()
	if string(a) != string(b) {
		t.Error("reloading the host key produced a different key")
	}
}
