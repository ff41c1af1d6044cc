// hollowvale plays in the local terminal. The SSH server lives under
// cmd/server; this entry point is the same session without the
// network.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"hollowvale/assets"
	"hollowvale/internal/logger"
	"hollowvale/internal/save"
	"hollowvale/internal/session"
)

func main() {
	savePath := flag.String("saves", "hollowvale.db", "save database")
	logLevel := flag.String("log", "warn", "log level")
	seed := flag.Int64("seed", 0, "world seed for a new run, 0 means the clock")
	flag.Parse()

	// The terminal belongs to tcell, so logging stays on stderr and
	// quiet by default.
	logger.Setup(*logLevel)

	if err := play(*savePath, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func play(savePath string, seed int64) error {
	tables, err := assets.Load()
	if err != nil {
		return fmt.Errorf("loading tables: %w", err)
	}
	store, err := save.Open(savePath)
	if err != nil {
		return err
	}
	defer store.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("preparing terminal: %w", err)
	}
	defer screen.Fini()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return session.Run(screen, store, tables, seed)
}
