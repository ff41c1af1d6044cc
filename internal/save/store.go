// Package save persists runs to a bbolt file, one snapshot per
// character. A snapshot is two YAML blobs: a small meta record the
// session greeting can read cheaply, and the full world. Corruption is
// reported as ErrCorrupt so callers can fall back to a fresh game
// instead of dying on a bad file.
package save

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"

	"hollowvale/assets"
	"hollowvale/internal/game"
)

// ErrCorrupt marks a snapshot that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt snapshot")

var (
	metaBucket  = []byte("meta")
	worldBucket = []byte("world")
)

// Store is an open save file.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the save file at path and makes sure both
// buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening save store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(metaBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(worldBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing save store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Meta is the record the world blob is filed under. It is enough to
// greet a returning character without decoding their world.
type Meta struct {
	RunID   string    `yaml:"run_id"`
	Name    string    `yaml:"name"`
	Level   int       `yaml:"level"`
	Depth   int       `yaml:"depth"`
	Turn    int       `yaml:"turn"`
	SavedAt time.Time `yaml:"saved_at"`
}

// charKey maps a character name to its bucket key: ascii letters and
// digits pass through, anything else becomes an underscore.
func charKey(name string) []byte {
	key := make([]byte, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			key = append(key, byte(r))
		default:
			key = append(key, '_')
		}
	}
	return key
}

// Snapshot writes the run under its character's name, replacing any
// earlier snapshot for that name.
func (s *Store) Snapshot(g *game.Game) error {
	p := g.Objs.Player()
	worldBlob, err := yaml.Marshal(encode(g))
	if err != nil {
		return fmt.Errorf("encoding snapshot for %q: %w", p.Name, err)
	}
	metaBlob, err := yaml.Marshal(Meta{
		RunID:   g.RunID,
		Name:    p.Name,
		Level:   p.Level,
		Depth:   p.Loc.Depth,
		Turn:    g.Turn,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot meta for %q: %w", p.Name, err)
	}
	key := charKey(p.Name)
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(metaBucket).Put(key, metaBlob); err != nil {
			return err
		}
		return tx.Bucket(worldBucket).Put(key, worldBlob)
	})
	if err != nil {
		return fmt.Errorf("writing snapshot for %q: %w", p.Name, err)
	}
	return nil
}

// Lookup reports whether a snapshot exists for the name, and its meta
// record when it does. A meta record that will not decode reads as
// absent; Restore will say why.
func (s *Store) Lookup(name string) (Meta, bool) {
	var meta Meta
	found := false
	s.db.View(func(tx *bolt.Tx) error {
		blob := tx.Bucket(metaBucket).Get(charKey(name))
		if blob == nil {
			return nil
		}
		found = yaml.Unmarshal(blob, &meta) == nil
		return nil
	})
	return meta, found
}

// Restore rebuilds the run saved under name. A snapshot that exists
// but will not decode comes back wrapping ErrCorrupt.
func (s *Store) Restore(name string, tables *assets.Tables) (*game.Game, error) {
	var blob []byte
	s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket(worldBucket).Get(charKey(name)); raw != nil {
			blob = append(blob, raw...)
		}
		return nil
	})
	if blob == nil {
		return nil, fmt.Errorf("no snapshot for %q", name)
	}
	var snap snapshot
	if err := yaml.Unmarshal(blob, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot for %q: %w: %w", name, ErrCorrupt, err)
	}
	g, err := decode(&snap, tables)
	if err != nil {
		return nil, fmt.Errorf("restoring %q: %w", name, err)
	}
	return g, nil
}

// Delete drops the snapshot for name, if any. Death uses this; the
// fallen stay fallen.
func (s *Store) Delete(name string) error {
	key := charKey(name)
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(metaBucket).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(worldBucket).Delete(key)
	})
	if err != nil {
		return fmt.Errorf("deleting snapshot for %q: %w", name, err)
	}
	return nil
}
