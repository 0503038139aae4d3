// Package resolve maps archive identifiers back to asset paths using a
// pre-built snapshot of (hash, path hash, path) records.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrUnavailable is returned when the snapshot could not be loaded
var ErrUnavailable = errors.New("resolution database unavailable")

// Entry is one resolvable asset path
type Entry struct {
	Hash     uint32
	PathHash uint32
	Path     string
}

// Source returns the compressed snapshot bytes
type Source func() ([]byte, error)

// FileSource reads a snapshot from disk each time it is called
func FileSource(path string) Source {
	return func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
		}
		return data, nil
	}
}

// BytesSource serves a snapshot held in memory
func BytesSource(data []byte) Source {
	return func() ([]byte, error) {
		if data == nil {
			return nil, fmt.Errorf("snapshot is missing")
		}
		return data, nil
	}
}

// Database answers forward and reverse lookups over a snapshot. It is
// loaded at most once; after loading it is read-only and safe for
// concurrent use.
type Database struct {
	source Source

	mu     sync.Mutex
	loaded atomic.Bool

	// Written under mu before loaded is set, read-only afterwards
	entries []Entry
	byHash  map[uint32][]int
	digest  string
}

// New creates an unloaded database over source
func New(source Source) *Database {
	return &Database{source: source}
}

// Initialize loads the snapshot if it has not been loaded yet. Concurrent
// callers wait for the load in progress. A failed load leaves the
// database untouched so a later call can retry.
func (d *Database) Initialize(ctx context.Context) error {
	if d.loaded.Load() {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loaded.Load() {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	start := time.Now()

	if d.source == nil {
		return fmt.Errorf("%w: no snapshot source configured", ErrUnavailable)
	}

	compressed, err := d.source()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	entries, err := DecodeSnapshot(compressed)
	if err != nil {
		return fmt.Errorf("%w: decoding snapshot: %w", ErrUnavailable, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	byHash := make(map[uint32][]int, len(entries))
	for i, e := range entries {
		byHash[e.Hash] = append(byHash[e.Hash], i)
	}

	d.entries = entries
	d.byHash = byHash
	d.digest = SnapshotDigest(compressed)
	d.loaded.Store(true)

	slog.Debug("Resolution database loaded",
		"entries", len(entries),
		"distinct_hashes", len(byHash),
		"digest", d.digest,
		"duration", time.Since(start))

	return nil
}

// Loaded reports whether the snapshot has been loaded
func (d *Database) Loaded() bool {
	return d.loaded.Load()
}

// Reset drops the loaded snapshot so the next lookup loads it again
func (d *Database) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.loaded.Store(false)
	d.entries = nil
	d.byHash = nil
	d.digest = ""
}

// LookupByName returns the first entry, in load order, whose path
// contains substring.
func (d *Database) LookupByName(substring string) (Entry, bool, error) {
	if err := d.Initialize(context.Background()); err != nil {
		return Entry{}, false, err
	}

	for _, e := range d.entries {
		if strings.Contains(e.Path, substring) {
			return e, true, nil
		}
	}

	return Entry{}, false, nil
}

// LookupByHash returns the first entry, in load order, with the given
// hash. A non-zero pathHash must match as well; there is no fallback to
// hash-only matching when it does not.
func (d *Database) LookupByHash(hash, pathHash uint32) (Entry, bool, error) {
	if err := d.Initialize(context.Background()); err != nil {
		return Entry{}, false, err
	}

	for _, i := range d.byHash[hash] {
		e := d.entries[i]
		if pathHash == 0 || e.PathHash == pathHash {
			return e, true, nil
		}
	}

	return Entry{}, false, nil
}

// LookupAll returns every entry sharing hash, in load order
func (d *Database) LookupAll(hash uint32) ([]Entry, error) {
	if err := d.Initialize(context.Background()); err != nil {
		return nil, err
	}

	indexes := d.byHash[hash]
	matches := make([]Entry, 0, len(indexes))
	for _, i := range indexes {
		matches = append(matches, d.entries[i])
	}

	return matches, nil
}

// Entries returns a copy of all entries in load order
func (d *Database) Entries() ([]Entry, error) {
	if err := d.Initialize(context.Background()); err != nil {
		return nil, err
	}

	entries := make([]Entry, len(d.entries))
	copy(entries, d.entries)
	return entries, nil
}

// Len returns the number of loaded entries
func (d *Database) Len() (int, error) {
	if err := d.Initialize(context.Background()); err != nil {
		return 0, err
	}
	return len(d.entries), nil
}

// Digest returns the BLAKE3 digest of the loaded compressed snapshot
func (d *Database) Digest() (string, error) {
	if err := d.Initialize(context.Background()); err != nil {
		return "", err
	}
	return d.digest, nil
}
