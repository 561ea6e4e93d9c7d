// Package store provides crash-safe snapshot persistence and the §6 log
// file writer.
//
// Snapshot writes use atomic file replacement (write to .tmp, then rename)
// to prevent corruption from partial writes or crashes mid-save, the same
// pattern the teacher's original position-persistence code used. Here the
// payload is the full four-kind inventory plus the current tick, and the
// file name follows the path contract in §6: snapshots/market_<NAME>_snapshot_at_drop.json
// for the destructor, snapshots/market_<NAME>_snapshot_<tick>.json for the
// periodic per-event persist.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// Store persists snapshots to JSON files in a designated directory and
// appends log lines to a designated log file. All operations are
// mutex-protected to prevent concurrent file corruption.
type Store struct {
	dir     string
	logPath string

	mu    sync.Mutex // serializes snapshot file operations
	logMu sync.Mutex // serializes log file appends
}

// snapshotDoc is the on-disk shape of a snapshot file.
type snapshotDoc struct {
	Tick    uint64                                  `json:"tick"`
	Entries map[types.GoodKind]types.InventoryEntry `json:"entries"`
}

// Open creates a Store backed by the given snapshot directory and log file
// path. The snapshot directory is created on demand, per §6.
func Open(snapshotDir, logPath string) (*Store, error) {
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
	}
	return &Store{dir: snapshotDir, logPath: logPath}, nil
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

func (s *Store) snapshotPath(name string, tick uint64, periodic bool) string {
	if periodic {
		return filepath.Join(s.dir, fmt.Sprintf("market_%s_snapshot_%d.json", name, tick))
	}
	return filepath.Join(s.dir, fmt.Sprintf("market_%s_snapshot_at_drop.json", name))
}

// SaveSnapshot atomically persists the current inventory and tick for a
// market. periodic selects the path variant: true names the file after the
// tick (§4.3 step 5's per-event persist), false writes the destructor's
// fixed "at_drop" file.
func (s *Store) SaveSnapshot(name string, entries map[types.GoodKind]types.InventoryEntry, tick uint64, periodic bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := snapshotDoc{Tick: tick, Entries: entries}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := s.snapshotPath(name, tick, periodic)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot restores a market's inventory and tick from the file at
// path. ok is false (with no error) if the file does not exist or does not
// parse as a valid snapshot — new_from_snapshot falls back to new_random in
// that case.
func (s *Store) LoadSnapshot(path string) (map[types.GoodKind]types.InventoryEntry, uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("read snapshot: %w", err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, false, nil
	}
	return doc.Entries, doc.Tick, true, nil
}
