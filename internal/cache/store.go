// Package cache persists per-file analysis results between runs. Entries
// are keyed by a hash of path, modification time, and size, stored as
// schema-versioned JSON on disk with a bounded in-memory layer in front.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/maypok86/otter"

	"github.com/atlasview/codeatlas/internal/model"
)

// SchemaVersion tags every entry; a mismatch invalidates the entry so a
// schema change never feeds stale shapes into a newer binary.
const SchemaVersion = 1

// DefaultTTL is how long an entry stays valid.
const DefaultTTL = 24 * time.Hour

// hotCapacity bounds the in-memory layer.
const hotCapacity = 4096

// entry is the on-disk record wrapping one FileAnalysis.
type entry struct {
	SchemaVersion int                 `json:"schema_version"`
	StoredAt      time.Time           `json:"stored_at"`
	Analysis      *model.FileAnalysis `json:"analysis"`
}

// Store is the two-layer analysis cache. Disk writes are atomic
// (temp file + rename) so a concurrent reader never sees a torn entry.
type Store struct {
	dir    string
	ttl    time.Duration
	hot    otter.Cache[string, *model.FileAnalysis]
	logger *log.Logger
}

// Open creates the cache directory if needed and returns a ready Store.
func Open(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	hot, err := otter.MustBuilder[string, *model.FileAnalysis](hotCapacity).
		WithTTL(DefaultTTL).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building memory cache: %w", err)
	}
	return &Store{dir: dir, ttl: DefaultTTL, hot: hot, logger: logger}, nil
}

// Key derives the cache key for a file from its path, mtime, and size.
// Any change to the file's content or identity produces a new key.
func Key(path string, mtime time.Time, size int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, mtime.UnixNano(), size)))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached analysis for a key, or nil on miss, expiry, or
// schema mismatch. Unreadable entries count as misses and are removed.
func (s *Store) Get(key string) *model.FileAnalysis {
	if fa, ok := s.hot.Get(key); ok {
		return fa
	}

	raw, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		return nil
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.logger.Debug("dropping corrupt cache entry", "key", key, "err", err)
		s.remove(key)
		return nil
	}
	if e.SchemaVersion != SchemaVersion || time.Since(e.StoredAt) > s.ttl || e.Analysis == nil {
		s.remove(key)
		return nil
	}

	s.hot.Set(key, e.Analysis)
	return e.Analysis
}

// Put stores one analysis under a key. Failures are logged and swallowed;
// caching is an optimization, never a correctness dependency.
func (s *Store) Put(key string, fa *model.FileAnalysis) {
	s.hot.Set(key, fa)

	raw, err := json.Marshal(entry{
		SchemaVersion: SchemaVersion,
		StoredAt:      time.Now().UTC(),
		Analysis:      fa,
	})
	if err != nil {
		s.logger.Debug("cache marshal failed", "key", key, "err", err)
		return
	}

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		s.logger.Debug("cache write failed", "key", key, "err", err)
		return
	}
	_, werr := tmp.Write(raw)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		s.logger.Debug("cache write failed", "key", key, "err", werr)
		return
	}
	if err := os.Rename(tmp.Name(), s.entryPath(key)); err != nil {
		os.Remove(tmp.Name())
		s.logger.Debug("cache rename failed", "key", key, "err", err)
	}
}

// Purge deletes every entry, on disk and in memory.
func (s *Store) Purge() error {
	s.hot.Clear()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading cache dir: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			os.Remove(filepath.Join(s.dir, e.Name()))
		}
	}
	return nil
}

// Close releases the in-memory layer.
func (s *Store) Close() {
	s.hot.Close()
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) remove(key string) {
	s.hot.Delete(key)
	os.Remove(s.entryPath(key))
}
