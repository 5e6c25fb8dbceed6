package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores layout and artifact entries as JSON files under one
// directory; the CLI points it at the per-user XDG cache dir. Keys are
// grouped by their leading segment ("layout", "artifact"), so the
// directory layout itself records what kind of entry each file holds and
// `skein cache clear` can report removals per family.
type FileCache struct {
	dir string
}

// NewFileCache opens a file cache rooted at dir, creating it if needed,
// and sweeps entries whose TTL lapsed since the last run. The sweep is
// best effort: files that cannot be read or removed are skipped.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	c := &FileCache{dir: dir}
	c.sweep(time.Now())
	return c, nil
}

// entry is the on-disk envelope around a cached payload. Expires is zero
// for entries that never lapse.
type entry struct {
	Payload []byte    `json:"payload"`
	Expires time.Time `json:"expires,omitempty"`
}

func (e entry) lapsed(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}

// Get retrieves a cached payload. Corrupt and lapsed entries are removed
// and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if e.lapsed(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Payload, true, nil
}

// Set stores a payload. A zero TTL keeps the entry until it is cleared;
// the pipeline passes its layout TTL for everything else.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := entry{Payload: data}
	if ttl > 0 {
		e.Expires = time.Now().Add(ttl)
	}

	encoded, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}

// Delete removes an entry. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; every operation leaves the directory consistent.
func (c *FileCache) Close() error { return nil }

// path maps a key to its file: the leading key segment becomes a family
// directory, and the key digest provides two hex characters of fan-out
// plus the file name.
func (c *FileCache) path(key string) string {
	family := "misc"
	if i := strings.IndexByte(key, ':'); i > 0 {
		family = key[:i]
	}
	digest := Hash([]byte(key))
	return filepath.Join(c.dir, family, digest[:2], digest[2:]+".json")
}

// sweep removes entries that lapsed while no process had the cache open.
// Get expires lazily, but a one-shot CLI run may never touch a stale key
// again, so the sweep keeps abandoned force layouts from accumulating.
func (c *FileCache) sweep(now time.Time) {
	_ = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil || e.lapsed(now) {
			_ = os.Remove(path)
		}
		return nil
	})
}

var _ Cache = (*FileCache)(nil)
