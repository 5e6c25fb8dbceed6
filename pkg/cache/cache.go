// Package cache provides content caching for computed layouts and
// rendered artifacts.
//
// Layout computation is deterministic for a given (graph, mode, viewport,
// tuning) tuple, so results are cached under keys derived from those
// inputs. Backends:
//
//   - file: per-user XDG cache directory, used by the CLI
//   - redis: shared cache for multi-instance API deployments
//   - null: disables caching
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is the interface all caching backends implement.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keyer - Cache Key Construction
// =============================================================================

// LayoutKeyOpts are the inputs that distinguish one layout computation
// from another for the same graph.
type LayoutKeyOpts struct {
	Mode       string  `json:"mode"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	TuningHash string  `json:"tuning_hash"`
	Ticks      int     `json:"ticks"`
}

// ArtifactKeyOpts distinguish rendered outputs of the same layout.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer builds cache keys. Implementations may add prefixes for
// namespace isolation (see ScopedKeyer).
type Keyer interface {
	// LayoutKey generates a key for a computed layout.
	LayoutKey(graphSig string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key construction.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// LayoutKey generates a key for a computed layout.
func (DefaultKeyer) LayoutKey(graphSig string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphSig, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey derives a key in the given family from its identifying parts.
// Keys look like "layout:<64 hex chars>". The family stays in the clear
// so backends can group entries by kind; the full digest keeps distinct
// inputs from colliding.
func hashKey(family string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return family + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data. Besides key derivation
// it folds the tuning config into layout keys and names cache files.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
