package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/skeinviz/skein/pkg/graph"
)

// =============================================================================
// Graph Change Detector
// =============================================================================

// Signature is a stable, order-independent identity of a graph's node set
// and edge set. Two graphs with the same nodes and edges produce the same
// signature regardless of declaration order. Signatures exist only to decide
// rebuild scope; they are never persisted.
type Signature struct {
	Nodes string
	Edges string
}

// Zero reports whether the signature has never been computed.
func (s Signature) Zero() bool { return s.Nodes == "" && s.Edges == "" }

// Change classifies the difference between two consecutive graph states.
type Change int

const (
	// Unchanged: identical signatures. Preserve all solver state.
	Unchanged Change = iota

	// EdgesOnly: same node set, different edges. The force solver may swap
	// its link constraints and re-inject energy without discarding node
	// positions. The ring layout must still fully recompute, since its
	// grouping is edge-topology-sensitive.
	EdgesOnly

	// FullRebuild: the node set changed. Discard per-node solver state
	// except a best-effort carry-over of positions for surviving ids.
	FullRebuild
)

// String returns a human-readable name for logging.
func (c Change) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case EdgesOnly:
		return "edges-only"
	case FullRebuild:
		return "full-rebuild"
	default:
		return "unknown"
	}
}

// ComputeSignature derives the layout signature of the given graph state.
// Node identity is the sorted id list; edge identity is the sorted set of
// (source, target, type) triples. Edge weight is deliberately excluded:
// a weight tweak alone should not force a rebuild.
func ComputeSignature(nodes []graph.Node, edges []graph.Edge) Signature {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	sort.Strings(ids)

	triples := make([]string, len(edges))
	for i, e := range edges {
		triples[i] = e.Source + "\x00" + e.Target + "\x00" + e.Type
	}
	sort.Strings(triples)

	return Signature{
		Nodes: digest(ids),
		Edges: digest(triples),
	}
}

// Classify compares the previous and current signatures and returns the
// rebuild scope. A zero previous signature is a full rebuild: the engine
// has never seen a graph.
func Classify(prev, curr Signature) Change {
	if prev.Zero() {
		return FullRebuild
	}
	if prev.Nodes != curr.Nodes {
		return FullRebuild
	}
	if prev.Edges != curr.Edges {
		return EdgesOnly
	}
	return Unchanged
}

func digest(parts []string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h[:])
}
