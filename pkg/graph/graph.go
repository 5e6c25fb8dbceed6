package graph

import (
	"fmt"
	"slices"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node categories. The layout engine only distinguishes these two classes:
// hubs anchor the layout (projects), leaves orbit them (people).
const (
	CategoryHub  = "hub"
	CategoryLeaf = "leaf"
)

// Layout modes.
const (
	ModeForce = "force"
	ModeRing  = "ring"
)

// ValidCategories is the set of supported node categories.
var ValidCategories = map[string]bool{
	CategoryHub:  true,
	CategoryLeaf: true,
}

// ValidModes is the set of supported layout modes.
var ValidModes = map[string]bool{
	ModeForce: true,
	ModeRing:  true,
}

// =============================================================================
// Graph - Relationship Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for relationship graphs.
// Used for CLI input files, API requests, and caching.
//
// The format is human-readable and designed for round-trip fidelity:
// import → layout → export → re-import produces identical results.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a single entity in the relationship graph. The layout engine
// reads only ID and Category; everything else is display metadata owned
// by the caller.
type Node struct {
	ID       string         `json:"id"`
	Category string         `json:"category"`
	Label    string         `json:"label,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// IsHub returns true if the node belongs to the hub category.
func (n *Node) IsHub() bool { return n.Category == CategoryHub }

// Edge is a typed relationship between two nodes. The layout engine treats
// it purely as a constraint between two node identities; it is never
// validated against a schema.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

// =============================================================================
// Validation and Normalization
// =============================================================================

// Validate checks structural soundness: non-empty unique node ids and known
// categories. Dangling edge endpoints are deliberately NOT an error; the
// layout engine drops them silently.
func (g *Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: empty id", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if n.Category != "" && !ValidCategories[n.Category] {
			return fmt.Errorf("node %q: unknown category %q (must be hub or leaf)", n.ID, n.Category)
		}
	}
	return nil
}

// Normalize applies defaults in place: nodes without a category become
// leaves, edges without a weight get weight 1.
func (g *Graph) Normalize() {
	for i := range g.Nodes {
		if g.Nodes[i].Category == "" {
			g.Nodes[i].Category = CategoryLeaf
		}
	}
	for i := range g.Edges {
		if g.Edges[i].Weight == 0 {
			g.Edges[i].Weight = 1
		}
	}
}

// Sorted returns a copy with nodes sorted by id and edges sorted by
// (source, target, type) for deterministic output. Edge order inside the
// original graph is meaningful to the ring layout (primary-hub grouping),
// so Sorted is only used for serialization and signatures.
func (g *Graph) Sorted() Graph {
	out := Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: slices.Clone(g.Edges),
	}
	slices.SortFunc(out.Nodes, func(a, b Node) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	slices.SortFunc(out.Edges, func(a, b Edge) int {
		ka := a.Source + "\x00" + a.Target + "\x00" + a.Type
		kb := b.Source + "\x00" + b.Target + "\x00" + b.Type
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
	return out
}

// NodeIDs returns the ids of all nodes in declaration order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Hubs returns all hub-category nodes in declaration order.
func (g *Graph) Hubs() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.IsHub() {
			out = append(out, n)
		}
	}
	return out
}

// Leaves returns all non-hub nodes in declaration order.
func (g *Graph) Leaves() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if !n.IsHub() {
			out = append(out, n)
		}
	}
	return out
}
