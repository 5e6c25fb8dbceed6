package layout_test

import (
	"fmt"

	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
)

func ExampleClassify() {
	nodes := []graph.Node{{ID: "apollo"}, {ID: "alice"}}
	edges := []graph.Edge{{Source: "alice", Target: "apollo"}}

	prev := layout.ComputeSignature(nodes, edges)

	// Same content, different declaration order: unchanged.
	reordered := layout.ComputeSignature(
		[]graph.Node{{ID: "alice"}, {ID: "apollo"}}, edges)
	fmt.Println(layout.Classify(prev, reordered))

	// New edge, same nodes: only link constraints need to change.
	grown := layout.ComputeSignature(nodes,
		append(edges, graph.Edge{Source: "apollo", Target: "alice", Type: "mentors"}))
	fmt.Println(layout.Classify(prev, grown))

	// New node: per-node state must be rebuilt.
	joined := layout.ComputeSignature(append(nodes, graph.Node{ID: "bob"}), edges)
	fmt.Println(layout.Classify(prev, joined))

	// Output:
	// unchanged
	// edges-only
	// full-rebuild
}

func ExampleSmoother() {
	s := layout.NewSmoother(0.5)

	// The first observation of an id is taken verbatim.
	first := s.Step(map[string]layout.Point{"alice": {X: 100, Y: 0}})
	fmt.Printf("%.0f\n", first["alice"].X)

	// Subsequent observations are lerped toward the target.
	second := s.Step(map[string]layout.Point{"alice": {X: 200, Y: 0}})
	fmt.Printf("%.0f\n", second["alice"].X)

	// Output:
	// 100
	// 150
}
