package ring

import (
	"fmt"
	"math"
	"testing"

	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
)

func testConfig() layout.RingTuning {
	return layout.DefaultTuning().Ring
}

func TestComputeEmpty(t *testing.T) {
	out := Compute(nil, nil, 800, 600, testConfig())
	if len(out) != 0 {
		t.Errorf("Compute(empty) returned %d positions", len(out))
	}
}

func TestComputeDeterministic(t *testing.T) {
	nodes := []graph.Node{
		{ID: "p1", Category: graph.CategoryHub},
		{ID: "p2", Category: graph.CategoryHub},
		{ID: "alice"}, {ID: "bob"}, {ID: "carol"},
	}
	edges := []graph.Edge{
		{Source: "alice", Target: "p1"},
		{Source: "bob", Target: "p1"},
		{Source: "carol", Target: "p2"},
	}

	a := Compute(nodes, edges, 800, 600, testConfig())
	b := Compute(nodes, edges, 800, 600, testConfig())
	for id, pa := range a {
		if pa != b[id] {
			t.Errorf("node %s differs between identical computations: %+v vs %+v", id, pa, b[id])
		}
	}
}

// A single hub sits on the top arc; its leaves cluster around its angle.
func TestComputeHubOnTopArc(t *testing.T) {
	cfg := testConfig()
	nodes := []graph.Node{
		{ID: "A", Category: graph.CategoryHub},
		{ID: "B"}, {ID: "C"},
	}
	edges := []graph.Edge{
		{Source: "B", Target: "A"},
		{Source: "C", Target: "A"},
	}

	out := Compute(nodes, edges, 800, 600, cfg)
	cx, cy := 400.0, 300.0

	a := out["A"]
	// A lone hub is centered at twelve o'clock on the hub radius.
	wantA := layout.Point{X: cx, Y: cy - cfg.HubRadius}
	if a.Dist(wantA) > 1e-6 {
		t.Errorf("hub at %+v, want top of arc %+v", a, wantA)
	}

	// Leaves sit on the outer ring, above center, near the hub's angle.
	leafRadius := cfg.HubRadius + cfg.LeafGap
	for _, id := range []string{"B", "C"} {
		p := out[id]
		r := p.Dist(layout.Point{X: cx, Y: cy})
		if math.Abs(r-leafRadius) > 1e-6 {
			t.Errorf("leaf %s radius = %v, want %v", id, r, leafRadius)
		}
		if p.Y >= cy {
			t.Errorf("leaf %s at %+v, want it above center near its hub", id, p)
		}
	}
}

// Leaves attach to the first connected hub in edge order.
func TestPrimaryHubByEdgeOrder(t *testing.T) {
	// x connects to both hubs; h2 comes first in edge order.
	edges := []graph.Edge{
		{Source: "x", Target: "h2"},
		{Source: "x", Target: "h1"},
	}

	primary := primaryHubs(
		[]graph.Node{{ID: "x"}},
		edges,
		map[string]float64{"h1": 0, "h2": 1},
	)
	if primary["x"] != "h2" {
		t.Errorf("primary hub = %q, want h2 (first in edge order)", primary["x"])
	}
}

// Hub direction in the edge does not matter for clustering.
func TestPrimaryHubEitherDirection(t *testing.T) {
	primary := primaryHubs(
		[]graph.Node{{ID: "x"}},
		[]graph.Edge{{Source: "h1", Target: "x"}},
		map[string]float64{"h1": 0},
	)
	if primary["x"] != "h1" {
		t.Errorf("primary hub = %q, want h1 via reversed edge", primary["x"])
	}
}

func TestComputeMinimumLeafSpacing(t *testing.T) {
	cfg := testConfig()
	var nodes []graph.Node
	var edges []graph.Edge
	nodes = append(nodes, graph.Node{ID: "hub", Category: graph.CategoryHub})
	for i := 0; i < 24; i++ {
		id := fmt.Sprintf("leaf%d", i)
		nodes = append(nodes, graph.Node{ID: id})
		edges = append(edges, graph.Edge{Source: id, Target: "hub"})
	}

	out := Compute(nodes, edges, 800, 600, cfg)
	spacing := cfg.NodeWidth + cfg.Gap + cfg.AnimationMargin

	// Pairwise chord check across all leaves. The sweep guarantees at
	// least the angular step, which corresponds to the linear spacing.
	for i := 0; i < 24; i++ {
		for j := i + 1; j < 24; j++ {
			a := out[fmt.Sprintf("leaf%d", i)]
			b := out[fmt.Sprintf("leaf%d", j)]
			if d := a.Dist(b); d < spacing*0.5 {
				t.Errorf("leaves %d and %d only %.1f apart, spacing %.1f", i, j, d, spacing)
			}
		}
	}
}

func TestComputeOrphansPlaced(t *testing.T) {
	nodes := []graph.Node{
		{ID: "hub", Category: graph.CategoryHub},
		{ID: "solo1"}, {ID: "solo2"}, {ID: "solo3"},
	}

	out := Compute(nodes, nil, 800, 600, testConfig())
	seen := make(map[layout.Point]string)
	for _, id := range []string{"solo1", "solo2", "solo3"} {
		p, ok := out[id]
		if !ok {
			t.Fatalf("orphan %s missing from output", id)
		}
		if !p.IsFinite() {
			t.Errorf("orphan %s has non-finite position", id)
		}
		if prev, dup := seen[p]; dup {
			t.Errorf("orphans %s and %s share position %+v", prev, id, p)
		}
		seen[p] = id
	}
}

func TestComputeManyHubsSpillRows(t *testing.T) {
	cfg := testConfig()
	var nodes []graph.Node
	for i := 0; i < 40; i++ {
		nodes = append(nodes, graph.Node{ID: fmt.Sprintf("h%d", i), Category: graph.CategoryHub})
	}

	out := Compute(nodes, nil, 800, 600, cfg)
	if len(out) != 40 {
		t.Fatalf("placed %d hubs, want 40", len(out))
	}

	// With 40 hubs the bounded radius cannot hold one row, so radii must
	// span more than one ring.
	cx, cy := 400.0, 300.0
	minR, maxR := math.MaxFloat64, 0.0
	for _, p := range out {
		r := p.Dist(layout.Point{X: cx, Y: cy})
		minR = math.Min(minR, r)
		maxR = math.Max(maxR, r)
	}
	if maxR-minR < cfg.RowGap*0.9 {
		t.Errorf("hub radii span %.1f, want at least one row gap %.1f", maxR-minR, cfg.RowGap)
	}
	if minR > cfg.MaxHubRadius+1e-6 {
		t.Errorf("innermost hub radius %.1f exceeds MaxHubRadius %.1f", minR, cfg.MaxHubRadius)
	}
}

// When the radius grows to fit the group exactly, the row capacity
// quotient is integral; every hub must still land on that single row
// instead of one spilling into a second.
func TestComputeGrownRadiusSingleRow(t *testing.T) {
	cfg := testConfig()
	cx, cy := 500.0, 500.0

	for n := 5; n <= 9; n++ {
		var nodes []graph.Node
		for i := 0; i < n; i++ {
			nodes = append(nodes, graph.Node{ID: fmt.Sprintf("h%d", i), Category: graph.CategoryHub})
		}

		out := Compute(nodes, nil, 1000, 1000, cfg)
		if len(out) != n {
			t.Fatalf("n=%d: placed %d hubs", n, len(out))
		}

		minR, maxR := math.MaxFloat64, 0.0
		for _, p := range out {
			r := p.Dist(layout.Point{X: cx, Y: cy})
			minR = math.Min(minR, r)
			maxR = math.Max(maxR, r)
		}
		if maxR-minR > 1e-6 {
			t.Errorf("n=%d: hub radii span [%.4f, %.4f], want a single row", n, minR, maxR)
		}
		if maxR > cfg.MaxHubRadius+1e-6 {
			t.Errorf("n=%d: radius %.1f exceeds MaxHubRadius %.1f", n, maxR, cfg.MaxHubRadius)
		}
	}
}

func TestAnimatePure(t *testing.T) {
	base := map[string]layout.Point{"a": {X: 100, Y: 100}, "b": {X: 200, Y: 50}}
	cfg := testConfig()

	x := Animate(base, 1.5, cfg)
	y := Animate(base, 1.5, cfg)
	for id := range base {
		if x[id] != y[id] {
			t.Errorf("Animate not pure for %s", id)
		}
	}

	// The perturbation never exceeds the amplitude per axis.
	for id, p := range x {
		if math.Abs(p.X-base[id].X) > cfg.FloatAmplitude+1e-9 ||
			math.Abs(p.Y-base[id].Y) > cfg.FloatAmplitude+1e-9 {
			t.Errorf("float displacement for %s exceeds amplitude: %+v from %+v", id, p, base[id])
		}
	}

	// Base positions are untouched.
	if base["a"] != (layout.Point{X: 100, Y: 100}) {
		t.Error("Animate mutated the base map")
	}
}

func TestAnimateZeroAmplitude(t *testing.T) {
	cfg := testConfig()
	cfg.FloatAmplitude = 0
	base := map[string]layout.Point{"a": {X: 10, Y: 20}}
	out := Animate(base, 42, cfg)
	if out["a"] != base["a"] {
		t.Errorf("zero amplitude moved the node: %+v", out["a"])
	}
}
