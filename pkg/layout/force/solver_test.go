package force

import (
	"testing"

	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
)

func testConfig() layout.ForceTuning {
	cfg := layout.DefaultTuning().Force
	// Deterministic equilibrium for assertions.
	cfg.DriftAmplitude = 0
	return cfg
}

func testGraph() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{
		{ID: "p1", Category: graph.CategoryHub},
		{ID: "p2", Category: graph.CategoryHub},
		{ID: "alice", Category: graph.CategoryLeaf},
		{ID: "bob", Category: graph.CategoryLeaf},
		{ID: "carol", Category: graph.CategoryLeaf},
	}
	edges := []graph.Edge{
		{Source: "alice", Target: "p1"},
		{Source: "bob", Target: "p1"},
		{Source: "carol", Target: "p2"},
		{Source: "p1", Target: "p2"},
	}
	return nodes, edges
}

func newRunningSolver(t *testing.T) *Solver {
	t.Helper()
	s := NewSolver(testConfig())
	s.SetViewport(800, 600)
	nodes, edges := testGraph()
	s.SetGraph(nodes, edges)
	s.Start()
	return s
}

func TestSolverSettles(t *testing.T) {
	s := newRunningSolver(t)
	for i := 0; i < 2000; i++ {
		s.Tick(1.0 / 60)
	}

	if s.State() != StateSettling {
		t.Errorf("state = %v after 2000 ticks, want settling (energy %.3f)", s.State(), s.KineticEnergy())
	}
	for id, p := range s.Positions() {
		if !p.IsFinite() {
			t.Errorf("node %s has non-finite position %+v", id, p)
		}
	}
}

func TestSolverDeterministic(t *testing.T) {
	run := func() map[string]layout.Point {
		s := NewSolver(testConfig())
		s.SetViewport(800, 600)
		nodes, edges := testGraph()
		s.SetGraph(nodes, edges)
		s.Start()
		for i := 0; i < 100; i++ {
			s.Tick(1.0 / 60)
		}
		return s.Positions()
	}

	a, b := run(), run()
	for id, pa := range a {
		if pa != b[id] {
			t.Errorf("node %s diverged between identical runs: %+v vs %+v", id, pa, b[id])
		}
	}
}

func TestSolverAlphaCooling(t *testing.T) {
	s := newRunningSolver(t)
	cfg := testConfig()

	if s.Alpha() != cfg.AlphaInitial {
		t.Fatalf("alpha = %v, want initial %v", s.Alpha(), cfg.AlphaInitial)
	}

	for i := 0; i < 1000; i++ {
		s.Tick(1.0 / 60)
	}
	// Alpha decays toward the floor but never to zero: drift stays alive.
	if s.Alpha() < cfg.AlphaTarget*0.9 {
		t.Errorf("alpha = %v fell below the floor %v", s.Alpha(), cfg.AlphaTarget)
	}
	if s.Alpha() > cfg.AlphaTarget*1.5 {
		t.Errorf("alpha = %v did not decay near the floor %v", s.Alpha(), cfg.AlphaTarget)
	}
}

func TestSolverStoppedIgnoresTicks(t *testing.T) {
	s := newRunningSolver(t)
	s.Tick(1.0 / 60)
	s.Stop()

	before := s.Positions()
	for i := 0; i < 10; i++ {
		s.Tick(1.0 / 60)
	}
	after := s.Positions()

	for id := range before {
		if before[id] != after[id] {
			t.Errorf("node %s moved while stopped", id)
		}
	}
}

func TestSolverZeroViewportSuspends(t *testing.T) {
	s := NewSolver(testConfig())
	nodes, edges := testGraph()
	s.SetGraph(nodes, edges)
	s.Start()

	before := s.Positions()
	s.Tick(1.0 / 60)
	after := s.Positions()

	for id := range before {
		if before[id] != after[id] {
			t.Errorf("node %s moved with a zero-size viewport", id)
		}
	}
}

func TestSolverDropsDanglingAndSelfEdges(t *testing.T) {
	s := NewSolver(testConfig())
	s.SetViewport(800, 600)
	s.SetGraph(
		[]graph.Node{{ID: "a"}, {ID: "b"}},
		[]graph.Edge{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "ghost"},
			{Source: "ghost", Target: "b"},
			{Source: "a", Target: "a"},
		},
	)
	if got := s.LinkCount(); got != 1 {
		t.Errorf("LinkCount() = %d, want 1 (dangling and self edges dropped)", got)
	}
}

func TestSolverCarriesPositionsAcrossRebuild(t *testing.T) {
	s := newRunningSolver(t)
	for i := 0; i < 50; i++ {
		s.Tick(1.0 / 60)
	}
	before := s.Positions()

	// Add a node; survivors must keep their positions at the rebuild.
	nodes, edges := testGraph()
	nodes = append(nodes, graph.Node{ID: "dave", Category: graph.CategoryLeaf})
	s.SetGraph(nodes, edges)
	after := s.Positions()

	for id, p := range before {
		if after[id] != p {
			t.Errorf("node %s lost its position across rebuild: %+v vs %+v", id, p, after[id])
		}
	}
	if _, ok := after["dave"]; !ok {
		t.Error("new node missing after rebuild")
	}
}

func TestSolverSetEdgesKeepsPositions(t *testing.T) {
	s := newRunningSolver(t)
	for i := 0; i < 50; i++ {
		s.Tick(1.0 / 60)
	}
	before := s.Positions()

	s.SetEdges([]graph.Edge{{Source: "alice", Target: "p2"}})
	after := s.Positions()

	for id, p := range before {
		if after[id] != p {
			t.Errorf("node %s moved during SetEdges", id)
		}
	}
	if s.LinkCount() != 1 {
		t.Errorf("LinkCount() = %d, want 1", s.LinkCount())
	}
}

func TestSolverReheatOnGraphChange(t *testing.T) {
	s := newRunningSolver(t)
	for i := 0; i < 2000; i++ {
		s.Tick(1.0 / 60)
	}
	if s.State() != StateSettling {
		t.Fatalf("precondition: solver did not settle (state %v)", s.State())
	}

	s.SetEdges([]graph.Edge{{Source: "alice", Target: "p2"}})
	if s.State() != StateRunning {
		t.Errorf("state = %v after edge change, want running", s.State())
	}
	if s.Alpha() < testConfig().AlphaReheat {
		t.Errorf("alpha = %v after edge change, want at least %v", s.Alpha(), testConfig().AlphaReheat)
	}
}

func TestSolverPin(t *testing.T) {
	s := newRunningSolver(t)
	s.Pin("alice", 123, 456)
	for i := 0; i < 100; i++ {
		s.Tick(1.0 / 60)
	}

	p := s.Positions()["alice"]
	if p.X != 123 || p.Y != 456 {
		t.Errorf("pinned node at %+v, want (123, 456)", p)
	}

	s.Unpin("alice")
	for i := 0; i < 10; i++ {
		s.Tick(1.0 / 60)
	}
	q := s.Positions()["alice"]
	if q.X == 123 && q.Y == 456 {
		t.Error("unpinned node never moved")
	}
}

func TestSolverEmptyGraphNoOp(t *testing.T) {
	s := NewSolver(testConfig())
	s.SetViewport(800, 600)
	s.Start()
	s.Tick(1.0 / 60) // must not panic
	if len(s.Positions()) != 0 {
		t.Error("empty solver reported positions")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "stopped"},
		{StateRunning, "running"},
		{StateSettling, "settling"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
