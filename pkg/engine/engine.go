// Package engine orchestrates the skein layout pipeline: it receives
// graph updates, routes them to the force solver or the ring layout,
// feeds raw positions through the smoother, and drives the viewport
// manager when the focused subset changes.
//
// The engine is single-threaded and cooperative: the host calls Tick once
// per animation frame, and every tick is a discrete, synchronous, bounded
// computation. The node-id → position map is the only shared resource; it
// is owned by the engine, written only during Tick, and read by rendering.
package engine

import (
	"context"
	"slices"

	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
	"github.com/skeinviz/skein/pkg/layout/force"
	"github.com/skeinviz/skein/pkg/layout/ring"
	"github.com/skeinviz/skein/pkg/layout/viewport"
	"github.com/skeinviz/skein/pkg/observability"
)

// Engine owns the full layout state for one graph view.
type Engine struct {
	tuning layout.Tuning
	mode   string

	nodes []graph.Node
	edges []graph.Edge
	sig   layout.Signature

	solver   *force.Solver
	smoother *layout.Smoother
	view     *viewport.Manager

	ringBase  map[string]layout.Point
	ringDirty bool

	positions map[string]layout.Point

	width, height float64
	panelWidth    float64

	running   bool
	clock     float64
	ticks     int
	prevState force.State
}

// New creates a stopped engine in the given layout mode. Unknown modes
// fall back to force.
func New(tuning layout.Tuning, mode string) *Engine {
	if !graph.ValidModes[mode] {
		mode = graph.ModeForce
	}
	return &Engine{
		tuning:    tuning,
		mode:      mode,
		solver:    force.NewSolver(tuning.Force),
		smoother:  layout.NewSmoother(tuning.Smooth.Factor),
		view:      viewport.NewManager(tuning.View),
		positions: make(map[string]layout.Point),
	}
}

// =============================================================================
// Inputs
// =============================================================================

// Update replaces the engine's graph. The change detector classifies the
// update and preserves as much solver state as the scope allows:
//
//   - Unchanged: nothing happens; the previous output is bit-identical.
//   - EdgesOnly: the solver swaps link constraints and re-injects energy
//     without discarding positions; the ring base is recomputed.
//   - FullRebuild: solver state is rebuilt with best-effort position
//     carry-over for surviving ids.
func (e *Engine) Update(nodes []graph.Node, edges []graph.Edge) {
	curr := layout.ComputeSignature(nodes, edges)
	change := layout.Classify(e.sig, curr)
	observability.Engine().OnGraphChange(context.Background(), change.String(), len(nodes), len(edges))

	switch change {
	case layout.Unchanged:
		return
	case layout.EdgesOnly:
		e.edges = slices.Clone(edges)
		e.solver.SetEdges(e.edges)
	case layout.FullRebuild:
		e.nodes = slices.Clone(nodes)
		e.edges = slices.Clone(edges)
		e.solver.SetGraph(e.nodes, e.edges)
	}
	e.sig = curr
	e.ringDirty = true
}

// SetViewport updates the drawable size. A zero size suspends ticking
// until a non-zero size is observed.
func (e *Engine) SetViewport(width, height float64) {
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	e.solver.SetViewport(width, height)
	e.ringDirty = true
}

// SetPanelWidth declares how much horizontal space docked side panels
// take from the drawing area. Auto-fit centers content in what remains.
func (e *Engine) SetPanelWidth(w float64) { e.panelWidth = w }

// SetMode switches between force and ring layout. The smoother keeps its
// state across the switch, so positions glide to the new layout instead
// of jumping. Unknown modes are ignored.
func (e *Engine) SetMode(mode string) {
	if !graph.ValidModes[mode] || mode == e.mode {
		return
	}
	e.mode = mode
	if mode == graph.ModeForce {
		// Re-inject energy so the solver re-forms structure from wherever
		// the ring layout left the nodes.
		e.solver.Restart()
	}
}

// SetFocus frames the given subset of nodes in the viewport. Ids without
// a known position are filtered out (a transient mismatch during rapid
// updates, never an error); an empty surviving subset is a no-op.
func (e *Engine) SetFocus(ids []string) {
	observability.Engine().OnAutoFit(context.Background(), len(ids))
	e.view.AutoFit(e.positions, ids, e.width, e.height, e.panelWidth)
}

// =============================================================================
// Lifecycle
// =============================================================================

// Start begins processing ticks.
func (e *Engine) Start() {
	e.running = true
	e.solver.Start()
}

// Stop suspends ticking. Last-known positions stay intact, so a paused
// layout resumes from where it left off.
func (e *Engine) Stop() {
	e.running = false
	e.solver.Stop()
}

// Restart re-injects full energy into the force solver and resumes.
func (e *Engine) Restart() {
	e.solver.Restart()
	e.running = true
}

// Running reports whether the engine is processing ticks.
func (e *Engine) Running() bool { return e.running }

// =============================================================================
// Tick
// =============================================================================

// Tick advances the engine by dt seconds: one solver step (or ring
// animation frame), one smoothing pass, one viewport convergence step.
// No-op while stopped or while the viewport has zero size. All positions
// in the output are computed against the same beginning-of-tick snapshot.
func (e *Engine) Tick(dt float64) {
	if !e.running {
		return
	}
	if e.width <= 0 || e.height <= 0 {
		return
	}
	if dt <= 0 {
		dt = 1.0 / 60
	}
	e.clock += dt
	e.ticks++

	var raw map[string]layout.Point
	switch e.mode {
	case graph.ModeRing:
		e.ensureRing()
		raw = ring.Animate(e.ringBase, e.clock, e.tuning.Ring)
	default:
		e.solver.Tick(dt)
		raw = e.solver.Positions()
	}

	e.positions = e.smoother.Step(raw)
	e.view.Tick()

	st := e.solver.State()
	if st == force.StateSettling && e.prevState == force.StateRunning {
		observability.Engine().OnSettle(context.Background(), e.ticks, e.solver.KineticEnergy())
	}
	e.prevState = st
}

// ensureRing recomputes the ring base layout if the graph or viewport
// changed since the last computation.
func (e *Engine) ensureRing() {
	if !e.ringDirty && e.ringBase != nil {
		return
	}
	e.ringBase = ring.Compute(e.nodes, e.edges, e.width, e.height, e.tuning.Ring)
	e.ringDirty = false
}

// =============================================================================
// Outputs
// =============================================================================

// Positions returns the current smoothed position map. The engine is the
// sole writer; callers must treat the map as read-only and must not hold
// it across ticks if they need a stable snapshot.
func (e *Engine) Positions() map[string]layout.Point { return e.positions }

// Transform returns the current viewport transform.
func (e *Engine) Transform() viewport.Transform { return e.view.Transform() }

// Viewport exposes the viewport manager for manual interaction
// (drag-to-pan, scroll-to-zoom), which always overrides auto-fit.
func (e *Engine) Viewport() *viewport.Manager { return e.view }

// Mode returns the active layout mode.
func (e *Engine) Mode() string { return e.mode }

// SolverState returns the force solver's scheduler state.
func (e *Engine) SolverState() force.State { return e.solver.State() }

// KineticEnergy returns the force solver's total kinetic energy.
func (e *Engine) KineticEnergy() float64 { return e.solver.KineticEnergy() }

// Alpha returns the force solver's cooling scalar.
func (e *Engine) Alpha() float64 { return e.solver.Alpha() }

// NodeCount returns the number of nodes in the current graph.
func (e *Engine) NodeCount() int { return len(e.nodes) }
