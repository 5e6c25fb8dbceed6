package force

import (
	"math"
	"math/rand"

	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
)

// State is the solver's scheduler state.
type State int

const (
	// StateStopped: ticks are ignored and positions are frozen in place.
	StateStopped State = iota

	// StateRunning: the full cooling schedule is in effect.
	StateRunning

	// StateSettling: kinetic energy dropped below the settle threshold.
	// Forces keep running at the alpha floor so drift stays alive.
	StateSettling
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// Nominal spawn frame used when the real viewport is not yet known. The
// bounds force pulls nodes into the real frame once it arrives.
const (
	nominalWidth  = 800.0
	nominalHeight = 600.0
)

// simNode is the solver-private state of one node. It lives in an
// index-addressed arena owned exclusively by the solver and is recreated
// (position carried over) whenever the node set changes.
type simNode struct {
	id  string
	hub bool

	x, y   float64
	vx, vy float64

	// Per-tick force accumulators. Cleared at the start of every tick;
	// force terms write here and never to x/y directly.
	fx, fy float64

	pinned     bool
	pinX, pinY float64

	// phase de-synchronizes the drift oscillation across nodes.
	phase float64

	radius float64 // rendered radius, drives collision
	repel  float64 // repulsion strength contribution
}

// link is one resolved edge constraint. Edges whose endpoints are missing
// from the node set are dropped before they ever become links.
type link struct {
	a, b   int
	weight float64
	rest   float64
}

// Solver relaxes node positions toward a configuration that jointly
// satisfies the competing force terms. It is single-threaded and driven by
// explicit Tick calls; see the package documentation for the model.
type Solver struct {
	cfg layout.ForceTuning

	nodes []simNode
	index map[string]int
	links []link

	width, height float64

	alpha float64
	state State
	clock float64 // seconds of simulated time, drives drift

	rng *rand.Rand
}

// NewSolver creates a stopped solver with no graph.
func NewSolver(cfg layout.ForceTuning) *Solver {
	return &Solver{
		cfg:   cfg,
		index: make(map[string]int),
		alpha: cfg.AlphaInitial,
		state: StateStopped,
		rng:   rand.New(rand.NewSource(int64(cfg.Seed))),
	}
}

// SetViewport updates the drawable frame. A zero-size frame suspends
// ticking until a non-zero size is observed.
func (s *Solver) SetViewport(width, height float64) {
	s.width, s.height = width, height
}

// SetGraph replaces the node set and edge set (FullRebuild scope).
// Positions of ids that persisted carry over; new nodes are synthesized
// evenly around a circle of radius proportional to sqrt(nodeCount), in a
// vertical band determined by category, with a small jitter to avoid
// degenerate overlaps. Re-injects energy unless the solver is stopped.
func (s *Solver) SetGraph(nodes []graph.Node, edges []graph.Edge) {
	prev := s.nodes
	prevIndex := s.index

	s.nodes = make([]simNode, len(nodes))
	s.index = make(map[string]int, len(nodes))

	w, h := s.frame()
	spawnRadius := s.cfg.SpawnRadius * math.Sqrt(float64(len(nodes)))

	fresh := 0
	for i, n := range nodes {
		sn := simNode{
			id:    n.ID,
			hub:   n.IsHub(),
			phase: layout.Phase(n.ID),
		}
		if sn.hub {
			sn.radius = s.cfg.RadiusHub
			sn.repel = s.cfg.RepelHub
		} else {
			sn.radius = s.cfg.RadiusLeaf
			sn.repel = s.cfg.RepelLeaf
		}

		if j, ok := prevIndex[n.ID]; ok {
			old := prev[j]
			sn.x, sn.y = old.x, old.y
			sn.vx, sn.vy = old.vx, old.vy
			sn.pinned, sn.pinX, sn.pinY = old.pinned, old.pinX, old.pinY
		} else {
			angle := 2 * math.Pi * float64(fresh) / float64(max(1, len(nodes)))
			band := s.cfg.LeafBand
			if sn.hub {
				band = s.cfg.HubBand
			}
			sn.x = w/2 + spawnRadius*math.Cos(angle) + s.jitter()
			sn.y = band*h + spawnRadius*0.4*math.Sin(angle) + s.jitter()
			fresh++
		}
		s.nodes[i] = sn
		s.index[n.ID] = i
	}

	s.rebuildLinks(edges)
	s.reheat()
}

// SetEdges replaces only the link constraints (EdgesOnly scope), keeping
// all node positions and velocities, and re-injects energy.
func (s *Solver) SetEdges(edges []graph.Edge) {
	s.rebuildLinks(edges)
	s.reheat()
}

// rebuildLinks resolves edges against the current node set. Dangling
// endpoints are silently dropped.
func (s *Solver) rebuildLinks(edges []graph.Edge) {
	s.links = s.links[:0]
	for _, e := range edges {
		a, okA := s.index[e.Source]
		b, okB := s.index[e.Target]
		if !okA || !okB || a == b {
			continue
		}
		weight := e.Weight
		if weight <= 0 {
			weight = 1
		}
		s.links = append(s.links, link{
			a:      a,
			b:      b,
			weight: weight,
			rest:   s.restDistance(a, b),
		})
	}
}

// restDistance picks the target rest length for the category pairing.
// Hub↔leaf edges are shorter than leaf↔leaf so clusters form naturally.
func (s *Solver) restDistance(a, b int) float64 {
	ha, hb := s.nodes[a].hub, s.nodes[b].hub
	switch {
	case ha && hb:
		return s.cfg.LinkDistHubHub
	case ha || hb:
		return s.cfg.LinkDistHubLeaf
	default:
		return s.cfg.LinkDistLeaf
	}
}

// Start resumes ticking from the last-known positions.
func (s *Solver) Start() {
	if s.state == StateStopped {
		s.state = StateRunning
	}
}

// Stop freezes the solver. Positions are retained so a paused layout can
// resume from where it left off.
func (s *Solver) Stop() {
	s.state = StateStopped
}

// Restart resets the cooling schedule to full energy and resumes.
func (s *Solver) Restart() {
	s.alpha = s.cfg.AlphaInitial
	s.state = StateRunning
}

// reheat raises alpha after a graph change so the layout can re-settle.
// A stopped solver stays stopped; the energy applies once it resumes.
func (s *Solver) reheat() {
	s.alpha = math.Max(s.alpha, s.cfg.AlphaReheat)
	if s.state == StateSettling {
		s.state = StateRunning
	}
}

// Pin fixes a node at the given coordinates until Unpin. Unknown ids are
// ignored.
func (s *Solver) Pin(id string, x, y float64) {
	if i, ok := s.index[id]; ok {
		n := &s.nodes[i]
		n.pinned, n.pinX, n.pinY = true, x, y
		n.x, n.y = x, y
		n.vx, n.vy = 0, 0
	}
}

// Unpin releases a pinned node back to the simulation.
func (s *Solver) Unpin(id string) {
	if i, ok := s.index[id]; ok {
		s.nodes[i].pinned = false
	}
}

// Tick advances the simulation by dt seconds. Each tick is a discrete,
// bounded computation: clear accumulators, apply every force term against
// the beginning-of-tick snapshot, integrate, cool. No-op when stopped,
// when the graph is empty, or while the viewport has zero size.
func (s *Solver) Tick(dt float64) {
	if s.state == StateStopped || len(s.nodes) == 0 {
		return
	}
	if s.width <= 0 || s.height <= 0 {
		return
	}
	if dt <= 0 {
		dt = 1.0 / 60
	}
	s.clock += dt

	for i := range s.nodes {
		s.nodes[i].fx = 0
		s.nodes[i].fy = 0
	}

	s.applyLinks()
	s.applyRepulsion()
	s.applyCollision()
	s.applyCentering()
	s.applyStratification()
	s.applyBounds()
	s.applyDrift()

	s.integrate()
	s.cool()
}

// integrate applies accumulated forces scaled by alpha, then decays
// velocity and moves positions. Pinned nodes stay put.
func (s *Solver) integrate() {
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.pinned {
			n.x, n.y = n.pinX, n.pinY
			n.vx, n.vy = 0, 0
			continue
		}
		n.vx = (n.vx + n.fx*s.alpha) * s.cfg.Damping
		n.vy = (n.vy + n.fy*s.alpha) * s.cfg.Damping
		n.x += n.vx
		n.y += n.vy
	}
}

// cool decays alpha geometrically toward the target floor and updates the
// Running/Settling transition.
func (s *Solver) cool() {
	s.alpha += (s.cfg.AlphaTarget - s.alpha) * s.cfg.AlphaDecay
	if s.state == StateRunning && s.KineticEnergy() < s.cfg.SettleEnergy {
		s.state = StateSettling
	}
}

// Positions returns the current position of every node. The map is freshly
// allocated; callers own it.
func (s *Solver) Positions() map[string]layout.Point {
	out := make(map[string]layout.Point, len(s.nodes))
	for i := range s.nodes {
		out[s.nodes[i].id] = layout.Point{X: s.nodes[i].x, Y: s.nodes[i].y}
	}
	return out
}

// KineticEnergy returns the sum of velocity magnitudes across all nodes.
func (s *Solver) KineticEnergy() float64 {
	var total float64
	for i := range s.nodes {
		total += math.Hypot(s.nodes[i].vx, s.nodes[i].vy)
	}
	return total
}

// Alpha returns the current cooling scalar.
func (s *Solver) Alpha() float64 { return s.alpha }

// State returns the current scheduler state.
func (s *Solver) State() State { return s.state }

// NodeCount returns the number of simulated nodes.
func (s *Solver) NodeCount() int { return len(s.nodes) }

// LinkCount returns the number of resolved link constraints.
func (s *Solver) LinkCount() int { return len(s.links) }

func (s *Solver) frame() (w, h float64) {
	w, h = s.width, s.height
	if w <= 0 {
		w = nominalWidth
	}
	if h <= 0 {
		h = nominalHeight
	}
	return w, h
}

func (s *Solver) jitter() float64 {
	return (s.rng.Float64()*2 - 1) * s.cfg.SpawnJitter
}
