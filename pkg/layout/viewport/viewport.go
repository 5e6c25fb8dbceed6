// Package viewport owns the pan/zoom transform of the 2D view and the
// orbit camera of the 3D view, including the auto-fit computation that
// frames an arbitrary subset of node positions.
package viewport

import (
	"math"
	"sort"
	"strings"

	"github.com/skeinviz/skein/pkg/layout"
)

// Transform is the 2D pan/zoom state applied to the drawing area.
// Screen = layout*Scale + Translate.
type Transform struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// Apply maps a layout-space point to screen space.
func (t Transform) Apply(p layout.Point) layout.Point {
	return layout.Point{
		X: p.X*t.Scale + t.TranslateX,
		Y: p.Y*t.Scale + t.TranslateY,
	}
}

// Manager owns the 2D transform. Auto-fit transitions converge smoothly
// toward their target each tick; manual interaction always interrupts an
// in-progress transition.
type Manager struct {
	cfg layout.ViewTuning

	current Transform
	target  Transform

	converging bool
	fitKey     string
}

// NewManager creates a manager at identity scale.
func NewManager(cfg layout.ViewTuning) *Manager {
	id := Transform{Scale: 1}
	return &Manager{cfg: cfg, current: id, target: id}
}

// Transform returns the current 2D transform.
func (m *Manager) Transform() Transform { return m.current }

// Converging reports whether an auto-fit transition is still in progress.
func (m *Manager) Converging() bool { return m.converging }

// AutoFit computes the transform that frames the given positions inside
// the drawing area (viewport minus any docked side panel) and starts a
// smooth transition toward it. Re-running with an unchanged id set is
// idempotent: the fit key (sorted ids) is cached so continuous
// re-centering never fights user panning.
//
// An empty subset or a zero-size drawing area is a no-op.
func (m *Manager) AutoFit(positions map[string]layout.Point, ids []string, viewW, viewH, panelW float64) {
	availW := viewW - panelW
	if availW <= 0 || viewH <= 0 {
		return
	}

	// Ids that fail the position lookup are filtered out: transient
	// mismatches during rapid updates must not break the render loop.
	pts := make([]layout.Point, 0, len(ids))
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := positions[id]; ok {
			pts = append(pts, p)
			kept = append(kept, id)
		}
	}
	if len(pts) == 0 {
		return
	}

	key := fitKey(kept)
	if key == m.fitKey && !m.converging {
		return
	}

	b, _ := layout.BoundsOf(pts)

	// Pad tiny subsets up to the minimum content size so a single node is
	// framed with context rather than filling the screen.
	w := math.Max(b.Width(), m.cfg.MinContent)
	h := math.Max(b.Height(), m.cfg.MinContent)

	scale := math.Min(
		(availW-2*m.cfg.Margin)/w,
		(viewH-2*m.cfg.Margin)/h,
	)
	scale = clamp(scale, m.cfg.MinScale, m.cfg.MaxFitScale)

	m.target = Transform{
		TranslateX: availW/2 - b.CenterX()*scale,
		TranslateY: viewH/2 - b.CenterY()*scale,
		Scale:      scale,
	}
	m.fitKey = key
	m.converging = true
}

// Tick advances the auto-fit transition one step and reports whether a
// transition is still in progress. The transform lerps toward its target
// and stops once the remaining distance falls under the epsilon, avoiding
// infinite micro-adjustment.
func (m *Manager) Tick() bool {
	if !m.converging {
		return false
	}
	r := m.cfg.ConvergeRate
	m.current.TranslateX += (m.target.TranslateX - m.current.TranslateX) * r
	m.current.TranslateY += (m.target.TranslateY - m.current.TranslateY) * r
	m.current.Scale += (m.target.Scale - m.current.Scale) * r

	dist := math.Hypot(m.target.TranslateX-m.current.TranslateX, m.target.TranslateY-m.current.TranslateY) +
		math.Abs(m.target.Scale-m.current.Scale)*100
	if dist < m.cfg.ConvergeEps {
		m.current = m.target
		m.converging = false
	}
	return m.converging
}

// Pan applies a manual drag delta, interrupting any auto-fit transition.
func (m *Manager) Pan(dx, dy float64) {
	m.interrupt()
	m.current.TranslateX += dx
	m.current.TranslateY += dy
	m.target = m.current
}

// Zoom applies a manual zoom step about the given screen point, clamped
// to the configured scale bounds. Interrupts any auto-fit transition.
func (m *Manager) Zoom(factor, aboutX, aboutY float64) {
	m.interrupt()
	next := clamp(m.current.Scale*factor, m.cfg.MinScale, m.cfg.MaxScale)
	applied := next / m.current.Scale
	// Keep the point under the cursor fixed.
	m.current.TranslateX = aboutX - (aboutX-m.current.TranslateX)*applied
	m.current.TranslateY = aboutY - (aboutY-m.current.TranslateY)*applied
	m.current.Scale = next
	m.target = m.current
}

// Reset snaps the transform back to identity and clears the fit cache.
func (m *Manager) Reset() {
	m.interrupt()
	m.current = Transform{Scale: 1}
	m.target = m.current
}

// interrupt cancels an in-progress auto-fit and invalidates the fit key
// so the next AutoFit call recomputes even for the same subset.
func (m *Manager) interrupt() {
	m.converging = false
	m.fitKey = ""
}

func fitKey(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
