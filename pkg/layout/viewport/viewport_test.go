package viewport

import (
	"math"
	"testing"

	"github.com/skeinviz/skein/pkg/layout"
)

func testConfig() layout.ViewTuning {
	return layout.DefaultTuning().View
}

func converge(m *Manager) {
	for i := 0; i < 500 && m.Tick(); i++ {
	}
}

// Two nodes at (0,0) and (100,0) in a 1000x800 viewport with a 350px
// panel must both land inside the available drawing area with margin.
func TestAutoFitFramesSubset(t *testing.T) {
	cfg := testConfig()
	m := NewManager(cfg)

	positions := map[string]layout.Point{
		"a": {X: 0, Y: 0},
		"b": {X: 100, Y: 0},
	}
	m.AutoFit(positions, []string{"a", "b"}, 1000, 800, 350)
	converge(m)

	tf := m.Transform()
	availW := 1000.0 - 350.0
	for id, p := range positions {
		s := tf.Apply(p)
		if s.X < 0 || s.X > availW || s.Y < 0 || s.Y > 800 {
			t.Errorf("node %s projected to %+v, outside available area %vx800", id, s, availW)
		}
	}
	if tf.Scale > cfg.MaxFitScale || tf.Scale < cfg.MinScale {
		t.Errorf("fit scale %v outside [%v, %v]", tf.Scale, cfg.MinScale, cfg.MaxFitScale)
	}
}

func TestAutoFitSmallSubsetUsesMinContent(t *testing.T) {
	cfg := testConfig()
	m := NewManager(cfg)

	// A single node spans zero area; the fit must pad to MinContent
	// instead of zooming to MaxFitScale on a point.
	m.AutoFit(map[string]layout.Point{"a": {X: 50, Y: 50}}, []string{"a"}, 1000, 800, 0)
	converge(m)

	want := math.Min((1000-2*cfg.Margin)/cfg.MinContent, (800-2*cfg.Margin)/cfg.MinContent)
	want = math.Min(want, cfg.MaxFitScale)
	if math.Abs(m.Transform().Scale-want) > 1e-9 {
		t.Errorf("scale = %v, want %v from MinContent padding", m.Transform().Scale, want)
	}
}

func TestAutoFitIdempotentForSameSubset(t *testing.T) {
	m := NewManager(testConfig())
	positions := map[string]layout.Point{"a": {X: 0, Y: 0}, "b": {X: 100, Y: 100}}

	m.AutoFit(positions, []string{"a", "b"}, 1000, 800, 0)
	converge(m)
	before := m.Transform()

	// Same ids in different order: the fit key is order-independent, so
	// nothing may restart.
	m.AutoFit(positions, []string{"b", "a"}, 1000, 800, 0)
	if m.Converging() {
		t.Error("AutoFit with an unchanged subset restarted the transition")
	}
	if m.Transform() != before {
		t.Error("AutoFit with an unchanged subset moved the transform")
	}
}

func TestAutoFitFiltersUnknownIDs(t *testing.T) {
	m := NewManager(testConfig())
	positions := map[string]layout.Point{"a": {X: 0, Y: 0}}

	// Unknown ids are dropped; an all-unknown subset is a no-op.
	m.AutoFit(positions, []string{"ghost"}, 1000, 800, 0)
	if m.Converging() {
		t.Error("AutoFit on unknown ids started a transition")
	}

	m.AutoFit(positions, []string{"a", "ghost"}, 1000, 800, 0)
	if !m.Converging() {
		t.Error("AutoFit did not start for the surviving subset")
	}
}

func TestAutoFitEmptyAndZeroViewport(t *testing.T) {
	m := NewManager(testConfig())
	m.AutoFit(nil, nil, 1000, 800, 0)
	m.AutoFit(map[string]layout.Point{"a": {}}, []string{"a"}, 0, 0, 0)
	m.AutoFit(map[string]layout.Point{"a": {}}, []string{"a"}, 300, 800, 300)
	if m.Converging() {
		t.Error("degenerate AutoFit input started a transition")
	}
}

func TestTickConvergesAndStops(t *testing.T) {
	m := NewManager(testConfig())
	m.AutoFit(map[string]layout.Point{"a": {X: 0, Y: 0}, "b": {X: 500, Y: 500}}, []string{"a", "b"}, 1000, 800, 0)

	steps := 0
	for m.Tick() {
		steps++
		if steps > 1000 {
			t.Fatal("transition never converged")
		}
	}
	if m.Converging() {
		t.Error("Converging() still true after Tick returned false")
	}
	// Converged transforms snap exactly onto the target.
	if m.current != m.target {
		t.Errorf("current %+v != target %+v after convergence", m.current, m.target)
	}
}

func TestPanInterruptsAutoFit(t *testing.T) {
	m := NewManager(testConfig())
	positions := map[string]layout.Point{"a": {X: 0, Y: 0}, "b": {X: 500, Y: 500}}
	m.AutoFit(positions, []string{"a", "b"}, 1000, 800, 0)
	m.Tick()

	m.Pan(10, -5)
	if m.Converging() {
		t.Error("manual pan did not interrupt the auto-fit transition")
	}

	// After an interrupt the same subset must re-fit on request.
	m.AutoFit(positions, []string{"a", "b"}, 1000, 800, 0)
	if !m.Converging() {
		t.Error("AutoFit after manual interaction did not restart")
	}
}

func TestZoomClampsScale(t *testing.T) {
	cfg := testConfig()
	m := NewManager(cfg)

	for i := 0; i < 50; i++ {
		m.Zoom(2, 500, 400)
	}
	if got := m.Transform().Scale; got != cfg.MaxScale {
		t.Errorf("scale = %v after zooming in, want clamp at %v", got, cfg.MaxScale)
	}

	for i := 0; i < 50; i++ {
		m.Zoom(0.5, 500, 400)
	}
	if got := m.Transform().Scale; got != cfg.MinScale {
		t.Errorf("scale = %v after zooming out, want clamp at %v", got, cfg.MinScale)
	}
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	m := NewManager(testConfig())
	// World point under the anchor before zooming.
	anchor := layout.Point{X: 300, Y: 200}
	before := m.Transform().Apply(anchor)

	m.Zoom(1.5, before.X, before.Y)
	after := m.Transform().Apply(anchor)

	if before.Dist(after) > 1e-9 {
		t.Errorf("anchor moved from %+v to %+v during zoom", before, after)
	}
}

func TestReset(t *testing.T) {
	m := NewManager(testConfig())
	m.Pan(100, 100)
	m.Zoom(2, 0, 0)
	m.Reset()

	if m.Transform() != (Transform{Scale: 1}) {
		t.Errorf("Reset() left transform %+v", m.Transform())
	}
}
