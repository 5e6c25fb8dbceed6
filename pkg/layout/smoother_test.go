package layout

import (
	"math"
	"testing"
)

func TestSmootherFirstObservationBypass(t *testing.T) {
	s := NewSmoother(0.2)
	out := s.Step(map[string]Point{"a": {X: 100, Y: 50}})

	if out["a"] != (Point{X: 100, Y: 50}) {
		t.Errorf("first observation = %+v, want raw value adopted directly", out["a"])
	}
}

func TestSmootherLerp(t *testing.T) {
	s := NewSmoother(0.5)
	s.Step(map[string]Point{"a": {X: 0, Y: 0}})
	out := s.Step(map[string]Point{"a": {X: 10, Y: 20}})

	if math.Abs(out["a"].X-5) > 1e-9 || math.Abs(out["a"].Y-10) > 1e-9 {
		t.Errorf("smoothed = %+v, want halfway point (5, 10)", out["a"])
	}
}

func TestSmootherConverges(t *testing.T) {
	s := NewSmoother(0.18)
	s.Step(map[string]Point{"a": {X: 0, Y: 0}})

	target := map[string]Point{"a": {X: 100, Y: -40}}
	var out map[string]Point
	for i := 0; i < 200; i++ {
		out = s.Step(target)
	}
	if out["a"].Dist(target["a"]) > 0.01 {
		t.Errorf("smoothed position %+v did not converge to %+v", out["a"], target["a"])
	}
}

func TestSmootherEvictsMissingIDs(t *testing.T) {
	s := NewSmoother(0.5)
	s.Step(map[string]Point{"a": {X: 1}, "b": {X: 2}})
	out := s.Step(map[string]Point{"a": {X: 1}})

	if _, ok := out["b"]; ok {
		t.Error("id absent from raw stream was not evicted")
	}
}

func TestSmootherReset(t *testing.T) {
	s := NewSmoother(0.5)
	s.Step(map[string]Point{"a": {X: 0}})
	s.Reset()
	out := s.Step(map[string]Point{"a": {X: 100}})

	if out["a"].X != 100 {
		t.Errorf("after Reset, smoothed X = %v, want raw 100", out["a"].X)
	}
}

func TestSmootherInvalidFactorFallsBack(t *testing.T) {
	for _, factor := range []float64{0, -1, 1.5} {
		s := NewSmoother(factor)
		if s.factor != DefaultTuning().Smooth.Factor {
			t.Errorf("NewSmoother(%v).factor = %v, want default", factor, s.factor)
		}
	}
}
