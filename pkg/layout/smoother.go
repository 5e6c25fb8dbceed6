package layout

// =============================================================================
// Position Smoother
// =============================================================================

// Smoother damps raw solver output into a visually continuous stream of
// positions, decoupling physics time from render time. Each update applies
// exponential interpolation:
//
//	smoothed = previous + (raw - previous) * factor
//
// The first observation of a node id bypasses interpolation and adopts the
// raw value directly, so new nodes never slide in from the origin. Ids
// absent from an update are evicted.
type Smoother struct {
	factor float64
	pos    map[string]Point
}

// NewSmoother creates a smoother with the given lerp factor. Factors
// outside (0,1] fall back to the default.
func NewSmoother(factor float64) *Smoother {
	if factor <= 0 || factor > 1 {
		factor = DefaultTuning().Smooth.Factor
	}
	return &Smoother{
		factor: factor,
		pos:    make(map[string]Point),
	}
}

// Step feeds one frame of raw positions through the smoother and returns
// the smoothed positions. The returned map is owned by the smoother and
// valid until the next Step call.
func (s *Smoother) Step(raw map[string]Point) map[string]Point {
	// Evict ids that disappeared from the raw stream.
	for id := range s.pos {
		if _, ok := raw[id]; !ok {
			delete(s.pos, id)
		}
	}

	for id, target := range raw {
		prev, seen := s.pos[id]
		if !seen {
			s.pos[id] = target
			continue
		}
		s.pos[id] = prev.Lerp(target, s.factor)
	}
	return s.pos
}

// Positions returns the current smoothed positions without advancing.
func (s *Smoother) Positions() map[string]Point {
	return s.pos
}

// Reset discards all smoothing state. The next Step adopts raw values
// directly for every id.
func (s *Smoother) Reset() {
	s.pos = make(map[string]Point)
}
