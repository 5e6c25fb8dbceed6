// Package layout contains the shared building blocks of the skein layout
// engine: coordinate types, tuning parameters, the graph change detector,
// and the position smoother.
//
// # Architecture
//
// The engine turns an abstract relationship graph into a continuously
// updated set of spatial coordinates. Data flows one direction per tick:
//
//	graph + mode → layout algorithm → raw positions → smoothing → output
//
// Two interchangeable algorithms produce raw positions:
//
//   - force: an iterative physics solver (package layout/force)
//   - ring: a closed-form angular allocation (package layout/ring)
//
// Selection changes drive the viewport independently of the position
// pipeline (package layout/viewport). Package engine orchestrates all of
// the above behind a single tick-driven API.
//
// # Change Detection
//
// Every graph update is classified against the previous one via
// order-independent signatures:
//
//	sig := layout.ComputeSignature(nodes, edges)
//	switch layout.Classify(prev, sig) {
//	case layout.Unchanged:   // keep all solver state
//	case layout.EdgesOnly:   // swap link constraints, keep positions
//	case layout.FullRebuild: // rebuild, carrying over surviving positions
//	}
//
// # Tuning
//
// All per-deployment constants (force strengths, radii, spacing, margins)
// live in a single Tuning struct rather than duplicated code paths. See
// DefaultTuning for the baseline values and package config for loading
// overrides from a TOML file.
package layout
