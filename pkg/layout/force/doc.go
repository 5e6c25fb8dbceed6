// Package force implements the iterative physics solver of the skein
// layout engine.
//
// # Model
//
// Every node carries a position and a velocity. Each tick, a set of named
// force terms (link, repulsion, collision, centering, stratification,
// bounds, drift) accumulates velocity deltas against a consistent
// beginning-of-tick snapshot, then positions integrate velocity and
// velocity decays by a damping factor. Forces read positions only and
// write only to per-tick accumulators, so no node ever sees another
// node's already-updated position within the same tick.
//
// # Cooling
//
// A global alpha scalar starts near 1 and decays geometrically toward a
// non-zero floor; every force is multiplied by alpha. Because the floor
// stays above zero, the bounded drift force keeps the layout subtly
// animated even at rest. Graph changes and restarts re-inject energy by
// raising alpha.
//
// # Scheduler States
//
// The solver is an explicit state machine:
//
//	Stopped  → no ticks are processed; last positions are retained
//	Running  → full cooling schedule in effect
//	Settling → kinetic energy fell below the settle threshold; the drift
//	           force deliberately stays alive so the layout never looks dead
//
// Settling is a reporting state, not a different integration mode: all
// forces keep running at the alpha floor. The transition exists so hosts
// can cheapen rendering once the layout has effectively converged.
package force
