package viewport

import "github.com/skeinviz/skein/pkg/layout"

// Camera is the 3D orbit camera state: a position and a look-at target.
// Framing transitions interpolate both vectors toward their goals each
// tick rather than snapping, and stop once both remaining distances fall
// under the epsilon.
type Camera struct {
	Position layout.Point3
	Target   layout.Point3

	goalPosition layout.Point3
	goalTarget   layout.Point3

	rate       float64
	eps        float64
	converging bool
}

// NewCamera creates a camera at the given starting pose.
func NewCamera(position, target layout.Point3, cfg layout.ViewTuning) *Camera {
	return &Camera{
		Position:     position,
		Target:       target,
		goalPosition: position,
		goalTarget:   target,
		rate:         cfg.ConvergeRate,
		eps:          cfg.ConvergeEps,
	}
}

// FrameTo starts a smooth transition toward the given pose.
func (c *Camera) FrameTo(position, target layout.Point3) {
	c.goalPosition = position
	c.goalTarget = target
	c.converging = true
}

// Tick advances the transition and reports whether it is still in
// progress. Complete transitions snap exactly onto the goal to avoid
// infinite micro-adjustment.
func (c *Camera) Tick() bool {
	if !c.converging {
		return false
	}
	c.Position = c.Position.Lerp(c.goalPosition, c.rate)
	c.Target = c.Target.Lerp(c.goalTarget, c.rate)

	if c.Position.Dist(c.goalPosition) < c.eps && c.Target.Dist(c.goalTarget) < c.eps {
		c.Position = c.goalPosition
		c.Target = c.goalTarget
		c.converging = false
	}
	return c.converging
}

// Converging reports whether a framing transition is in progress.
func (c *Camera) Converging() bool { return c.converging }

// Interrupt cancels an in-progress transition, holding the current pose.
// Manual orbit input calls this before applying its own deltas.
func (c *Camera) Interrupt() {
	c.goalPosition = c.Position
	c.goalTarget = c.Target
	c.converging = false
}

// MoveBy applies a manual camera delta, interrupting any transition.
func (c *Camera) MoveBy(dx, dy, dz float64) {
	c.Interrupt()
	c.Position.X += dx
	c.Position.Y += dy
	c.Position.Z += dz
	c.goalPosition = c.Position
}
