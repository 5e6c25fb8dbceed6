package force

import "math"

// minDist guards divisions when two nodes occupy nearly the same point.
const minDist = 0.01

// applyLinks pulls connected nodes toward the rest distance of their
// category pairing. The correction is a fraction of the full delta per
// tick, split between both endpoints, never an instantaneous snap.
func (s *Solver) applyLinks() {
	for _, l := range s.links {
		a, b := &s.nodes[l.a], &s.nodes[l.b]
		dx := b.x - a.x
		dy := b.y - a.y
		dist := math.Hypot(dx, dy)
		if dist < minDist {
			dist = minDist
		}
		f := (dist - l.rest) / dist * s.cfg.LinkStrength * l.weight
		fx := dx * f * 0.5
		fy := dy * f * 0.5
		a.fx += fx
		a.fy += fy
		b.fx -= fx
		b.fy -= fy
	}
}

// applyRepulsion pushes every pair of nodes apart with inverse-square
// falloff, capped beyond the maximum interaction distance. Hubs carry a
// larger strength so they stay anchored as spine points.
func (s *Solver) applyRepulsion() {
	maxDist := s.cfg.RepelMaxDist
	for i := range s.nodes {
		a := &s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := &s.nodes[j]
			dx := a.x - b.x
			dy := a.y - b.y
			dist := math.Hypot(dx, dy)
			if dist > maxDist {
				continue
			}
			if dist < minDist {
				// Coincident nodes: separate along a stable pseudo-random axis.
				dx, dy = math.Cos(a.phase), math.Sin(a.phase)
				dist = minDist
			}
			strength := (a.repel + b.repel) / 2
			f := strength / (dist * dist)
			fx := dx / dist * f
			fy := dy / dist * f
			a.fx += fx
			a.fy += fy
			b.fx -= fx
			b.fy -= fy
		}
	}
}

// applyCollision resolves short-range visual overlap proportional to the
// sum of the two rendered radii plus padding.
func (s *Solver) applyCollision() {
	pad := s.cfg.CollidePadding
	for i := range s.nodes {
		a := &s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := &s.nodes[j]
			minSep := a.radius + b.radius + pad
			dx := a.x - b.x
			dy := a.y - b.y
			dist := math.Hypot(dx, dy)
			if dist >= minSep {
				continue
			}
			if dist < minDist {
				dx, dy = math.Cos(a.phase), math.Sin(a.phase)
				dist = minDist
			}
			overlap := (minSep - dist) * s.cfg.CollideStrength * 0.5
			fx := dx / dist * overlap
			fy := dy / dist * overlap
			a.fx += fx
			a.fy += fy
			b.fx -= fx
			b.fy -= fy
		}
	}
}

// applyCentering pulls the whole system toward the frame center as a unit,
// preventing slow drift off-screen without distorting relative structure.
func (s *Solver) applyCentering() {
	w, h := s.frame()
	var cx, cy float64
	for i := range s.nodes {
		cx += s.nodes[i].x
		cy += s.nodes[i].y
	}
	n := float64(len(s.nodes))
	offX := (w/2 - cx/n) * s.cfg.CenterStrength
	offY := (h/2 - cy/n) * s.cfg.CenterStrength
	for i := range s.nodes {
		s.nodes[i].fx += offX
		s.nodes[i].fy += offY
	}
}

// applyStratification pulls each category toward its own vertical band:
// hubs toward the top, leaves toward the bottom, giving a layered rather
// than uniformly scattered result.
func (s *Solver) applyStratification() {
	_, h := s.frame()
	hubY := s.cfg.HubBand * h
	leafY := s.cfg.LeafBand * h
	for i := range s.nodes {
		n := &s.nodes[i]
		target := leafY
		if n.hub {
			target = hubY
		}
		n.fy += (target - n.y) * s.cfg.StratifyStrength
	}
}

// applyBounds pushes nodes softly back into the drawable rectangle. The
// push grows linearly with penetration into the margin zone; there is no
// hard clamp, so re-entry never snaps visibly.
func (s *Solver) applyBounds() {
	w, h := s.frame()
	m := s.cfg.BoundsMargin
	k := s.cfg.BoundsStrength
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.x < m {
			n.fx += (m - n.x) * k
		} else if n.x > w-m {
			n.fx -= (n.x - (w - m)) * k
		}
		if n.y < m {
			n.fy += (m - n.y) * k
		} else if n.y > h-m {
			n.fy -= (n.y - (h - m)) * k
		}
	}
}

// applyDrift adds a small, time-varying, per-node-phased sinusoidal
// perturbation so the layout stays gently alive after convergence. The
// magnitude is strictly bounded by the configured amplitude and therefore
// never dominates the structural forces.
func (s *Solver) applyDrift() {
	amp := s.cfg.DriftAmplitude
	t := s.clock * s.cfg.DriftSpeed
	for i := range s.nodes {
		n := &s.nodes[i]
		n.fx += amp * math.Sin(t+n.phase)
		n.fy += amp * math.Cos(t*0.83+n.phase*1.7)
	}
}
