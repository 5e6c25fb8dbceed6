// Package ring implements the deterministic ring/arc layout of the skein
// layout engine.
//
// Hubs occupy one or more concentric arcs centered on the top of the
// frame; leaves sit on an outer ring, clustered near their primary hub.
// The base layout is a pure function of (nodes, edges, width, height),
// with no hidden state or history dependency, which makes it trivially
// reproducible. A seeded float animation perturbs the base positions with
// a unique phase per node; pausing and resuming converges back to the
// same base layout.
package ring

import (
	"math"
	"sort"

	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
)

// top is the angle of the twelve o'clock position.
const top = -math.Pi / 2

// Compute returns the base position for every node by capacity-aware
// angular allocation. Dangling edges are ignored. An empty node list
// yields an empty map.
func Compute(nodes []graph.Node, edges []graph.Edge, width, height float64, cfg layout.RingTuning) map[string]layout.Point {
	out := make(map[string]layout.Point, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	cx, cy := width/2, height/2
	spacing := cfg.NodeWidth + cfg.Gap + cfg.AnimationMargin

	var hubs, leaves []graph.Node
	for _, n := range nodes {
		if n.IsHub() {
			hubs = append(hubs, n)
		} else {
			leaves = append(leaves, n)
		}
	}

	hubAngle, outerHubRadius := placeHubs(out, hubs, cx, cy, spacing, cfg)
	placeLeaves(out, leaves, edges, hubAngle, outerHubRadius, cx, cy, spacing, cfg)
	return out
}

// Animate applies the float animation on top of base positions for the
// given elapsed time in seconds. Pure: the same (base, t) always yields
// the same result, and t=0 when FloatAmplitude is 0 returns the base.
func Animate(base map[string]layout.Point, t float64, cfg layout.RingTuning) map[string]layout.Point {
	out := make(map[string]layout.Point, len(base))
	w := cfg.FloatSpeed * t
	for id, p := range base {
		phase := layout.Phase(id)
		out[id] = layout.Point{
			X: p.X + cfg.FloatAmplitude*math.Sin(w+phase),
			Y: p.Y + cfg.FloatAmplitude*math.Cos(w*0.83+phase*1.7),
		}
	}
	return out
}

// placeHubs allocates hubs on concentric arcs centered on the top of the
// frame. The radius grows (bounded) before hubs ever overlap; once the
// bounded radius cannot fit a single row, the surplus spills into
// additional concentric rows. Returns the assigned angle per hub id and
// the outermost hub radius used.
func placeHubs(out map[string]layout.Point, hubs []graph.Node, cx, cy, spacing float64, cfg layout.RingTuning) (map[string]float64, float64) {
	angles := make(map[string]float64, len(hubs))
	if len(hubs) == 0 {
		return angles, cfg.HubRadius
	}

	span := cfg.HubSpanDeg * math.Pi / 180

	// Grow the radius until the whole group fits in one row, bounded by
	// MaxHubRadius.
	radius := cfg.HubRadius
	if need := float64(len(hubs)) * spacing / span; need > radius {
		radius = math.Min(need, cfg.MaxHubRadius)
	}

	outer := radius
	remaining := hubs
	for row := 0; len(remaining) > 0; row++ {
		r := radius + float64(row)*cfg.RowGap
		// When the radius was grown to fit this exact group, the quotient
		// is integral and float rounding can land just below it; the
		// epsilon keeps truncation from dropping that last slot.
		capacity := int(span*r/spacing + 1e-9)
		if capacity < 1 {
			capacity = 1
		}
		take := len(remaining)
		if take > capacity {
			take = capacity
		}

		step := 0.0
		if take > 1 {
			step = span / float64(take-1)
			if max := spacing / r; step > max*2 {
				// Few nodes on a wide arc: keep them grouped near the top
				// instead of scattering to the span extremes.
				step = max * 2
			}
		}
		start := top - step*float64(take-1)/2
		for i := 0; i < take; i++ {
			a := start + step*float64(i)
			angles[remaining[i].ID] = a
			out[remaining[i].ID] = layout.Point{
				X: cx + r*math.Cos(a),
				Y: cy + r*math.Sin(a),
			}
		}
		outer = r
		remaining = remaining[take:]
	}
	return angles, outer
}

// leafSlot is a leaf with its desired angle before overlap resolution.
type leafSlot struct {
	id    string
	angle float64
	order int
}

// placeLeaves allocates leaves on an outer ring. Each leaf with a hub
// connection clusters near its primary hub (first connected hub by edge
// order); leaves with no hub connection are spread across the arc
// opposite the hub span. A final sweep enforces the minimum angular
// spacing between neighbors.
func placeLeaves(out map[string]layout.Point, leaves []graph.Node, edges []graph.Edge, hubAngle map[string]float64, outerHubRadius, cx, cy, spacing float64, cfg layout.RingTuning) {
	if len(leaves) == 0 {
		return
	}

	radius := outerHubRadius + cfg.LeafGap
	// Grow the ring when the full circle cannot hold every leaf at the
	// minimum spacing.
	if need := float64(len(leaves)) * spacing / (2 * math.Pi); need > radius {
		radius = need
	}
	step := spacing / radius

	primary := primaryHubs(leaves, edges, hubAngle)

	// Desired angles: clustered leaves fan out around their hub's angle in
	// arrival order; orphans spread across the arc opposite the hub span.
	slots := make([]leafSlot, 0, len(leaves))
	clusterIdx := make(map[string]int)
	var orphans []graph.Node
	for _, leaf := range leaves {
		hub, ok := primary[leaf.ID]
		if !ok {
			orphans = append(orphans, leaf)
			continue
		}
		k := clusterIdx[hub]
		clusterIdx[hub] = k + 1
		// Fan alternates right/left of the hub angle: 0, +1, -1, +2, ...
		offset := float64((k+1)/2) * step
		if k%2 == 0 {
			offset = -offset
		}
		slots = append(slots, leafSlot{id: leaf.ID, angle: hubAngle[hub] - offset, order: len(slots)})
	}

	if len(orphans) > 0 {
		span := 2*math.Pi - cfg.HubSpanDeg*math.Pi/180
		ostep := span / float64(len(orphans)+1)
		start := top + cfg.HubSpanDeg*math.Pi/180/2 // just past the hub arc
		for i, leaf := range orphans {
			slots = append(slots, leafSlot{
				id:    leaf.ID,
				angle: start + ostep*float64(i+1),
				order: len(slots),
			})
		}
	}

	resolveOverlaps(slots, step)

	for _, s := range slots {
		out[s.id] = layout.Point{
			X: cx + radius*math.Cos(s.angle),
			Y: cy + radius*math.Sin(s.angle),
		}
	}
}

// primaryHubs maps each leaf id to its primary hub: the first hub (by edge
// declaration order) connected to the leaf in either direction. The edge
// walk order is part of the layout contract, so callers that want stable
// clustering must keep their edge order stable.
func primaryHubs(leaves []graph.Node, edges []graph.Edge, hubAngle map[string]float64) map[string]string {
	leafSet := make(map[string]bool, len(leaves))
	for _, l := range leaves {
		leafSet[l.ID] = true
	}
	primary := make(map[string]string)
	for _, e := range edges {
		var leaf, other string
		switch {
		case leafSet[e.Source]:
			leaf, other = e.Source, e.Target
		case leafSet[e.Target]:
			leaf, other = e.Target, e.Source
		default:
			continue
		}
		if _, taken := primary[leaf]; taken {
			continue
		}
		if _, isHub := hubAngle[other]; isHub {
			primary[leaf] = other
		}
	}
	return primary
}

// resolveOverlaps enforces the minimum angular separation between
// neighboring slots with a single sorted sweep, shifting the group as
// little as possible. The sweep is deterministic: ties break on arrival
// order.
func resolveOverlaps(slots []leafSlot, minStep float64) {
	if len(slots) < 2 {
		return
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].angle != slots[j].angle {
			return slots[i].angle < slots[j].angle
		}
		return slots[i].order < slots[j].order
	})

	var before float64
	for i := range slots {
		before += slots[i].angle
	}

	for i := 1; i < len(slots); i++ {
		if d := slots[i].angle - slots[i-1].angle; d < minStep {
			slots[i].angle = slots[i-1].angle + minStep
		}
	}

	// Re-center so the sweep does not bias the whole ring clockwise.
	var after float64
	for i := range slots {
		after += slots[i].angle
	}
	shift := (after - before) / float64(len(slots))
	for i := range slots {
		slots[i].angle -= shift
	}
}
