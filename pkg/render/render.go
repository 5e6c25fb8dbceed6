// Package render exports computed layouts as JSON, Graphviz DOT, SVG,
// and PNG.
//
// The layout engine computes positions; this package only serializes
// them. DOT output pins every node at its computed coordinate
// (pos="x,y!"), so Graphviz acts purely as a rasterizer via the neato
// engine rather than recomputing a layout of its own.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goccy/go-graphviz"

	"github.com/skeinviz/skein/pkg/errors"
	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// PositionsJSON serializes a position map as deterministic (id-sorted)
// pretty-printed JSON.
func PositionsJSON(positions map[string]layout.Point) ([]byte, error) {
	type entry struct {
		ID string  `json:"id"`
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
	}
	out := make([]entry, 0, len(positions))
	for id, p := range positions {
		out = append(out, entry{ID: id, X: p.X, Y: p.Y})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return json.MarshalIndent(out, "", "  ")
}

// ToDOT converts a graph with computed positions to Graphviz DOT with
// pinned node coordinates. Nodes without a position are skipped, as are
// edges with a missing endpoint.
func ToDOT(g graph.Graph, positions map[string]layout.Point, height float64) string {
	var buf bytes.Buffer
	buf.WriteString("digraph skein {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=12];\n")
	buf.WriteString("\n")

	placed := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		p, ok := positions[n.ID]
		if !ok {
			continue
		}
		placed[n.ID] = true
		fill, w := "lightblue", 0.5
		if n.IsHub() {
			fill, w = "gold", 0.9
		}
		// Flip y: DOT's coordinate system grows upward.
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s, width=%.2f, pos=\"%.2f,%.2f!\"];\n",
			n.ID, n.DisplayLabel(), fill, w, p.X, height-p.Y)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if !placed[e.Source] || !placed[e.Target] {
			continue
		}
		if e.Type != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=9];\n", e.Source, e.Target, e.Type)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
