// Package pipeline provides the one-shot layout pipeline for skein.
//
// This package implements the load → layout → export flow shared by the
// CLI and the HTTP API. The interactive engine (package engine) animates
// layouts continuously; the pipeline instead runs the chosen algorithm to
// completion once and serializes the result.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Mode:    graph.ModeRing,
//	    Formats: []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skeinviz/skein/pkg/cache"
	"github.com/skeinviz/skein/pkg/errors"
	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/layout"
	"github.com/skeinviz/skein/pkg/layout/force"
	"github.com/skeinviz/skein/pkg/layout/ring"
	"github.com/skeinviz/skein/pkg/observability"
	"github.com/skeinviz/skein/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// DefaultTicks is how many solver steps a one-shot force layout runs.
	// Enough for alpha to reach its floor at the default decay rate.
	DefaultTicks = 300

	// DefaultTTL is how long cached layouts and artifacts live.
	DefaultTTL = 24 * time.Hour
)

// DefaultMode is the default layout mode.
const DefaultMode = graph.ModeForce

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Mode    string   `json:"mode,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Ticks   int      `json:"ticks,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // bypass the cache

	// Runtime options (not serialized)
	Tuning *layout.Tuning `json:"-"`
	Logger *log.Logger    `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if !graph.ValidModes[o.Mode] {
		return errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be force or ring)", o.Mode)
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Ticks <= 0 {
		o.Ticks = DefaultTicks
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatJSON}
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Tuning == nil {
		t := layout.DefaultTuning()
		o.Tuning = &t
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Positions is the computed position per node id.
	Positions map[string]layout.Point

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Runner
// =============================================================================

// Runner executes the pipeline with a shared cache and logger.
type Runner struct {
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching; a
// nil keyer uses the default key construction.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{cache: c, keyer: keyer, logger: logger}
}

// Execute runs the full layout + export pipeline for one graph.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
		Stats: Stats{
			NodeCount: len(g.Nodes),
			EdgeCount: len(g.Edges),
		},
	}

	positions, layoutHit, err := r.computeLayout(ctx, g, &opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Positions = positions
	result.CacheInfo.LayoutHit = layoutHit

	exportHit, err := r.export(ctx, g, positions, &opts, result)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.ExportHit = exportHit

	return result, nil
}

// computeLayout returns positions for the graph, from cache when possible.
func (r *Runner) computeLayout(ctx context.Context, g graph.Graph, opts *Options, stats *Stats) (map[string]layout.Point, bool, error) {
	key := r.layoutKey(g, opts)

	if !opts.Refresh {
		if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			var positions map[string]layout.Point
			if err := json.Unmarshal(data, &positions); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				r.logger.Debug("layout cache hit", "nodes", len(g.Nodes))
				return positions, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Engine().OnLayoutStart(ctx, opts.Mode, len(g.Nodes))
	start := time.Now()

	var positions map[string]layout.Point
	switch opts.Mode {
	case graph.ModeRing:
		positions = ring.Compute(g.Nodes, g.Edges, opts.Width, opts.Height, opts.Tuning.Ring)
	default:
		positions = r.settleForce(g, opts)
	}

	stats.LayoutTime = time.Since(start)
	observability.Engine().OnLayoutComplete(ctx, opts.Mode, stats.LayoutTime, nil)
	r.logger.Debug("layout computed", "mode", opts.Mode, "nodes", len(g.Nodes), "took", stats.LayoutTime)

	if data, err := json.Marshal(positions); err == nil {
		if err := r.cache.Set(ctx, key, data, DefaultTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return positions, false, nil
}

// settleForce runs the force solver to rest for a one-shot result. Drift
// is disabled so the output is a true equilibrium rather than a sample of
// the live animation.
func (r *Runner) settleForce(g graph.Graph, opts *Options) map[string]layout.Point {
	cfg := opts.Tuning.Force
	cfg.DriftAmplitude = 0

	solver := force.NewSolver(cfg)
	solver.SetViewport(opts.Width, opts.Height)
	solver.SetGraph(g.Nodes, g.Edges)
	solver.Start()
	for i := 0; i < opts.Ticks; i++ {
		solver.Tick(1.0 / 60)
	}
	return solver.Positions()
}

// export renders the requested formats, from cache when possible.
func (r *Runner) export(ctx context.Context, g graph.Graph, positions map[string]layout.Point, opts *Options, result *Result) (bool, error) {
	start := time.Now()
	layoutHash := r.layoutKey(g, opts)
	allHit := true

	for _, format := range opts.Formats {
		key := r.keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: format})
		if !opts.Refresh {
			if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				result.Artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := r.renderFormat(g, positions, opts, format)
		if err != nil {
			return false, err
		}
		result.Artifacts[format] = data
		if err := r.cache.Set(ctx, key, data, DefaultTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	result.Stats.ExportTime = time.Since(start)
	return allHit && len(opts.Formats) > 0, nil
}

func (r *Runner) renderFormat(g graph.Graph, positions map[string]layout.Point, opts *Options, format string) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return render.PositionsJSON(positions)
	case render.FormatDOT:
		return []byte(render.ToDOT(g, positions, opts.Height)), nil
	case render.FormatSVG:
		return render.RenderSVG(render.ToDOT(g, positions, opts.Height))
	case render.FormatPNG:
		return render.RenderPNG(render.ToDOT(g, positions, opts.Height))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

// layoutKey builds the cache key for one layout computation.
func (r *Runner) layoutKey(g graph.Graph, opts *Options) string {
	sig := layout.ComputeSignature(g.Nodes, g.Edges)
	tuningJSON, _ := json.Marshal(opts.Tuning)
	return r.keyer.LayoutKey(sig.Nodes+":"+sig.Edges, cache.LayoutKeyOpts{
		Mode:       opts.Mode,
		Width:      opts.Width,
		Height:     opts.Height,
		TuningHash: cache.Hash(tuningJSON),
		Ticks:      opts.Ticks,
	})
}
