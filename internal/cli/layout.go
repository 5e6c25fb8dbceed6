package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skeinviz/skein/pkg/config"
	"github.com/skeinviz/skein/pkg/graph"
	"github.com/skeinviz/skein/pkg/pipeline"
	"github.com/skeinviz/skein/pkg/render"
)

// layoutCommand creates the layout command for one-shot layout computation.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		formats    string
		configPath string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a layout from a graph file",
		Long: `Compute a layout from a graph file.

The layout command reads a graph.json file, runs the chosen layout
algorithm to completion, and writes the result in one or more formats.
The force algorithm runs the solver until it settles; the ring
algorithm is deterministic and computed in one pass.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, formats, configPath, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", render.FormatJSON, "output formats, comma-separated: json, dot, svg, png")
	cmd.Flags().StringVar(&configPath, "config", "", "tuning config file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", pipeline.DefaultMode, "layout mode: force (default), ring")
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", pipeline.DefaultTicks, "solver ticks for force mode")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output files.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output, formats, configPath string, noCache bool) error {
	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	tuning, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	runner, store, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer store.Close()

	opts.Logger = c.Logger
	opts.Tuning = &tuning
	opts.Formats = parseFormats(formats)

	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", opts.Mode))
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Layout complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNextStep("Animate", "skein view "+input)

	return nil
}
