package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/graph"
	"github.com/matzehuels/gridwire/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file (single format) or base path
	formats  string  // comma-separated formats
	scale    float64 // PNG pixel density
	top      string  // Verilog top module name
	detailed bool    // pin detail in dot and nodelink
	columns  int     // minimum board width in cells
	rows     int     // minimum board height in cells
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command for turning a saved graph into
// images, graphs and Verilog.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a saved schematic graph",
		Long: `Render a saved schematic graph to one or more formats.

Formats: svg, png, json, dot, nodelink, verilog.

With a single format, --output names the file. With several, --output is a
base path and each artifact gets its own extension.`,
		Example: `  gridwire render adder.json
  gridwire render adder.json -f svg,png,verilog --top adder
  gridwire render adder.json -f dot --detailed -o build/adder`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output format(s), comma-separated")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG pixel density")
	cmd.Flags().StringVar(&opts.top, "top", pipeline.DefaultTop, "Verilog top module name")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show pins in dot and nodelink output")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "minimum board width in cells")
	cmd.Flags().IntVar(&opts.rows, "rows", 0, "minimum board height in cells")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// runRender loads a graph, renders every requested format and writes one
// file per artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d modules, %d connections", input, len(g.Modules), len(g.Connections))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	reg, err := c.newRegistry(ctx)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+input+"...")
	spinner.Start()
	result, err := runner.Render(ctx, g, pipeline.Options{
		Formats:  formats,
		Cell:     cfg.Grid.Cell,
		Columns:  max(opts.columns, cfg.Grid.Columns),
		Rows:     max(opts.rows, cfg.Grid.Rows),
		Scale:    opts.scale,
		Top:      opts.top,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		Resolver: reg,
		Logger:   logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	paths, err := writeArtifacts(base, formats, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Modules, result.Stats.Connections, result.Stats.Nets, result.CacheHit)
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(paths)))
	return nil
}

// writeArtifacts writes each artifact to base plus its format extension and
// returns the written paths in format order.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := base + pipeline.Extension(f)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
