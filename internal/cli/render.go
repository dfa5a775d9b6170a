package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/sankey"
	"github.com/matzehuels/sankey/pkg/tree"
)

// renderFlags holds the command-line flags for the render command. Flags
// left unset keep the value from the config file.
type renderFlags struct {
	output           string  // output file path (or base path for multiple outputs)
	formats          string  // comma-separated output formats
	vizType          string  // sankey or nodelink
	inputFormat      string  // json or yaml, for stdin input
	width            float64 // canvas width in pixels
	heightMultiplier float64 // pixels per node above the height offset
	nodeWidth        float64 // node rectangle width
	nodePadding      float64 // vertical gap between nodes
	minThickness     float64 // minimum node height after clamping
	align            string  // justify or left
	iterations       int     // relaxation passes
	policy           string  // wrap or ellipsis
	detailed         bool    // show value, depth and delta in nodelink labels
	scale            float64 // PNG scale
	noFont           bool    // skip the embedded font
	noCache          bool    // bypass the cache entirely
	refresh          bool    // re-render and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [tree.json|tree.yaml|-]",
		Short: "Render a category tree as a Sankey diagram",
		Long: `Render a category tree as a Sankey diagram.

The input is a JSON or YAML tree of {name, count, tooltip, delta, color,
distribution} nodes. Use "-" to read from stdin (see --input-format).

Outputs are written next to the input unless --output is given. With more
than one format, --output is used as the base path. Results are cached
locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Options()
			applyRenderFlags(cmd, &f, &opts)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			if f.output == "-" && len(opts.Formats) > 1 {
				return fmt.Errorf("--output - needs exactly one format, got %d", len(opts.Formats))
			}

			runner, err := c.newRunner(cmd.Context(), cfg, f.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runRender(cmd.Context(), cmd.InOrStdin(), args[0], f, opts, runner)
		},
	}

	d := pipeline.Options{}
	d.SetLayoutDefaults()

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: sankey, nodelink")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", tree.FormatJSON, "stdin format: json, yaml")
	cmd.Flags().Float64Var(&f.width, "width", d.Width, "canvas width")
	cmd.Flags().Float64Var(&f.heightMultiplier, "height-multiplier", d.HeightMultiplier, "canvas height per node")
	cmd.Flags().Float64Var(&f.nodeWidth, "node-width", d.NodeWidth, "node rectangle width")
	cmd.Flags().Float64Var(&f.nodePadding, "node-padding", d.NodePadding, "vertical gap between nodes")
	cmd.Flags().Float64Var(&f.minThickness, "min-thickness", sankey.DefaultMinThickness, "minimum node height")
	cmd.Flags().StringVar(&f.align, "align", d.Align, "column alignment: justify, left")
	cmd.Flags().IntVar(&f.iterations, "iterations", d.Iterations, "layout relaxation passes (negative disables)")
	cmd.Flags().StringVar(&f.policy, "label-policy", "wrap", "label fitting: wrap, ellipsis")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show value, depth and delta (nodelink)")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&f.noFont, "no-font", false, "do not embed the label font in SVG output")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even if cached")
	registerFlagCompletions(cmd)

	return cmd
}

// applyRenderFlags copies every flag the user set onto opts.
func applyRenderFlags(cmd *cobra.Command, f *renderFlags, opts *pipeline.Options) {
	set := cmd.Flags().Changed
	opts.Formats = parseFormats(f.formats)
	if set("type") {
		opts.VizType = f.vizType
	}
	if set("width") {
		opts.Width = f.width
	}
	if set("height-multiplier") {
		opts.HeightMultiplier = f.heightMultiplier
	}
	if set("node-width") {
		opts.NodeWidth = f.nodeWidth
	}
	if set("node-padding") {
		opts.NodePadding = f.nodePadding
	}
	if set("min-thickness") {
		opts.MinThickness = f.minThickness
	}
	if set("align") {
		opts.Align = f.align
	}
	if set("iterations") {
		opts.Iterations = f.iterations
	}
	if set("label-policy") {
		opts.Policy = f.policy
	}
	if set("scale") {
		opts.Scale = f.scale
	}
	opts.Detailed = f.detailed
	opts.NoFont = f.noFont
	opts.Refresh = f.refresh
}

// runRender loads the tree, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, stdin io.Reader, input string, f renderFlags, opts pipeline.Options, runner *pipeline.Runner) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	root, err := readTree(stdin, input, f.inputFormat)
	if err != nil {
		return err
	}
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	result, err := runner.Execute(ctx, root, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered " + input)

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, f.output)
	if err != nil {
		return err
	}
	if f.output == "-" {
		return nil
	}

	printSuccess("Rendered %s diagram", opts.VizType)
	printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.Stats.TruncatedCount, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if opts.VizType == pipeline.VizTypeSankey && result.Stats.TruncatedCount > 0 {
		printNextStep("Browse truncated labels", appName+" nodes -i "+input)
	}
	return nil
}

// readTree reads the input tree from a file, or from stdin for "-".
func readTree(stdin io.Reader, input, format string) (*tree.Node, error) {
	if input != "-" {
		return pipeline.Load(input)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return pipeline.Decode(data, format)
}

// writeArtifacts writes each format to its own file and returns the paths in
// format order. An output of "-" writes the single artifact to stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if output == "-" {
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	base := basePath(output, input)
	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if path == input {
			return paths, fmt.Errorf("output %s would overwrite the input; use --output", path)
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input ("sankey" for stdin).
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
