package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkdrift/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (or base path for multiple outputs)
	formats  string // comma-separated output formats
	textCols int    // text sink width in cells
	textRows int    // text sink height in cells
	flags    sceneFlags
}

// renderCommand creates the render command for producing output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		textCols: pipeline.DefaultTextCols,
		textRows: pipeline.DefaultTextRows,
	}

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Lay out a scene and render it",
		Long: `Lay out a scene and render the result.

Formats:
  svg   page picture with viewport, column, gutters and link boxes
  json  the layout (same as 'layout')
  dot   element tree in Graphviz DOT
  tree  element tree rendered to SVG
  text  plain terminal picture

Several formats may be given at once; each is written next to the scene (or
to --output with the format's extension).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().IntVar(&opts.textCols, "cols", opts.textCols, "text format width in cells")
	cmd.Flags().IntVar(&opts.textRows, "rows", opts.textRows, "text format height in cells")
	opts.flags.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender lays out the scene and writes every requested format.
func (c *CLI) runRender(cmd *cobra.Command, input string, ro *renderOpts) error {
	ctx := cmd.Context()

	formats := parseFormats(ro.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	sc, opts, runner, err := c.prepare(cmd, input, &ro.flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Formats = formats
	opts.TextCols = ro.textCols
	opts.TextRows = ro.textRows

	prog := newProgress(opts.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(formats, ", ")))
	spinner.Start()
	opts.OnPass = spinner.observe

	result, err := runner.Execute(ctx, sc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	prog.placed(result.Layout)
	opts.Logger.Debug("pipeline timing", "layout", result.Stats.LayoutTime, "render", result.Stats.RenderTime)

	paths, err := writeArtifacts(ctx, result.Artifacts, formats, basePath(ro.output, input))
	if err != nil {
		return err
	}

	printSuccess("Rendered %d %s", len(paths), plural(len(paths), "file", "files"))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Layout)

	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
