package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkdrift/pkg/pipeline"
	"github.com/matzehuels/linkdrift/pkg/scene"
)

// layoutCommand creates the layout command for computing link placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  sceneFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Compute link placements for a scene",
		Long: `Compute link placements for a scene.

The layout command takes a scene file (JSON or TOML) describing a viewport, an
optional content column and a list of links, runs the placement engine over it
and writes a layout.json file (same format as 'render -f json').

Seeds are remembered for the current CLI session, so repeated runs keep every
link in place until the session expires. Use --no-session for fresh seeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], &flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the scene, computes the layout, and writes output.
func (c *CLI) runLayout(cmd *cobra.Command, input string, flags *sceneFlags, output string) error {
	ctx := cmd.Context()

	sc, opts, runner, err := c.prepare(cmd, input, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(opts.Logger)
	spinner := newSpinnerWithContext(ctx, "Placing links...")
	spinner.Start()
	opts.OnPass = spinner.observe

	layout, _, err := runner.Layout(ctx, sc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.placed(layout)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := writeLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(layout)
	printNewline()
	printNextStep("Render", "linkdrift render "+input+" -f svg")

	return nil
}

func writeLayoutFile(l *scene.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := l.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeArtifacts writes every artifact to base+extension and returns the
// paths in format order.
func writeArtifacts(ctx context.Context, artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		if ctx.Err() != nil {
			return paths, ctx.Err()
		}
		path := base + pipeline.Extension(format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
