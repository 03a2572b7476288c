package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sasutils/sastopo2svg/pkg/errors"
	"github.com/sasutils/sastopo2svg/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	outdir     string // output directory for the generated files
	formats    string // comma-separated output formats
	assetsDir  string // icon source directory override
	skipAssets bool   // skip copying icons into the output directory
}

// renderCommand creates the render command for converting a snapshot.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a topology snapshot to SVG and HTML",
		Long: `Render reads a serialized SAS topology snapshot and writes the diagram
files into the output directory: sastopo.svg, its sastopo2svg.html wrapper,
and the icon assets the diagram references. Additional formats (dot, json)
can be selected with --format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outdir, "outdir", "o", "", "output directory (default from config, else current directory)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, html, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.assetsDir, "assets", "", "icon asset directory (default: install location)")
	cmd.Flags().BoolVar(&opts.skipAssets, "no-assets", false, "do not copy icon assets into the output directory")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	outdir := opts.outdir
	if outdir == "" {
		outdir = c.Config.Outdir
	}
	assetsDir := opts.assetsDir
	if assetsDir == "" {
		assetsDir = c.Config.AssetsDir
	}

	pipeOpts := pipeline.Options{
		Input:      input,
		Outdir:     outdir,
		Formats:    c.parseFormats(opts.formats),
		AssetsDir:  assetsDir,
		SkipAssets: opts.skipAssets,
		Logger:     logger,
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", input))
	spinner.Start()

	result, err := c.newRunner().Execute(ctx, pipeOpts)
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.Stop()

	prog.done(fmt.Sprintf("Rendered %d vertices", result.Stats.VertexCount))
	printSuccess("Topology rendered")
	if opts.skipAssets {
		printWarning("Icon assets were not copied; the diagram's image references will not resolve")
	}
	for _, path := range result.Files {
		printFile(path)
	}
	printStats(result.Stats.VertexCount, result.Stats.EdgeCount,
		result.Stats.MaxDepth, result.Stats.MaxHeight)

	return nil
}
