package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	wmerrors "github.com/asimos-bot/software-watermark/pkg/errors"
	"github.com/asimos-bot/software-watermark/pkg/pipeline"
	"github.com/asimos-bot/software-watermark/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input    string // input format
	output   string // output file path
	format   string // output format
	label    string // graph title
	detailed bool   // show node data
}

// renderCommand creates the render command for drawing watermark graphs.
// Backedges are drawn dashed in red above the path, forward edges in green
// below it.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a watermark graph",
		Example: `  watermark render mark.json
  watermark render mark.json -o mark.png --label "build 1234"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input format: json, bin, dot (default from extension)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the output extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, jpg, dot, json, bin")
	cmd.Flags().StringVar(&opts.label, "label", "", "title drawn above the graph")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node data")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format := opts.format
	if format == "" {
		format = formatFromPath(opts.output, pipeline.FormatSVG)
	}
	if err := wmerrors.ValidateFormat(format, pipeline.RenderFormats); err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
	}
	if output == path {
		return wmerrors.New(wmerrors.ErrCodeInvalidPath, "refusing to overwrite input %s", path)
	}

	g, err := readGraph(path, opts.input)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+format+"...")
	spinner.Start()
	prog := newProgress(logger)
	data, err := encodeGraph(ctx, g, format, nodelink.Options{Label: opts.label, Detailed: opts.detailed})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
		spinner.StopWithError("Write failed")
		return err
	}
	spinner.StopWithSuccess("Rendered graph")
	prog.done("Rendered " + format)

	printStats(g.Len(), g.EdgeCount(), "")
	printFile(output)
	return nil
}
