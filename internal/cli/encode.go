package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	wmerrors "github.com/asimos-bot/software-watermark/pkg/errors"
	"github.com/asimos-bot/software-watermark/pkg/pipeline"
	"github.com/asimos-bot/software-watermark/pkg/render/nodelink"
)

// encodeOpts holds the command-line flags for the encode command.
type encodeOpts struct {
	payload  payloadFlags
	scheme   string
	parity   int
	output   string
	format   string
	detailed bool
	refresh  bool
}

// encodeCommand creates the encode command.
func (c *CLI) encodeCommand() *cobra.Command {
	var opts encodeOpts

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Embed a payload in a new watermark graph",
		Long: `Encode builds the watermark graph carrying a payload.

The graph is written as JSON by default. The format follows the extension of
--output, or --format when given.`,
		Example: `  watermark encode --number 29
  watermark encode --text "(c) ACME" --scheme b --parity 4 -o mark.json
  watermark encode --hex 0x2a -o mark.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEncode(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.payload.number, "number", "", "payload as an unsigned decimal number")
	cmd.Flags().StringVar(&opts.payload.text, "text", "", "payload as UTF-8 text")
	cmd.Flags().StringVar(&opts.payload.hex, "hex", "", "payload as hex bytes")
	cmd.Flags().StringVar(&opts.payload.file, "file", "", "payload read from a file")
	cmd.Flags().StringVarP(&opts.scheme, "scheme", "s", "", "encoding scheme: a, b (default from config)")
	cmd.Flags().IntVarP(&opts.parity, "parity", "p", -1, "Reed-Solomon parity bytes per block (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, bin, dot, svg, png, jpg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node data in rendered diagrams")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached graphs")
	cmd.MarkFlagsMutuallyExclusive("number", "text", "hex", "file")

	return cmd
}

func (c *CLI) runEncode(cmd *cobra.Command, opts *encodeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	payload, err := opts.payload.resolve()
	if err != nil {
		return err
	}
	format := opts.format
	if format == "" {
		format = formatFromPath(opts.output, pipeline.FormatJSON)
	}
	if err := wmerrors.ValidateFormat(format, pipeline.RenderFormats); err != nil {
		return err
	}

	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.EncodeWithCacheInfo(ctx, payload, c.pipelineOptions(opts.scheme, opts.parity, opts.refresh))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Encoded %d payload bytes", len(payload)))
	logger.Debug("Graph", "hash", result.GraphHash, "nodes", result.Stats.Nodes, "backedges", result.Stats.Backedges, "forwards", result.Stats.Forwards)

	data, err := encodeGraph(ctx, result.Graph, format, nodelink.Options{Detailed: opts.detailed})
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), opts.output, data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Encoded watermark")
		printStats(result.Stats.Nodes, result.Stats.Edges, cacheStatus(result.CacheHit))
		printFile(opts.output)
		if pipeline.GraphFormats[format] {
			printNextStep("Decode it", "watermark decode "+opts.output)
		}
	}
	return nil
}

// pipelineOptions merges flag values over the config file. A negative
// parity or empty scheme means the flag was not given.
func (c *CLI) pipelineOptions(scheme string, parity int, refresh bool) pipeline.Options {
	cfg := c.settings()
	if scheme == "" {
		scheme = cfg.Scheme
	}
	if parity < 0 {
		parity = cfg.ParitySymbols
	}
	return pipeline.Options{
		Scheme:        scheme,
		ParitySymbols: parity,
		Refresh:       refresh,
		Logger:        c.Logger,
	}
}

// withSize returns opts decoding to a fixed payload size.
func withSize(opts pipeline.Options, size int) pipeline.Options {
	opts.Size = size
	return opts
}

