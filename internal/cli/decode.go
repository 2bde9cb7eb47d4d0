package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// decodeOpts holds the command-line flags for the decode command.
type decodeOpts struct {
	format  string
	scheme  string
	parity  int
	size    int
	view    string
	refresh bool
}

// decodeCommand creates the decode command.
func (c *CLI) decodeCommand() *cobra.Command {
	opts := decodeOpts{view: viewHex}

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Recover the payload of a watermark graph",
		Long: `Decode reads a graph in JSON, binary or DOT form and prints its payload.

Scheme and parity must match the values used to encode. Without --size,
leading zero bytes of the payload are not restored unless the graph was
encoded with parity bytes.`,
		Example: `  watermark decode mark.json
  watermark decode mark.dot --scheme b --parity 4 --as text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecode(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "input format: json, bin, dot (default from extension)")
	cmd.Flags().StringVarP(&opts.scheme, "scheme", "s", "", "encoding scheme: a, b (default from config)")
	cmd.Flags().IntVarP(&opts.parity, "parity", "p", -1, "Reed-Solomon parity bytes per block (default from config)")
	cmd.Flags().IntVar(&opts.size, "size", 0, "left-pad the payload to this many bytes")
	cmd.Flags().StringVar(&opts.view, "as", opts.view, "print the payload as hex, number, text or raw")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached payloads")

	return cmd
}

func (c *CLI) runDecode(cmd *cobra.Command, path string, opts *decodeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	g, err := readGraph(path, opts.format)
	if err != nil {
		return err
	}
	logger.Debug("Read graph", "path", path, "nodes", g.Len(), "edges", g.EdgeCount())

	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	pipeOpts := withSize(c.pipelineOptions(opts.scheme, opts.parity, opts.refresh), opts.size)
	result, err := runner.DecodeWithCacheInfo(ctx, g, pipeOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Decoded %d payload bytes", len(result.Payload)))
	logger.Debug("Payload", "graph", result.GraphHash, "cached", result.CacheHit)

	out, err := formatPayload(result.Payload, opts.view)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
