package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	wmerrors "github.com/asimos-bot/software-watermark/pkg/errors"
	"github.com/asimos-bot/software-watermark/pkg/graph"
	graphio "github.com/asimos-bot/software-watermark/pkg/io"
	"github.com/asimos-bot/software-watermark/pkg/pipeline"
	"github.com/asimos-bot/software-watermark/pkg/render/nodelink"
)

// formatFromPath infers a format from the extension of path, falling back
// when there is none.
func formatFromPath(path, fallback string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "":
		return fallback
	case "jpeg":
		return pipeline.FormatJPEG
	case "gv":
		return pipeline.FormatDOT
	}
	return ext
}

// readGraph loads a graph file in one of [pipeline.GraphFormats].
func readGraph(path, format string) (*graph.Graph, error) {
	if err := wmerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	if format == "" {
		format = formatFromPath(path, pipeline.FormatJSON)
	}
	if err := wmerrors.ValidateFormat(format, pipeline.GraphFormats); err != nil {
		return nil, err
	}

	var (
		g   *graph.Graph
		err error
	)
	switch format {
	case pipeline.FormatBinary:
		g, err = graphio.ImportBinary(path)
	case pipeline.FormatDOT:
		g, err = graphio.ImportDOT(path)
	default:
		g, err = graphio.ImportJSON(path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInvalidGraph, err, "read %s", path)
	}
	return g, nil
}

// encodeGraph converts g to format. Image formats are laid out by Graphviz.
func encodeGraph(ctx context.Context, g *graph.Graph, format string, opts nodelink.Options) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case pipeline.FormatJSON:
		err = graphio.WriteJSON(g, &buf)
	case pipeline.FormatBinary:
		err = graphio.WriteBinary(g, &buf)
	case pipeline.FormatDOT:
		buf.WriteString(nodelink.ToDOT(g, opts))
	case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatJPEG:
		data, rerr := nodelink.Render(ctx, nodelink.ToDOT(g, opts), nodelink.Format(format))
		if rerr != nil {
			return nil, wmerrors.Wrap(wmerrors.ErrCodeInternal, rerr, "render %s", format)
		}
		return data, nil
	default:
		return nil, wmerrors.New(wmerrors.ErrCodeInvalidFormat, "unsupported format: %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := wmerrors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
