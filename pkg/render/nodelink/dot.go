package nodelink

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/asimos-bot/software-watermark/pkg/graph"
)

// Colors used by [ToDOT].
const (
	ColorBackground = "#262626"
	ColorText       = "#FFFDB8"
	ColorSpine      = "#4DA6FF"
	ColorBackedge   = "#FF263C"
	ColorForward    = "#3DDC84"
)

// ErrUnsupportedFormat is returned by [Render] for an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported render format")

// Options configures diagram generation.
type Options struct {
	// Label is drawn as the graph title when set.
	Label string
	// Detailed appends each node's data, in hex, to its label.
	Detailed bool
}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  graph [")
	if opts.Label != "" {
		fmt.Fprintf(&buf, "label=%q, ", opts.Label)
	}
	fmt.Fprintf(&buf, "rankdir=LR, splines=polyline, bgcolor=%q, fontcolor=%q];\n", ColorBackground, ColorText)
	fmt.Fprintf(&buf, "  node [shape=circle, color=%q, fontcolor=%q];\n", ColorSpine, ColorText)

	for i := 0; i < g.Len(); i++ {
		fmt.Fprintf(&buf, "  %d [label=%q];\n", i, nodeLabel(g.Node(i), i, opts.Detailed))
	}

	// Heavy spine edges keep the path on one straight line.
	for _, e := range g.Edges() {
		switch {
		case e.To < e.From:
			fmt.Fprintf(&buf, "  %d:n -> %d:n [style=dashed, color=%q];\n", e.From, e.To, ColorBackedge)
		case e.To > e.From+1:
			fmt.Fprintf(&buf, "  %d:s -> %d:s [color=%q];\n", e.From, e.To, ColorForward)
		default:
			fmt.Fprintf(&buf, "  %d -> %d [color=%q, weight=100];\n", e.From, e.To, ColorSpine)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *graph.Node, i int, detailed bool) string {
	label := strconv.Itoa(i)
	if detailed && len(n.Data) > 0 {
		label += "\n" + hex.EncodeToString(n.Data)
	}
	return label
}

// Format is a rendered output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
)

var gvFormats = map[Format]graphviz.Format{
	FormatSVG:  graphviz.SVG,
	FormatPNG:  graphviz.PNG,
	FormatJPEG: graphviz.JPG,
}

// Render lays out DOT source with Graphviz and returns it in the given format.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	gvFormat, ok := gvFormats[Format(strings.ToLower(string(format)))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if gvFormat == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// RenderSVG is shorthand for [Render] with [FormatSVG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, FormatSVG)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
