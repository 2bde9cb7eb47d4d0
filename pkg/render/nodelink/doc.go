// Package nodelink draws watermark graphs as Graphviz node-link diagrams.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Label: "payload 29"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Layout
//
// Nodes are laid out left to right in Hamiltonian order, held in line by
// heavily weighted spine edges. Spine edges are drawn solid blue,
// backedges dashed red from the top of a node, and forward edges green from
// the bottom, so the two kinds of extra edge never cross the spine.
//
// The DOT text holds exactly the edges of the graph and can be fed back
// through io.ReadDOT.
//
// # Rendering
//
// [Render] runs Graphviz in process through [github.com/goccy/go-graphviz]
// and supports SVG, PNG and JPEG output. No external binaries are needed.
package nodelink
