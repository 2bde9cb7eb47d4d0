package watermark

import "github.com/asimos-bot/software-watermark/pkg/graph"

// Stats summarizes the shape of a watermark graph.
type Stats struct {
	Nodes     int `json:"nodes"`
	Edges     int `json:"edges"`
	Spine     int `json:"spine"`
	Backedges int `json:"backedges"`
	Forwards  int `json:"forwards"`
	Bits      int `json:"bits"` // bits a scheme B decode would read
}

// Analyze counts the edges of g by kind. It does not validate g.
func Analyze(g *graph.Graph) Stats {
	st := Stats{Nodes: g.Len(), Edges: g.EdgeCount()}
	for i := 0; i < g.Len(); i++ {
		for _, to := range g.Out(i) {
			switch {
			case to == i+1:
				st.Spine++
			case to < i:
				st.Backedges++
			case to > i+1:
				st.Forwards++
			}
		}
	}
	if st.Nodes > 0 {
		st.Bits = st.Nodes - 1 - st.Forwards
	}
	return st
}
