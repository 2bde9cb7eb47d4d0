package graph

import "fmt"

// TopologicalSort renumbers the nodes so that the root becomes node 0 and
// the remaining nodes follow in depth-first reverse postorder. For a
// watermark graph this restores spine order no matter how the nodes were
// numbered before: backedges always reach an ancestor on the DFS stack and
// forward edges are finished before the spine catches up.
//
// The root is the unique node without incoming edges. When backedges reach
// the root every node has an incoming edge, and the root is instead the first
// node whose reverse postorder is a Hamiltonian path.
//
// On error the graph is left unchanged.
func (g *Graph) TopologicalSort() error {
	n := len(g.nodes)
	if n == 0 {
		return nil
	}

	root := -1
	for i, node := range g.nodes {
		if len(node.in) > 0 {
			continue
		}
		if root >= 0 {
			return fmt.Errorf("%w: nodes %d and %d have no incoming edges", ErrNoRoot, root, i)
		}
		root = i
	}

	if root >= 0 {
		order, err := g.reversePostorder(root)
		if err != nil {
			return err
		}
		g.renumber(order)
		return nil
	}

	for cand := 0; cand < n; cand++ {
		order, err := g.reversePostorder(cand)
		if err == nil && g.isPath(order) {
			g.renumber(order)
			return nil
		}
	}
	return fmt.Errorf("%w: every node has an incoming edge and none starts a Hamiltonian path", ErrNoRoot)
}

// reversePostorder runs an iterative DFS from root and returns the new
// position of every node: order[old] = new.
func (g *Graph) reversePostorder(root int) ([]int, error) {
	n := len(g.nodes)

	type frame struct {
		node, next int
	}
	visited := make([]bool, n)
	post := make([]int, 0, n)
	stack := []frame{{node: root}}
	visited[root] = true
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		out := g.nodes[top.node].out
		if top.next < len(out) {
			child := out[top.next]
			top.next++
			if !visited[child] {
				visited[child] = true
				stack = append(stack, frame{node: child})
			}
			continue
		}
		post = append(post, top.node)
		stack = stack[:len(stack)-1]
	}
	if len(post) != n {
		for i, ok := range visited {
			if !ok {
				return nil, fmt.Errorf("%w: node %d", ErrUnreachable, i)
			}
		}
	}

	order := make([]int, n)
	for rank, old := range post {
		order[old] = n - 1 - rank
	}
	return order, nil
}

// isPath reports whether renumbering by order would leave an edge i→i+1 on
// every node but the last.
func (g *Graph) isPath(order []int) bool {
	seq := make([]int, len(order))
	for old, pos := range order {
		seq[pos] = old
	}
	for k := 0; k+1 < len(seq); k++ {
		if !g.Connection(seq[k], seq[k+1]) {
			return false
		}
	}
	return true
}

// renumber moves every node old to position order[old] and rewrites every
// edge endpoint through the same mapping.
func (g *Graph) renumber(order []int) {
	nodes := make([]*Node, len(g.nodes))
	for old, node := range g.nodes {
		for i, v := range node.out {
			node.out[i] = order[v]
		}
		for i, v := range node.in {
			node.in[i] = order[v]
		}
		nodes[order[old]] = node
	}
	g.nodes = nodes
}
