// Package graph maintains the directed graph of cell-to-cell
// references: out-edges of a node are the cells its formula names. It exposes reachability, cycle detection (iterative Tarjan),
// and topological ordering (iterative DFS), all restricted to an
// arbitrary node subset so the workbook only ever recomputes what a
// mutation could actually affect.
//
// Every traversal here is iterative, not recursive: a chain of
// thousands of cells must not blow the goroutine stack.
package graph

// Node identifies one cell as a graph vertex.
type Node struct {
	Sheet string
	Addr  string
}

// Direction selects which edge set a traversal follows: Forward
// follows "depends on" edges (out-edges); Reverse follows "depended on
// by" edges (in-edges), used to find everything a mutation could
// affect.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Less orders two nodes for deterministic iteration and output, e.g.
// by (sheet-insertion-order, row, col). The
// graph package has no notion of sheet order or address columns/rows
// itself, so callers supply it.
type Less func(a, b Node) bool

// Graph holds the current out/in adjacency. Nodes with no edges and no
// recorded out-edge set simply don't appear in either map; callers
// (the sheets package) are responsible for deciding when a cell with
// no remaining references should be dropped entirely.
type Graph struct {
	out map[Node]map[Node]bool
	in  map[Node]map[Node]bool
}

func New() *Graph {
	return &Graph{out: map[Node]map[Node]bool{}, in: map[Node]map[Node]bool{}}
}

// SetOutEdges replaces node's complete out-edge set with refs,
// updating the reverse adjacency to match. Passing an empty refs
// clears node's out-edges (it still may remain as a target of other
// nodes' edges).
func (g *Graph) SetOutEdges(node Node, refs []Node) {
	if old, ok := g.out[node]; ok {
		for target := range old {
			if rev, ok := g.in[target]; ok {
				delete(rev, node)
				if len(rev) == 0 {
					delete(g.in, target)
				}
			}
		}
	}
	if len(refs) == 0 {
		delete(g.out, node)
		return
	}
	newOut := make(map[Node]bool, len(refs))
	for _, target := range refs {
		newOut[target] = true
		if g.in[target] == nil {
			g.in[target] = map[Node]bool{}
		}
		g.in[target][node] = true
	}
	g.out[node] = newOut
}

// RemoveNode drops node entirely: its out-edges and any edges pointing
// into it.
func (g *Graph) RemoveNode(node Node) {
	g.SetOutEdges(node, nil)
	for dependent := range g.in[node] {
		delete(g.out[dependent], node)
		if len(g.out[dependent]) == 0 {
			delete(g.out, dependent)
		}
	}
	delete(g.in, node)
}

func (g *Graph) edges(dir Direction) map[Node]map[Node]bool {
	if dir == Forward {
		return g.out
	}
	return g.in
}

// ReachableFrom returns the set of nodes reachable from nodes
// (inclusive of the starting nodes) by following edges in the given
// direction, via iterative BFS.
func (g *Graph) ReachableFrom(nodes []Node, dir Direction) map[Node]bool {
	adj := g.edges(dir)
	visited := map[Node]bool{}
	queue := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !visited[n] {
			visited[n] = true
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}

func sortedNodes(nodes map[Node]bool, less Less) []Node {
	out := make([]Node, 0, len(nodes))
	for n := range nodes {
		out = append(out, n)
	}
	sortNodes(out, less)
	return out
}

func sortNodes(nodes []Node, less Less) {
	// small-N insertion sort keeps this allocation-free and avoids
	// importing sort.Slice's closure overhead on the hot recompute path
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && less(nodes[j], nodes[j-1]); j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
}

func (g *Graph) neighborsWithin(n Node, nodes map[Node]bool, less Less) []Node {
	var out []Node
	for target := range g.out[n] {
		if nodes[target] {
			out = append(out, target)
		}
	}
	sortNodes(out, less)
	return out
}

// SCC computes the strongly connected components of the subgraph
// induced by nodes (only edges whose both endpoints are in nodes are
// followed), via iterative Tarjan. A component of size > 1 is a cycle;
// a size-1 component is a cycle only if the node has a self-loop.
func (g *Graph) SCC(nodes map[Node]bool, less Less) [][]Node {
	index := map[Node]int{}
	lowlink := map[Node]int{}
	onStack := map[Node]bool{}
	var stack []Node
	var result [][]Node
	counter := 0

	type frame struct {
		node     Node
		children []Node
		ci       int
	}

	for _, v := range sortedNodes(nodes, less) {
		if _, seen := index[v]; seen {
			continue
		}
		var callStack []*frame
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		callStack = append(callStack, &frame{node: v, children: g.neighborsWithin(v, nodes, less)})

		for len(callStack) > 0 {
			top := callStack[len(callStack)-1]
			if top.ci < len(top.children) {
				w := top.children[top.ci]
				top.ci++
				if _, seen := index[w]; !seen {
					index[w] = counter
					lowlink[w] = counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					callStack = append(callStack, &frame{node: w, children: g.neighborsWithin(w, nodes, less)})
				} else if onStack[w] && index[w] < lowlink[top.node] {
					lowlink[top.node] = index[w]
				}
				continue
			}

			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := callStack[len(callStack)-1]
				if lowlink[top.node] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[top.node]
				}
			}
			if lowlink[top.node] == index[top.node] {
				var comp []Node
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == top.node {
						break
					}
				}
				result = append(result, comp)
			}
		}
	}
	return result
}

// HasSelfLoop reports whether node has an edge to itself.
func (g *Graph) HasSelfLoop(node Node) bool {
	return g.out[node][node]
}

// ReferrersWhere returns every node with at least one out-edge to a
// target matching pred — e.g. every cell that names a given sheet in
// its formula, via pred = func(n Node) bool { return n.Sheet == key }.
// Used by sheet deletion to find who needs to recompute to Error(BadRef).
func (g *Graph) ReferrersWhere(pred func(Node) bool) map[Node]bool {
	out := map[Node]bool{}
	for target, referrers := range g.in {
		if !pred(target) {
			continue
		}
		for r := range referrers {
			out[r] = true
		}
	}
	return out
}

// RenameSheetKey migrates every node whose Sheet is oldKey to newKey,
// preserving all of its edges in both directions. Used when a sheet's
// casefolded key changes identity under a rename: without this, the
// renamed sheet's own cells would keep stale graph entries under a key
// nothing can look up again.
func (g *Graph) RenameSheetKey(oldKey, newKey string) {
	if oldKey == newKey {
		return
	}
	remap := func(n Node) Node {
		if n.Sheet == oldKey {
			return Node{Sheet: newKey, Addr: n.Addr}
		}
		return n
	}
	newOut := make(map[Node]map[Node]bool, len(g.out))
	for n, targets := range g.out {
		nt := make(map[Node]bool, len(targets))
		for t := range targets {
			nt[remap(t)] = true
		}
		newOut[remap(n)] = nt
	}
	g.out = newOut

	newIn := make(map[Node]map[Node]bool, len(g.in))
	for n, srcs := range g.in {
		ns := make(map[Node]bool, len(srcs))
		for s := range srcs {
			ns[remap(s)] = true
		}
		newIn[remap(n)] = ns
	}
	g.in = newIn
}

// Toposort returns nodes (restricted to the given acyclic set) in
// dependency-first evaluable order via iterative DFS with gray/black
// marking: a node is appended to the result only once every node it
// depends on already has been. Callers must ensure nodes induces no
// cycle (run SCC first); a cyclic input silently yields a partial,
// still loop-free order rather than hanging.
func (g *Graph) Toposort(nodes map[Node]bool, less Less) []Node {
	const (
		white = iota
		gray
		black
	)
	color := map[Node]int{}
	var order []Node

	type frame struct {
		node     Node
		children []Node
		ci       int
	}

	for _, v := range sortedNodes(nodes, less) {
		if color[v] != white {
			continue
		}
		var stack []*frame
		color[v] = gray
		stack = append(stack, &frame{node: v, children: g.neighborsWithin(v, nodes, less)})

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.ci < len(top.children) {
				w := top.children[top.ci]
				top.ci++
				if color[w] == white {
					color[w] = gray
					stack = append(stack, &frame{node: w, children: g.neighborsWithin(w, nodes, less)})
				}
				continue
			}
			color[top.node] = black
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}
