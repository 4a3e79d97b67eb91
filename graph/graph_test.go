package graph_test

import (
	"testing"

	"github.com/broyeztony/sheets/graph"
	"github.com/stretchr/testify/require"
)

func n(addr string) graph.Node { return graph.Node{Sheet: "S1", Addr: addr} }

func byAddr(a, b graph.Node) bool { return a.Addr < b.Addr }

func allNodes(ns ...graph.Node) map[graph.Node]bool {
	m := map[graph.Node]bool{}
	for _, x := range ns {
		m[x] = true
	}
	return m
}

func TestReachableForwardAndReverse(t *testing.T) {
	g := graph.New()
	// A depends on B, B depends on C
	g.SetOutEdges(n("A"), []graph.Node{n("B")})
	g.SetOutEdges(n("B"), []graph.Node{n("C")})

	fwd := g.ReachableFrom([]graph.Node{n("A")}, graph.Forward)
	require.True(t, fwd[n("A")])
	require.True(t, fwd[n("B")])
	require.True(t, fwd[n("C")])

	rev := g.ReachableFrom([]graph.Node{n("C")}, graph.Reverse)
	require.True(t, rev[n("C")])
	require.True(t, rev[n("B")])
	require.True(t, rev[n("A")])
}

func TestSCCDetectsCycle(t *testing.T) {
	g := graph.New()
	g.SetOutEdges(n("A"), []graph.Node{n("B")})
	g.SetOutEdges(n("B"), []graph.Node{n("A")})

	comps := g.SCC(allNodes(n("A"), n("B")), byAddr)
	require.Len(t, comps, 1)
	require.ElementsMatch(t, []graph.Node{n("A"), n("B")}, comps[0])
}

func TestSCCSelfLoop(t *testing.T) {
	g := graph.New()
	g.SetOutEdges(n("A"), []graph.Node{n("A")})

	require.True(t, g.HasSelfLoop(n("A")))
	comps := g.SCC(allNodes(n("A")), byAddr)
	require.Len(t, comps, 1)
	require.Len(t, comps[0], 1)
}

func TestSCCAcyclicGivesSingletons(t *testing.T) {
	g := graph.New()
	g.SetOutEdges(n("A"), []graph.Node{n("B")})
	g.SetOutEdges(n("B"), []graph.Node{n("C")})

	comps := g.SCC(allNodes(n("A"), n("B"), n("C")), byAddr)
	require.Len(t, comps, 3)
	for _, c := range comps {
		require.Len(t, c, 1)
	}
}

func TestToposortOrdersDependenciesFirst(t *testing.T) {
	g := graph.New()
	// A depends on B and C; B depends on C
	g.SetOutEdges(n("A"), []graph.Node{n("B"), n("C")})
	g.SetOutEdges(n("B"), []graph.Node{n("C")})

	order := g.Toposort(allNodes(n("A"), n("B"), n("C")), byAddr)
	pos := map[graph.Node]int{}
	for i, node := range order {
		pos[node] = i
	}
	require.Less(t, pos[n("C")], pos[n("B")])
	require.Less(t, pos[n("B")], pos[n("A")])
}

func TestSetOutEdgesReplacesPriorEdges(t *testing.T) {
	g := graph.New()
	g.SetOutEdges(n("A"), []graph.Node{n("B")})
	g.SetOutEdges(n("A"), []graph.Node{n("C")})

	fwd := g.ReachableFrom([]graph.Node{n("A")}, graph.Forward)
	require.False(t, fwd[n("B")])
	require.True(t, fwd[n("C")])
}

func TestRemoveNodeClearsBothDirections(t *testing.T) {
	g := graph.New()
	g.SetOutEdges(n("A"), []graph.Node{n("B")})
	g.RemoveNode(n("B"))

	fwd := g.ReachableFrom([]graph.Node{n("A")}, graph.Forward)
	require.False(t, fwd[n("B")])
}
