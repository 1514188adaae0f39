// Package poa implements partial-order alignment: a multiple alignment held
// as a directed acyclic graph of residues that grows one sequence at a time.
//
// Nodes carry a residue and the number of sequences threaded through them;
// edges carry the number of sequences that took them. The graph is
// single-writer: AddSequence must not run concurrently on one Graph.
package poa

import (
	"fmt"
	"sort"

	"github.com/aria-lang/bioalign-go/internal/bioerr"
)

// Node is one residue of the graph.
type Node struct {
	ID           int
	Base         byte
	Multiplicity int
}

// Graph is a partial-order alignment graph. The zero value is not usable;
// start from FromSequence.
type Graph struct {
	nodes []Node
	out   []map[int]int
	in    [][]int

	// order is a topological order of node IDs and rank its inverse.
	order []int
	rank  []int

	sequences int
}

// FromSequence builds a linear chain with one node per residue.
func FromSequence(seq []byte) (*Graph, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: cannot build a graph from an empty sequence", bioerr.ErrEmptyInput)
	}

	g := &Graph{}
	prev := -1
	for _, b := range seq {
		id := g.addNode(b)
		g.nodes[id].Multiplicity = 1
		g.link(prev, id)
		prev = id
	}
	g.sort()
	g.sequences = 1
	return g, nil
}

func (g *Graph) addNode(b byte) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Base: b})
	g.out = append(g.out, make(map[int]int))
	g.in = append(g.in, nil)
	return id
}

// link adds one traversal of from -> to. A negative from is a no-op.
func (g *Graph) link(from, to int) {
	if from < 0 {
		return
	}
	if _, ok := g.out[from][to]; !ok {
		g.in[to] = append(g.in[to], from)
	}
	g.out[from][to]++
}

// sort recomputes the topological order with Kahn's algorithm, visiting
// ready nodes in ID order.
func (g *Graph) sort() {
	n := len(g.nodes)
	indegree := make([]int, n)
	for v := 0; v < n; v++ {
		indegree[v] = len(g.in[v])
	}

	queue := make([]int, 0, n)
	for v := 0; v < n; v++ {
		if indegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range g.successors(u) {
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	g.order = order
	g.rank = make([]int, n)
	for r, v := range order {
		g.rank[v] = r
	}
}

func (g *Graph) successors(u int) []int {
	out := make([]int, 0, len(g.out[u]))
	for v := range g.out[u] {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, m := range g.out {
		n += len(m)
	}
	return n
}

// EdgeWeight returns how many sequences traversed from -> to, 0 if the
// edge does not exist.
func (g *Graph) EdgeWeight(from, to int) int {
	if from < 0 || from >= len(g.out) {
		return 0
	}
	return g.out[from][to]
}

// Node returns the node with the given ID.
func (g *Graph) Node(id int) Node {
	return g.nodes[id]
}

// Nodes returns a copy of all nodes, indexed by ID.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// SequenceCount returns how many sequences have been threaded in.
func (g *Graph) SequenceCount() int {
	return g.sequences
}

// TopologicalOrder returns node IDs such that every edge points forward.
func (g *Graph) TopologicalOrder() []int {
	return append([]int(nil), g.order...)
}

// Consensus returns the residues along the path with the greatest total
// edge weight. Among equal predecessors the earliest in topological order
// wins, and so does the earliest end node.
func (g *Graph) Consensus() []byte {
	n := len(g.order)
	best := make([]int, n)
	from := make([]int, n)

	end, endScore := 0, -1
	for r, v := range g.order {
		from[r] = -1
		preds := g.predecessorRanks(v)
		for _, p := range preds {
			if s := best[p] + g.out[g.order[p]][v]; from[r] < 0 || s > best[r] {
				best[r], from[r] = s, p
			}
		}
		if best[r] > endScore {
			end, endScore = r, best[r]
		}
	}

	var path []byte
	for r := end; r >= 0; r = from[r] {
		path = append(path, g.nodes[g.order[r]].Base)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// predecessorRanks returns the topological ranks of v's predecessors in
// ascending order.
func (g *Graph) predecessorRanks(v int) []int {
	ranks := make([]int, len(g.in[v]))
	for i, p := range g.in[v] {
		ranks[i] = g.rank[p]
	}
	sort.Ints(ranks)
	return ranks
}
