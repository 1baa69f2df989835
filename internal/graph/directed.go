// Package graph provides the directed-graph primitive and the traversals
// the dependency resolver and the targets query are built on.
package graph

// Directed is a mutable directed graph. Nodes and the edges leaving each
// node remember insertion order, so iteration is deterministic for a given
// construction sequence.
type Directed[T comparable] struct {
	order    []T
	outgoing map[T][]T
	incoming map[T][]T
	edges    map[[2]T]bool
	present  map[T]bool
}

// NewDirected returns an empty graph.
func NewDirected[T comparable]() *Directed[T] {
	return &Directed[T]{
		outgoing: make(map[T][]T),
		incoming: make(map[T][]T),
		edges:    make(map[[2]T]bool),
		present:  make(map[T]bool),
	}
}

// AddNode inserts n if it is not already present.
func (g *Directed[T]) AddNode(n T) {
	if g.present[n] {
		return
	}
	g.present[n] = true
	g.order = append(g.order, n)
}

// AddEdge inserts the edge from -> to, inserting both endpoints as needed.
func (g *Directed[T]) AddEdge(from, to T) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]T{from, to}
	if g.edges[key] {
		return
	}
	g.edges[key] = true
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
}

// Contains reports whether n is a node of the graph.
func (g *Directed[T]) Contains(n T) bool { return g.present[n] }

// Nodes returns all nodes in insertion order.
func (g *Directed[T]) Nodes() []T {
	nodes := make([]T, len(g.order))
	copy(nodes, g.order)
	return nodes
}

// Outgoing returns the nodes n has edges to, in edge-insertion order.
func (g *Directed[T]) Outgoing(n T) []T { return g.outgoing[n] }

// Incoming returns the nodes with edges to n, in edge-insertion order.
func (g *Directed[T]) Incoming(n T) []T { return g.incoming[n] }

// NodeCount returns the number of nodes.
func (g *Directed[T]) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of distinct edges.
func (g *Directed[T]) EdgeCount() int { return len(g.edges) }
