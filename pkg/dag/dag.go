package dag

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the same
	// ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddDependency] when the
	// dependent node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddDependency] when the
	// dependency node does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfDependency is returned by [DAG.AddDependency] when a node is
	// declared as its own dependency.
	ErrSelfDependency = errors.New("node cannot depend on itself")

	// ErrGraphHasCycle is wrapped by every [CycleError]. Test for it with
	// errors.Is. Cycles are detected using depth-first search with
	// white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// CycleError reports a dependency cycle. Path lists the node IDs along the
// cycle, starting and ending with the same node (a -> b -> a).
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return ErrGraphHasCycle.Error() + ": " + strings.Join(e.Path, " -> ")
}

// Unwrap returns [ErrGraphHasCycle].
func (e *CycleError) Unwrap() error { return ErrGraphHasCycle }

// Node is a vertex in the graph carrying caller-supplied data.
type Node[T any] struct {
	ID   string // Unique identifier
	Data T      // Payload attached at AddNode time
}

// DAG is a directed graph of "depends on" edges between string-identified
// nodes. An edge from A to B means A depends on B. Node and edge insertion
// order is preserved by every query, so traversals are deterministic.
//
// Acyclicity is not enforced on insert; it is checked by [DAG.Validate] and
// by [DAG.DependenciesOf] when a cycle is reachable from the queried node.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG[T any] struct {
	nodes    map[string]*Node[T]
	order    []string            // node IDs in insertion order
	outgoing map[string][]string // nodeID -> dependency IDs
	incoming map[string][]string // nodeID -> dependent IDs
	edges    int
}

// New creates an empty DAG.
func New[T any]() *DAG[T] {
	return &DAG[T]{
		nodes:    make(map[string]*Node[T]),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node with the given payload.
// Returns ErrInvalidNodeID if id is empty, or ErrDuplicateNodeID if a node
// with the same ID already exists.
func (d *DAG[T]) AddNode(id string, data T) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	d.nodes[id] = &Node[T]{ID: id, Data: data}
	d.order = append(d.order, id)
	return nil
}

// AddDependency records that from depends on to.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if either endpoint is
// missing, and ErrSelfDependency if from == to. Adding an existing edge again
// is a no-op.
func (d *DAG[T]) AddDependency(from, to string) error {
	if _, ok := d.nodes[from]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[to]; !ok {
		return ErrUnknownTargetNode
	}
	if from == to {
		return ErrSelfDependency
	}
	if slices.Contains(d.outgoing[from], to) {
		return nil
	}
	d.outgoing[from] = append(d.outgoing[from], to)
	d.incoming[to] = append(d.incoming[to], from)
	d.edges++
	return nil
}

// HasNode reports whether a node with the given ID exists.
func (d *DAG[T]) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG[T]) Node(id string) (*Node[T], bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Data returns the payload of the node with the given ID.
// The zero value and false are returned if the node does not exist.
func (d *DAG[T]) Data(id string) (T, bool) {
	n, ok := d.nodes[id]
	if !ok {
		var zero T
		return zero, false
	}
	return n.Data, true
}

// Nodes returns all nodes in insertion order.
func (d *DAG[T]) Nodes() []*Node[T] {
	nodes := make([]*Node[T], 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// IDs returns all node IDs in insertion order.
func (d *DAG[T]) IDs() []string { return slices.Clone(d.order) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG[T]) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of dependency edges in the graph.
func (d *DAG[T]) EdgeCount() int { return d.edges }

// Dependencies returns the IDs this node directly depends on, in declaration order.
// The returned slice should not be modified.
func (d *DAG[T]) Dependencies(id string) []string { return d.outgoing[id] }

// Dependents returns the IDs of nodes that directly depend on this node.
// The returned slice should not be modified.
func (d *DAG[T]) Dependents(id string) []string { return d.incoming[id] }

// EntryNodes returns the IDs of nodes nothing depends on, in insertion order.
// These are the roots from which a dependency tree is expanded.
func (d *DAG[T]) EntryNodes() []string {
	var entries []string
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			entries = append(entries, id)
		}
	}
	return entries
}

// Leaves returns the IDs of nodes with no dependencies, in insertion order.
func (d *DAG[T]) Leaves() []string {
	var leaves []string
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// DependenciesOf returns the dependencies of id.
//
// With transitive set, the full dependency closure is returned in topological
// order: every node appears after all of its own dependencies, and no node
// appears twice. The queried node itself is never included. Without
// transitive, only the direct dependencies are returned in declaration order.
//
// Returns ErrUnknownSourceNode if id is not in the graph, or a *CycleError if
// a cycle is reachable from id.
func (d *DAG[T]) DependenciesOf(id string, transitive bool) ([]string, error) {
	if _, ok := d.nodes[id]; !ok {
		return nil, ErrUnknownSourceNode
	}
	if !transitive {
		return slices.Clone(d.outgoing[id]), nil
	}

	var result []string
	w := newWalker(d, func(visited string) {
		if visited != id {
			result = append(result, visited)
		}
	})
	if err := w.visit(id); err != nil {
		return nil, err
	}
	return result, nil
}

// DependentsOf returns every node that depends on id, directly or
// transitively, in breadth-first order. The queried node is not included.
func (d *DAG[T]) DependentsOf(id string) []string {
	seen := map[string]bool{id: true}
	queue := slices.Clone(d.incoming[id])
	var result []string
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		result = append(result, next)
		queue = append(queue, d.incoming[next]...)
	}
	return result
}

// TopologicalOrder returns every node ID ordered so that dependencies come
// before their dependents. Ties follow insertion order.
// Returns a *CycleError if the graph is not acyclic.
func (d *DAG[T]) TopologicalOrder() ([]string, error) {
	var result []string
	w := newWalker(d, func(visited string) { result = append(result, visited) })
	for _, id := range d.order {
		if err := w.visit(id); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Validate checks that the graph is acyclic and returns a *CycleError
// describing the first cycle found otherwise.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG[T]) Validate() error {
	_, err := d.TopologicalOrder()
	return err
}

const (
	white = iota
	gray
	black
)

// walker performs a post-order depth-first search that reports each node
// once, after all of its dependencies, and detects back edges.
type walker[T any] struct {
	d     *DAG[T]
	color map[string]int
	stack []string
	emit  func(string)
}

func newWalker[T any](d *DAG[T], emit func(string)) *walker[T] {
	return &walker[T]{d: d, color: make(map[string]int, len(d.nodes)), emit: emit}
}

func (w *walker[T]) visit(id string) error {
	switch w.color[id] {
	case black:
		return nil
	case gray:
		start := slices.Index(w.stack, id)
		path := append(slices.Clone(w.stack[start:]), id)
		return &CycleError{Path: path}
	}

	w.color[id] = gray
	w.stack = append(w.stack, id)
	for _, dep := range w.d.outgoing[id] {
		if err := w.visit(dep); err != nil {
			return err
		}
	}
	w.stack = w.stack[:len(w.stack)-1]
	w.color[id] = black
	w.emit(id)
	return nil
}
