// Package dag provides a small directed acyclic graph of "depends on" edges,
// used to resolve the order and nesting of interdependent rules.
//
// # Overview
//
// Each node has a unique string ID and an arbitrary payload. An edge from A
// to B, added with [DAG.AddDependency], means A depends on B. Insertion order
// of nodes and edges is preserved by every query, so two graphs built from
// the same declarations always answer identically.
//
// # Basic Usage
//
//	g := dag.New[string]()
//	_ = g.AddNode("tsconfig", "Does the project have a tsconfig.json?")
//	_ = g.AddNode("src", "Does the src/ directory exist?")
//	_ = g.AddDependency("tsconfig", "src")
//
//	g.EntryNodes()                        // [tsconfig]
//	deps, err := g.DependenciesOf("tsconfig", true) // [src]
//
// # Entry Nodes and Closures
//
// [DAG.EntryNodes] returns the nodes that nothing depends on. These seed any
// tree expansion of the graph. [DAG.DependenciesOf] returns either the direct
// dependencies of a node or its full transitive closure, ordered so that a
// dependency always precedes the nodes that need it.
//
// # Cycles
//
// Cycles are not rejected while edges are added, because declarations may
// arrive in any order. They are reported as a [*CycleError] by
// [DAG.Validate], by [DAG.TopologicalOrder], and by [DAG.DependenciesOf]
// whenever the traversal reaches one. The error carries the cycle path and
// wraps [ErrGraphHasCycle]:
//
//	if err := g.Validate(); errors.Is(err, dag.ErrGraphHasCycle) {
//	    var cycle *dag.CycleError
//	    errors.As(err, &cycle)
//	    fmt.Println(strings.Join(cycle.Path, " -> "))
//	}
//
// # Concurrency
//
// A DAG is not safe for concurrent mutation. Once built, concurrent readers
// are safe as long as nothing modifies the graph.
package dag
