// Package engine turns a rule set into a rule tree and runs it against
// repositories.
//
// # Rule Graph
//
// [BuildGraph] adds one node per rule and one edge per declared dependency.
// A dependency on an unknown rule or a dependency cycle is a configuration
// error, reported before any repository is touched.
//
// # Rule Tree
//
// [BuildTree] seeds a forest with the rules nothing depends on. Each node's
// children are the rule's transitive dependencies in topological order, each
// expanded the same way. A rule shared by several parents appears once under
// each of them and runs once per appearance.
//
// # Execution
//
// [Engine.Execute] walks the tree in pre-order: a rule runs before its
// children, and children run in order. The returned result tree has exactly
// the shape of the rule tree. Dependencies only nest; a failed dependency
// does not stop its dependents from running. A rule that cannot be evaluated
// (an I/O error, malformed JSON) aborts the repository's analysis.
//
//	g, err := engine.BuildGraph(rules.All())
//	tree, err := engine.BuildTree(g)
//	e := engine.New(engine.Options{TemplatePath: "."})
//	analysis, err := e.Analyze(ctx, repo, tree)
package engine
