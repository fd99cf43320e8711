package engine

import (
	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/rule"
)

// RuleNode is a rule placed in the rule tree.
type RuleNode struct {
	Rule     *rule.Rule
	Children []*RuleNode
}

// BuildTree builds the rule forest of g: one root per entry rule, each
// node's children its transitive dependencies in topological order.
func BuildTree(g *Graph) ([]*RuleNode, error) {
	return buildNodes(g, g.EntryNodes())
}

func buildNodes(g *Graph, ids []string) ([]*RuleNode, error) {
	nodes := make([]*RuleNode, 0, len(ids))
	for _, id := range ids {
		r, ok := g.Data(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownRule, "unknown rule %s", id)
		}
		deps, err := g.DependenciesOf(id, true)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRuleCycle, err, "rule %s", id)
		}
		children, err := buildNodes(g, deps)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &RuleNode{Rule: r, Children: children})
	}
	return nodes, nil
}

// CountRules returns the number of nodes in the forest, counting each
// duplicated occurrence.
func CountRules(nodes []*RuleNode) int {
	n := 0
	for _, node := range nodes {
		n += 1 + CountRules(node.Children)
	}
	return n
}

// Prepare builds the graph and tree for rules in one step.
func Prepare(rules []*rule.Rule) ([]*RuleNode, error) {
	g, err := BuildGraph(rules)
	if err != nil {
		return nil, err
	}
	return BuildTree(g)
}
