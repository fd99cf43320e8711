package engine

import (
	"github.com/matzehuels/standardize/pkg/dag"
	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/rule"
)

// Graph is the rule dependency graph keyed by rule name.
type Graph = dag.DAG[*rule.Rule]

// BuildGraph builds and validates the dependency graph of rules.
//
// Returns an error with code ErrCodeUnknownRule if a rule depends on a rule
// not in the set, ErrCodeRuleCycle if the dependencies form a cycle, and
// ErrCodeInvalidConfig for a duplicate or unnamed rule.
func BuildGraph(rules []*rule.Rule) (*Graph, error) {
	g := dag.New[*rule.Rule]()
	for _, r := range rules {
		if err := g.AddNode(string(r.Name), r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot add rule %q", r.Name)
		}
	}

	for _, r := range rules {
		for _, dep := range r.Dependencies {
			if !g.HasNode(string(dep)) {
				return nil, errors.New(errors.ErrCodeUnknownRule, "rule %s depends on unknown rule %s", r.Name, dep)
			}
			if err := g.AddDependency(string(r.Name), string(dep)); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "rule %s", r.Name)
			}
		}
	}

	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRuleCycle, err, "rule dependencies are not acyclic")
	}
	return g, nil
}
