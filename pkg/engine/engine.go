package engine

import (
	"context"
	"time"

	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/observability"
	"github.com/matzehuels/standardize/pkg/project"
	"github.com/matzehuels/standardize/pkg/repository"
	"github.com/matzehuels/standardize/pkg/rule"
)

// ResultNode is the result of one rule node. A result tree has the same
// shape as the rule tree it came from.
type ResultNode struct {
	Result   rule.Result
	Children []*ResultNode
}

// ProjectAnalysis is the outcome of running the rule tree on one repository.
type ProjectAnalysis struct {
	ProjectName string
	ElapsedTime time.Duration
	Results     []*ResultNode
}

// Stats counts the results of the analysis.
func (a *ProjectAnalysis) Stats() (total, failed int) {
	Walk(a.Results, func(n *ResultNode, _ int) {
		total++
		if !n.Result.Passed() {
			failed++
		}
	})
	return total, failed
}

// Passed reports whether every rule passed.
func (a *ProjectAnalysis) Passed() bool {
	_, failed := a.Stats()
	return failed == 0
}

// Walk visits nodes in pre-order, passing each node's depth (roots are 0).
func Walk(nodes []*ResultNode, fn func(n *ResultNode, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []*ResultNode, depth int, fn func(*ResultNode, int)) {
	for _, n := range nodes {
		fn(n, depth)
		walk(n.Children, depth+1, fn)
	}
}

// Options configure an Engine.
type Options struct {
	// TemplatePath is the module template the repositories are compared against.
	TemplatePath string

	// Hooks receive engine and data cache events. Nil hooks are no-ops.
	Hooks observability.Hooks
}

// Engine executes rule trees.
//
// An Engine holds no per-repository state; each Analyze call builds its own
// data cache, so one Engine may analyze any number of repositories.
type Engine struct {
	templatePath string
	hooks        observability.Hooks
}

// New creates an engine.
func New(opts Options) *Engine {
	return &Engine{
		templatePath: opts.TemplatePath,
		hooks:        opts.Hooks.Normalize(),
	}
}

// Analyze runs the rule tree against repo with a fresh data cache and
// measures how long it took.
func (e *Engine) Analyze(ctx context.Context, repo *repository.Repository, tree []*RuleNode) (*ProjectAnalysis, error) {
	name := repo.Name()
	e.hooks.Engine.OnAnalysisStart(ctx, name, CountRules(tree))

	start := time.Now()
	rc := rule.Context{
		Cache:          project.NewCache(repo.DirectoryPath, e.templatePath, e.hooks.Cache),
		RepositoryPath: repo.DirectoryPath,
	}
	results, err := e.Execute(ctx, name, tree, rc)
	elapsed := time.Since(start)

	e.hooks.Engine.OnAnalysisComplete(ctx, name, elapsed, err)
	if err != nil {
		return nil, err
	}
	return &ProjectAnalysis{ProjectName: name, ElapsedTime: elapsed, Results: results}, nil
}

// Execute runs nodes in pre-order and returns the isomorphic result tree.
// The first rule that returns an error stops execution; the error is
// wrapped with code ErrCodeRuleVerify and the rule's name.
func (e *Engine) Execute(ctx context.Context, projectName string, nodes []*RuleNode, rc rule.Context) ([]*ResultNode, error) {
	results := make([]*ResultNode, 0, len(nodes))
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := e.verify(ctx, projectName, node.Rule, rc)
		if err != nil {
			return nil, err
		}
		children, err := e.Execute(ctx, projectName, node.Children, rc)
		if err != nil {
			return nil, err
		}
		results = append(results, &ResultNode{Result: res, Children: children})
	}
	return results, nil
}

func (e *Engine) verify(ctx context.Context, projectName string, r *rule.Rule, rc rule.Context) (rule.Result, error) {
	name := string(r.Name)
	e.hooks.Engine.OnRuleStart(ctx, projectName, name)

	start := time.Now()
	res, err := r.Verify(ctx, rc)
	if err == nil && res == nil {
		err = errors.New(errors.ErrCodeInternal, "rule returned no result")
	}
	passed := err == nil && res.Passed()
	e.hooks.Engine.OnRuleComplete(ctx, projectName, name, passed, time.Since(start), err)

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRuleVerify, err, "rule %s failed to run on %s", r.Name, projectName)
	}
	return res, nil
}
