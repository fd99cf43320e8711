package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/standardize/pkg/cache"
	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/fsutil"
	"github.com/matzehuels/standardize/pkg/observability"
)

// DefaultConcurrency bounds parallel clones when Options.Concurrency is unset.
const DefaultConcurrency = 4

// Options configure a Provider.
type Options struct {
	// BaseURL is the organization URL; a repository named n is cloned from BaseURL/n.
	BaseURL string

	// Dir holds one clone per repository.
	Dir string

	// Concurrency bounds how many repositories InitializeAll prepares at once.
	Concurrency int

	// CommandTimeout bounds each git command. Zero means no limit.
	CommandTimeout time.Duration

	// Branches remembers detected default branches across runs. Nil disables it.
	Branches cache.BranchStore

	Hooks  observability.Hooks
	Logger *log.Logger
}

// Provider clones and refreshes repositories.
type Provider struct {
	baseURL     string
	dir         string
	concurrency int
	branches    cache.BranchStore
	retry       retryPolicy
	git         *git
	logger      *log.Logger
}

// NewProvider creates a provider. A nil Cache disables branch caching and a
// nil Logger uses log.Default().
func NewProvider(opts Options) *Provider {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Branches == nil {
		opts.Branches = cache.NullBranchStore{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	hooks := opts.Hooks.Normalize()
	return &Provider{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		dir:         opts.Dir,
		concurrency: opts.Concurrency,
		branches:    opts.Branches,
		retry:       defaultRetry,
		git:         &git{hooks: hooks.Git, timeout: opts.CommandTimeout},
		logger:      opts.Logger,
	}
}

// Dir returns the directory holding the clones.
func (p *Provider) Dir() string { return p.dir }

// URL returns the clone URL of the named repository.
func (p *Provider) URL(name string) string { return p.baseURL + "/" + name }

// Initialize makes sure the named repository is cloned and on its default
// branch.
//
// An existing clone is reused: its current branch is read from HEAD and its
// default branch from the origin remote. A directory without a .git entry
// is removed and cloned afresh. Returns an error with code ErrCodeGit if
// HEAD is detached or the default branch cannot be detected.
func (p *Provider) Initialize(ctx context.Context, name string) (*Repository, error) {
	if err := errors.ValidateRepositoryName(name); err != nil {
		return nil, err
	}

	repo, err := p.ensureCloned(ctx, name)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("repository ready", "name", name, "current", repo.CurrentBranchName, "default", repo.DefaultBranchName)

	if repo.CurrentBranchName != repo.DefaultBranchName {
		p.logger.Info("checking out default branch", "name", name, "branch", repo.DefaultBranchName)
		if _, err := p.git.run(ctx, repo.DirectoryPath, "checkout", repo.DefaultBranchName); err != nil {
			return nil, err
		}
		repo.CurrentBranchName = repo.DefaultBranchName
	}
	return repo, nil
}

func (p *Provider) ensureCloned(ctx context.Context, name string) (*Repository, error) {
	dir := filepath.Join(p.dir, name)

	isRepo, err := fsutil.IsDirectory(filepath.Join(dir, ".git"))
	if err != nil {
		return nil, err
	}

	if isRepo {
		current, err := p.git.currentBranch(ctx, dir)
		if err != nil {
			return nil, err
		}
		def, err := p.defaultBranch(ctx, name, dir)
		if err != nil {
			return nil, err
		}
		return &Repository{DirectoryPath: dir, CurrentBranchName: current, DefaultBranchName: def}, nil
	}

	if err := p.clone(ctx, name, dir); err != nil {
		return nil, err
	}
	current, err := p.git.currentBranch(ctx, dir)
	if err != nil {
		return nil, err
	}
	// A fresh clone is on the remote's HEAD branch.
	p.remember(ctx, name, current)
	return &Repository{DirectoryPath: dir, CurrentBranchName: current, DefaultBranchName: current}, nil
}

// clone replaces dir with a fresh clone, retrying transient failures.
func (p *Provider) clone(ctx context.Context, name, dir string) error {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "could not create %s", p.dir)
	}

	url := p.URL(name)
	policy := p.retry
	policy.onRetry = func(attempt int, err error) {
		p.logger.Warn("clone failed, retrying", "name", name, "attempt", attempt, "error", err)
	}
	return policy.do(ctx, func() error {
		p.logger.Debug("removing", "path", dir)
		if err := os.RemoveAll(dir); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "could not remove %s", dir)
		}
		p.logger.Info("cloning", "name", name, "url", url)
		_, err := p.git.run(ctx, p.dir, "clone", url, dir)
		return err
	})
}

// defaultBranch returns the origin's default branch, consulting the
// persistent cache before asking the remote.
func (p *Provider) defaultBranch(ctx context.Context, name, dir string) (string, error) {
	url := p.URL(name)
	if rec, ok, err := p.branches.Lookup(ctx, url); err != nil {
		p.logger.Debug("could not read cached default branch", "name", name, "error", err)
	} else if ok {
		p.logger.Debug("using cached default branch", "name", name, "branch", rec.Branch, "detected", rec.DetectedAt)
		return rec.Branch, nil
	}

	branch, err := p.git.defaultBranch(ctx, dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeGit, err, "could not detect default branch name for %s, cannot proceed", name)
	}
	p.remember(ctx, name, branch)
	return branch, nil
}

// remember records branch as the default branch of name's remote.
// A store failure only costs a remote lookup next run, so it is logged.
func (p *Provider) remember(ctx context.Context, name, branch string) {
	rec := cache.BranchRecord{URL: p.URL(name), Branch: branch, DetectedAt: time.Now()}
	if err := p.branches.Save(ctx, rec); err != nil {
		p.logger.Debug("could not cache default branch", "name", name, "error", err)
	}
}

// Initialized is the outcome of initializing one repository.
type Initialized struct {
	Name       string
	Repository *Repository
	Err        error
}

// InitializeAll initializes names concurrently, at most Concurrency at a time.
// Results are in the order of names; a failure of one repository is recorded
// in its result and does not stop the others. The returned error is non-nil
// only if ctx was cancelled.
func (p *Provider) InitializeAll(ctx context.Context, names []string) ([]Initialized, error) {
	results := make([]Initialized, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Initialized{Name: name, Err: err}
				return err
			}
			repo, err := p.Initialize(gctx, name)
			results[i] = Initialized{Name: name, Repository: repo, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Clean removes every clone.
func (p *Provider) Clean() error {
	if err := os.RemoveAll(p.dir); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "could not remove %s", p.dir)
	}
	return nil
}
