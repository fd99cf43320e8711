package repository

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/observability"
)

var (
	currentBranchPattern = regexp.MustCompile(`^refs/heads/(.+)$`)
	defaultBranchPattern = regexp.MustCompile(`^\s*HEAD branch: (.+)$`)
)

// transientMarkers are stderr fragments of git failures worth retrying.
var transientMarkers = []string{
	"could not resolve host",
	"connection timed out",
	"connection refused",
	"connection reset",
	"the remote end hung up",
	"early eof",
	"operation timed out",
	"temporary failure",
}

// git runs git commands and reports each one to the hooks.
type git struct {
	hooks   observability.GitHooks
	timeout time.Duration
}

// run executes git with args in dir and returns trimmed stdout.
// Failures are returned with code ErrCodeGit; failures that look like
// network trouble additionally wrap ErrNetwork.
func (g *git) run(ctx context.Context, dir string, args ...string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	g.hooks.OnCommand(ctx, dir, args, time.Since(start), err)

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if isTransient(msg) {
			err = fmt.Errorf("%w: %s", ErrNetwork, msg)
		} else if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", errors.Wrap(errors.ErrCodeGit, err, "git %s", strings.Join(args, " "))
	}
	return strings.TrimSpace(stdout.String()), nil
}

func isTransient(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, m := range transientMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// currentBranch returns the branch HEAD points to in dir.
func (g *git) currentBranch(ctx context.Context, dir string) (string, error) {
	out, err := g.run(ctx, dir, "symbolic-ref", "--quiet", "HEAD")
	if err == nil {
		if m := currentBranchPattern.FindStringSubmatch(out); m != nil {
			return m[1], nil
		}
	}
	return "", errors.Wrap(errors.ErrCodeGit, err,
		"%s is not on a branch; perhaps HEAD is detached? Return it to its default branch manually", dir)
}

// defaultBranch asks the origin remote of dir for its HEAD branch.
func (g *git) defaultBranch(ctx context.Context, dir string) (string, error) {
	out, err := g.run(ctx, dir, "remote", "show", "origin")
	if err != nil {
		return "", err
	}
	return parseDefaultBranch(out)
}

func parseDefaultBranch(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		if m := defaultBranchPattern.FindStringSubmatch(line); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" && name != "(unknown)" {
				return name, nil
			}
		}
	}
	return "", errors.New(errors.ErrCodeGit, "could not detect the default branch name")
}
