package repository

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/standardize/pkg/cache"
	"github.com/matzehuels/standardize/pkg/errors"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// gitCmd runs git in dir with a fixed identity and no user configuration.
func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-c", "commit.gpgsign=false"}, args...)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// origin creates an organization directory holding one repository per name,
// each with a single commit on main and a second branch "develop".
func origin(t *testing.T, names ...string) string {
	t.Helper()
	org := t.TempDir()
	for _, name := range names {
		dir := filepath.Join(org, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		gitCmd(t, dir, "init", "--quiet")
		gitCmd(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
		if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"`+name+`"}`), 0644); err != nil {
			t.Fatal(err)
		}
		gitCmd(t, dir, "add", ".")
		gitCmd(t, dir, "commit", "--quiet", "-m", "initial")
		gitCmd(t, dir, "branch", "develop")
	}
	return org
}

func newTestProvider(t *testing.T, org string) *Provider {
	t.Helper()
	return NewProvider(Options{
		BaseURL: "file://" + org,
		Dir:     filepath.Join(t.TempDir(), "repositories"),
		Logger:  log.New(os.Stderr),
	})
}

func TestInitializeClones(t *testing.T) {
	requireGit(t)
	p := newTestProvider(t, origin(t, "logo"))

	repo, err := p.Initialize(context.Background(), "logo")
	if err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	if repo.DirectoryPath != filepath.Join(p.Dir(), "logo") {
		t.Errorf("DirectoryPath = %s", repo.DirectoryPath)
	}
	if repo.Name() != "logo" {
		t.Errorf("Name() = %s, want logo", repo.Name())
	}
	if repo.CurrentBranchName != "main" || repo.DefaultBranchName != "main" {
		t.Errorf("branches = %s/%s, want main/main", repo.CurrentBranchName, repo.DefaultBranchName)
	}
	if _, err := os.Stat(filepath.Join(repo.DirectoryPath, "package.json")); err != nil {
		t.Errorf("clone is missing package.json: %v", err)
	}
}

func TestInitializeReusesCloneAndChecksOutDefault(t *testing.T) {
	requireGit(t)
	p := newTestProvider(t, origin(t, "logo"))
	ctx := context.Background()

	repo, err := p.Initialize(ctx, "logo")
	if err != nil {
		t.Fatal(err)
	}
	gitCmd(t, repo.DirectoryPath, "checkout", "--quiet", "develop")

	repo, err = p.Initialize(ctx, "logo")
	if err != nil {
		t.Fatalf("second Initialize error: %v", err)
	}
	if repo.DefaultBranchName != "main" {
		t.Errorf("DefaultBranchName = %s, want main", repo.DefaultBranchName)
	}
	if got := gitCmd(t, repo.DirectoryPath, "rev-parse", "--abbrev-ref", "HEAD"); got != "main" {
		t.Errorf("checked out %s, want main", got)
	}
}

func TestInitializeDetachedHead(t *testing.T) {
	requireGit(t)
	p := newTestProvider(t, origin(t, "logo"))
	ctx := context.Background()

	repo, err := p.Initialize(ctx, "logo")
	if err != nil {
		t.Fatal(err)
	}
	gitCmd(t, repo.DirectoryPath, "checkout", "--quiet", "--detach")

	_, err = p.Initialize(ctx, "logo")
	if !errors.Is(err, errors.ErrCodeGit) {
		t.Fatalf("error = %v, want code %s", err, errors.ErrCodeGit)
	}
	if !strings.Contains(err.Error(), "detached") {
		t.Errorf("error should mention a detached HEAD: %v", err)
	}
}

func TestInitializeReplacesNonGitDirectory(t *testing.T) {
	requireGit(t)
	p := newTestProvider(t, origin(t, "logo"))

	stale := filepath.Join(p.Dir(), "logo")
	if err := os.MkdirAll(stale, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stale, "leftover.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	repo, err := p.Initialize(context.Background(), "logo")
	if err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repo.DirectoryPath, "leftover.txt")); !os.IsNotExist(err) {
		t.Error("stale directory content should have been removed")
	}
}

func TestInitializeUsesCachedDefaultBranch(t *testing.T) {
	requireGit(t)
	org := origin(t, "logo")
	store, err := cache.NewFileBranchStore(t.TempDir(), cache.DefaultBranchMaxAge)
	if err != nil {
		t.Fatal(err)
	}
	p := NewProvider(Options{
		BaseURL:  "file://" + org,
		Dir:      filepath.Join(t.TempDir(), "repositories"),
		Branches: store,
	})
	ctx := context.Background()

	if _, err := p.Initialize(ctx, "logo"); err != nil {
		t.Fatal(err)
	}
	// The fresh clone recorded the remote's HEAD branch.
	rec, ok, err := store.Lookup(ctx, p.URL("logo"))
	if err != nil || !ok || rec.Branch != "main" {
		t.Fatalf("record after clone = %+v, %v, %v; want main", rec, ok, err)
	}
	// Pretend the remote's default branch is develop.
	if err := store.Save(ctx, cache.BranchRecord{URL: p.URL("logo"), Branch: "develop"}); err != nil {
		t.Fatal(err)
	}

	repo, err := p.Initialize(ctx, "logo")
	if err != nil {
		t.Fatal(err)
	}
	if repo.DefaultBranchName != "develop" || repo.CurrentBranchName != "develop" {
		t.Errorf("branches = %s/%s, want develop/develop", repo.CurrentBranchName, repo.DefaultBranchName)
	}
}

func TestInitializeRejectsInvalidName(t *testing.T) {
	p := NewProvider(Options{BaseURL: "file:///nonexistent", Dir: t.TempDir()})
	for _, name := range []string{"", "../escape", "a/b"} {
		if _, err := p.Initialize(context.Background(), name); !errors.Is(err, errors.ErrCodeInvalidRepository) {
			t.Errorf("Initialize(%q) error = %v, want %s", name, err, errors.ErrCodeInvalidRepository)
		}
	}
}

func TestInitializeAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	requireGit(t)
	p := newTestProvider(t, origin(t, "abi-utils", "logo", "providers"))

	names := []string{"providers", "missing", "abi-utils", "logo"}
	results, err := p.InitializeAll(context.Background(), names)
	if err != nil {
		t.Fatalf("InitializeAll error: %v", err)
	}
	if len(results) != len(names) {
		t.Fatalf("got %d results, want %d", len(results), len(names))
	}
	for i, res := range results {
		if res.Name != names[i] {
			t.Errorf("results[%d].Name = %s, want %s", i, res.Name, names[i])
		}
		if names[i] == "missing" {
			if res.Err == nil {
				t.Error("cloning a missing repository should fail")
			}
			continue
		}
		if res.Err != nil {
			t.Errorf("%s: %v", res.Name, res.Err)
			continue
		}
		if res.Repository.Name() != names[i] {
			t.Errorf("results[%d].Repository = %s", i, res.Repository.Name())
		}
	}
}

func TestClean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "repositories")
	if err := os.MkdirAll(filepath.Join(dir, "logo"), 0755); err != nil {
		t.Fatal(err)
	}
	p := NewProvider(Options{Dir: dir})
	if err := p.Clean(); err != nil {
		t.Fatalf("Clean error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Clean should remove the repositories directory")
	}
}

func TestLocal(t *testing.T) {
	dir := t.TempDir()
	repo, err := Local(dir)
	if err != nil {
		t.Fatalf("Local error: %v", err)
	}
	if repo.DirectoryPath != dir || repo.Name() != filepath.Base(dir) {
		t.Errorf("Local = %+v", repo)
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Local(file); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Local(file) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestParseDefaultBranch(t *testing.T) {
	out := `* remote origin
  Fetch URL: https://github.com/MetaMask/logo
  Push  URL: https://github.com/MetaMask/logo
  HEAD branch: master
  Remote branch:
    master tracked`

	got, err := parseDefaultBranch(out)
	if err != nil || got != "master" {
		t.Errorf("parseDefaultBranch = %q, %v; want master", got, err)
	}

	if _, err := parseDefaultBranch("* remote origin\n  HEAD branch: (unknown)"); err == nil {
		t.Error("unknown HEAD branch should be an error")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		stderr string
		want   bool
	}{
		{"fatal: unable to access 'https://github.com/x/': Could not resolve host: github.com", true},
		{"fatal: the remote end hung up unexpectedly", true},
		{"fatal: repository 'https://github.com/x/' not found", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isTransient(tt.stderr); got != tt.want {
			t.Errorf("isTransient(%q) = %v, want %v", tt.stderr, got, tt.want)
		}
	}
}
