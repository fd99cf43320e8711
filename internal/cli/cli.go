// Package cli implements the standardize command-line interface.
//
// This package provides commands for checking repositories against the
// module template, inspecting the rule set, and managing the local clones
// and caches. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - check: Clone or refresh repositories and report rule violations
//   - rules: List the rules, print the rule tree, or draw the dependency graph
//   - repos: Show or remove the local clones
//   - cache: Manage the default-branch cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/standardize/pkg/buildinfo"
	"github.com/matzehuels/standardize/pkg/cache"
	"github.com/matzehuels/standardize/pkg/config"
	"github.com/matzehuels/standardize/pkg/observability"
	"github.com/matzehuels/standardize/pkg/repository"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "standardize"

	// branchCacheSubdir holds the persistent default-branch cache under cacheDir.
	branchCacheSubdir = "branches"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Standardize checks repositories against the module template",
		Long:         `Standardize clones a list of repositories and checks each one against the module template: expected files and directories, required tsconfig.json and package.json settings, obsolete Yarn configuration, and unknown root entries.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.rulesCommand())
	root.AddCommand(c.reposCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig loads the configuration selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "repositories", len(cfg.Repositories), "dir", cfg.RepositoriesDir, "template", cfg.TemplateDir)
	return cfg, nil
}

// hooks returns the observability hooks for a run.
func (c *CLI) hooks() observability.Hooks {
	return observability.Logging(c.Logger)
}

// newProvider creates the repository provider for cfg.
func (c *CLI) newProvider(cfg *config.Config, noCache bool) (*repository.Provider, error) {
	branches, err := c.openBranchStore(cfg.BranchCacheTTL.Duration, noCache)
	if err != nil {
		return nil, err
	}
	return repository.NewProvider(repository.Options{
		BaseURL:        cfg.OrganizationURL,
		Dir:            cfg.RepositoriesDir,
		Concurrency:    cfg.Concurrency,
		CommandTimeout: cfg.GitTimeout.Duration,
		Branches:       branches,
		Hooks:          c.hooks(),
		Logger:         c.Logger,
	}), nil
}

// openBranchStore opens the default-branch cache. Without a usable cache
// directory the run proceeds uncached.
func (c *CLI) openBranchStore(maxAge time.Duration, noCache bool) (cache.BranchStore, error) {
	if noCache {
		return cache.NullBranchStore{}, nil
	}
	dir, err := branchCacheDir()
	if err != nil {
		c.Logger.Debug("branch cache disabled", "error", err)
		return cache.NullBranchStore{}, nil
	}
	return cache.NewFileBranchStore(dir, maxAge)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/standardize/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// branchCacheDir returns the directory of the default-branch cache.
func branchCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, branchCacheSubdir), nil
}
