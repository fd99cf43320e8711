package cli

import (
	stderrors "errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/standardize/pkg/config"
	"github.com/matzehuels/standardize/pkg/engine"
	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/fsutil"
	"github.com/matzehuels/standardize/pkg/report"
	"github.com/matzehuels/standardize/pkg/repository"
	"github.com/matzehuels/standardize/pkg/rule/rules"
)

// errRulesFailed is returned by check --fail when at least one rule failed.
var errRulesFailed = stderrors.New("one or more rules failed")

type checkOptions struct {
	names   []string
	paths   []string
	format  string
	fail    bool
	noCache bool
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [names...]",
		Short: "Check repositories against the module template",
		Long: `Check clones or refreshes each repository, switches it to its default
branch, and runs every rule on it.

Repositories come from the arguments, or from the config file when no
arguments are given. Use --path to check local directories without git.`,
		Example: `  standardize check
  standardize check abi-utils logo
  standardize check --path ./my-module --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.names = args
			return c.runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.paths, "path", nil, "check a local directory instead of a clone (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", report.FormatText, "output format: text, json, yaml")
	cmd.Flags().BoolVar(&opts.fail, "fail", false, "exit non-zero when any rule fails")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "ignore the default-branch cache")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, opts checkOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	stderr := cmd.ErrOrStderr()

	if !slices.Contains(report.Formats, opts.format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want text, json or yaml)", opts.format)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	tree, err := engine.Prepare(rules.New(rules.Options{AllowedEntries: cfg.AllowedEntries}))
	if err != nil {
		return err
	}
	logger.Debug("built rule tree", "nodes", engine.CountRules(tree))

	if ok, err := fsutil.IsDirectory(cfg.TemplateDir); err != nil {
		return err
	} else if !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "template directory %s does not exist", cfg.TemplateDir)
	}

	repos, rep, err := c.collectRepositories(cmd, cfg, opts)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Options{TemplatePath: cfg.TemplateDir, Hooks: c.hooks()})
	run := newProgress(logger, log.InfoLevel)
	for _, repo := range repos {
		prog := newProgress(withProject(logger, repo.Name()), log.DebugLevel)
		analysis, err := eng.Analyze(ctx, repo, tree)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			prog.failed("analysis failed", err)
			rep.Errors = append(rep.Errors, report.ProjectError{ProjectName: repo.Name(), Err: err})
			continue
		}
		total, failed := analysis.Stats()
		prog.done("analyzed", "rules", total, "failed", failed)
		rep.Analyses = append(rep.Analyses, analysis)
	}
	run.done("check finished", "projects", len(repos), "errors", len(rep.Errors))

	if err := report.Write(cmd.OutOrStdout(), opts.format, rep); err != nil {
		return err
	}

	summary := report.Summarize(rep)
	if summary.Errors > 0 {
		printError(stderr, "%d project(s) could not be analyzed", summary.Errors)
		return fmt.Errorf("%d project(s) could not be analyzed", summary.Errors)
	}
	if opts.fail && summary.Failed > 0 {
		return errRulesFailed
	}
	return nil
}

// collectRepositories resolves the repositories to analyze. Local paths are
// used as-is. Named repositories are cloned or refreshed; the ones that
// cannot be initialized are recorded in the returned report.
func (c *CLI) collectRepositories(cmd *cobra.Command, cfg *config.Config, opts checkOptions) ([]*repository.Repository, report.Report, error) {
	var (
		repos []*repository.Repository
		rep   report.Report
	)

	for _, p := range opts.paths {
		repo, err := repository.Local(p)
		if err != nil {
			return nil, rep, err
		}
		repos = append(repos, repo)
	}

	names := opts.names
	if len(names) == 0 && len(opts.paths) == 0 {
		names = cfg.Repositories
	}
	if len(names) == 0 {
		if len(repos) == 0 {
			printWarning(cmd.ErrOrStderr(), "No repositories to check")
		}
		return repos, rep, nil
	}

	provider, err := c.newProvider(cfg, opts.noCache)
	if err != nil {
		return nil, rep, err
	}

	ctx := cmd.Context()
	spinner := newSpinnerTo(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Initializing %d repositories...", len(names)))
	spinner.Start()
	results, err := provider.InitializeAll(ctx, names)
	if err != nil {
		spinner.StopWithError("Initialization cancelled")
		return nil, rep, err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			rep.Errors = append(rep.Errors, report.ProjectError{ProjectName: res.Name, Err: res.Err})
			continue
		}
		repos = append(repos, res.Repository)
	}
	if failed > 0 {
		spinner.StopWithError(fmt.Sprintf("Initialized %d of %d repositories", len(names)-failed, len(names)))
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Initialized %d repositories", len(names)))
	}
	return repos, rep, nil
}
