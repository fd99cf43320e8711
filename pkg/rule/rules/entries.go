package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/matzehuels/standardize/pkg/cache"
	"github.com/matzehuels/standardize/pkg/fsutil"
	"github.com/matzehuels/standardize/pkg/project"
	"github.com/matzehuels/standardize/pkg/rule"
)

// Yarn1ConfigAbsent fails when the project still has a Yarn v1 .yarnrc,
// whether or not a .yarnrc.yml is also present.
var Yarn1ConfigAbsent = rule.Build(rule.Definition{
	Name:        rule.Yarn1ConfigAbsent,
	Description: "Has the Yarn config file been migrated?",
	Verify: func(h rule.Helpers) rule.VerifyFunc {
		return func(ctx context.Context, rc rule.Context) (rule.Result, error) {
			present, err := cache.Fetch[bool](ctx, rc.Cache, project.KeyHasYarn1Config)
			if err != nil {
				return nil, err
			}
			if !present {
				return h.Pass(), nil
			}
			return h.Fail(rule.Failure{
				Message: "This file is obsolete. Please convert this project to Yarn v3, " +
					"making sure to merge these settings into .yarnrc.yml.",
				Details: map[string]any{"entryPath": project.YarnConfig},
			}), nil
		}
	},
})

// NoUnknownEntries returns a rule that reports every root entry of the
// project that is neither in the template's root nor in allowed.
func NoUnknownEntries(allowed []string) *rule.Rule {
	allowed = slices.Clone(allowed)

	return rule.Build(rule.Definition{
		Name:        rule.NoUnknownEntries,
		Description: "Are there any other unknown paths in the root of the project?",
		Verify: func(h rule.Helpers) rule.VerifyFunc {
			return func(ctx context.Context, rc rule.Context) (rule.Result, error) {
				known, err := cache.Fetch[[]string](ctx, rc.Cache, project.KeyTemplateRootEntryPaths)
				if err != nil {
					return nil, err
				}
				entries, err := cache.Fetch[[]string](ctx, rc.Cache, project.KeyRootEntryPaths)
				if err != nil {
					return nil, err
				}

				var failures []rule.Failure
				for _, entry := range entries {
					if slices.Contains(known, entry) || slices.Contains(allowed, entry) {
						continue
					}
					isDir, err := fsutil.IsDirectory(filepath.Join(rc.RepositoryPath, entry))
					if err != nil {
						return nil, err
					}
					entryPath := entry
					if isDir {
						entryPath += "/"
					}
					failures = append(failures, rule.Failure{
						Message: fmt.Sprintf("%q does not exist in the module template. Should it be moved to src/?", entry),
						Details: map[string]any{"entryPath": entryPath},
					})
				}
				if len(failures) > 0 {
					return h.Fail(failures...), nil
				}
				return h.Pass(), nil
			}
		},
	})
}
