package rules

import (
	"context"
	"fmt"

	"github.com/matzehuels/standardize/pkg/cache"
	"github.com/matzehuels/standardize/pkg/fsutil"
	"github.com/matzehuels/standardize/pkg/project"
	"github.com/matzehuels/standardize/pkg/rule"
)

// requiredManifestFields must be present and non-empty in package.json.
var requiredManifestFields = []string{"name", "version"}

// AllRequiredTsConfigPropertiesPresent reports every leaf property of the
// template's tsconfig.json that is missing or falsy in the project's.
var AllRequiredTsConfigPropertiesPresent = rule.Build(rule.Definition{
	Name:         rule.AllRequiredTsConfigPropertiesPresent,
	Description:  "Are all the settings in tsconfig.json being used?",
	Dependencies: []rule.Name{rule.RequireTsConfig},
	Verify: func(h rule.Helpers) rule.VerifyFunc {
		return func(ctx context.Context, rc rule.Context) (rule.Result, error) {
			template, err := cache.Fetch[map[string]any](ctx, rc.Cache, project.KeyTemplateTsConfig)
			if err != nil {
				return nil, err
			}
			tsconfig, err := cache.Fetch[map[string]any](ctx, rc.Cache, project.KeyTsConfig)
			if err != nil {
				return nil, err
			}

			var failures []rule.Failure
			for _, prop := range fsutil.Flatten(template) {
				if fsutil.HasProperty(tsconfig, prop.Path...) {
					continue
				}
				failures = append(failures, rule.Failure{
					Message: fmt.Sprintf("Missing property %q.", prop.String()),
					Details: map[string]any{
						"entryPath":    project.TsConfigFile,
						"propertyPath": prop.Path,
					},
				})
			}
			if len(failures) > 0 {
				return h.Fail(failures...), nil
			}
			return h.Pass(), nil
		}
	},
})

// AllRequiredPackageManifestPropertiesPresent reports each required
// package.json field that is missing or empty.
var AllRequiredPackageManifestPropertiesPresent = rule.Build(rule.Definition{
	Name:         rule.AllRequiredPackageManifestPropertiesPresent,
	Description:  "Are all the settings in package.json being used?",
	Dependencies: []rule.Name{rule.RequirePackageManifest},
	Verify: func(h rule.Helpers) rule.VerifyFunc {
		return func(ctx context.Context, rc rule.Context) (rule.Result, error) {
			manifest, err := cache.Fetch[map[string]any](ctx, rc.Cache, project.KeyPackageManifest)
			if err != nil {
				return nil, err
			}

			var failures []rule.Failure
			for _, field := range requiredManifestFields {
				if fsutil.HasProperty(manifest, field) {
					continue
				}
				failures = append(failures, rule.Failure{
					Message: fmt.Sprintf("Package manifest is missing a %q field.", field),
					Details: map[string]any{
						"entryPath":    project.PackageManifest,
						"propertyPath": []string{field},
					},
				})
			}
			if len(failures) > 0 {
				return h.Fail(failures...), nil
			}
			return h.Pass(), nil
		}
	},
})
