// Package rules contains the built-in module-template rules.
//
// [All] returns the default rule set. [New] builds the same set with a
// custom allow-list for [NoUnknownEntries].
package rules

import (
	"context"

	"github.com/matzehuels/standardize/pkg/cache"
	"github.com/matzehuels/standardize/pkg/rule"
)

// DefaultAllowedEntries are root entries accepted even though the module
// template does not contain them.
var DefaultAllowedEntries = []string{".yarnrc", "LICENSE"}

// Options configure the rule set.
type Options struct {
	// AllowedEntries extends the template's root listing for NoUnknownEntries.
	// Nil means DefaultAllowedEntries.
	AllowedEntries []string
}

// All returns the built-in rules with default options.
func All() []*rule.Rule {
	return New(Options{})
}

// New returns the built-in rules in their declaration order.
func New(opts Options) []*rule.Rule {
	allowed := opts.AllowedEntries
	if allowed == nil {
		allowed = DefaultAllowedEntries
	}
	return []*rule.Rule{
		AllRequiredPackageManifestPropertiesPresent,
		AllRequiredTsConfigPropertiesPresent,
		NoUnknownEntries(allowed),
		RequirePackageManifest,
		RequireSourceDirectory,
		RequireTsConfig,
		Yarn1ConfigAbsent,
	}
}

// requireEntry builds a rule that fails when the boolean fact under key is
// false, reporting entryPath as missing.
func requireEntry(name rule.Name, description string, deps []rule.Name, key, entryPath, message string) *rule.Rule {
	return rule.Build(rule.Definition{
		Name:         name,
		Description:  description,
		Dependencies: deps,
		Verify: func(h rule.Helpers) rule.VerifyFunc {
			return func(ctx context.Context, rc rule.Context) (rule.Result, error) {
				present, err := cache.Fetch[bool](ctx, rc.Cache, key)
				if err != nil {
					return nil, err
				}
				if present {
					return h.Pass(), nil
				}
				return h.Fail(rule.Failure{
					Message: message,
					Details: map[string]any{"entryPath": entryPath},
				}), nil
			}
		},
	})
}

const (
	missingDirectory = "This directory exists in the module template, but not in this repo."
	missingFile      = "This file exists in the module template, but not in this repo."
)
