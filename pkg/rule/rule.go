package rule

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/standardize/pkg/cache"
)

// Name identifies a rule.
type Name string

// Known rule names.
const (
	RequireSourceDirectory                      Name = "RequireSourceDirectory"
	RequireTsConfig                             Name = "RequireTsConfig"
	AllRequiredTsConfigPropertiesPresent        Name = "AllRequiredTsConfigPropertiesPresent"
	Yarn1ConfigAbsent                           Name = "Yarn1ConfigAbsent"
	RequirePackageManifest                      Name = "RequirePackageManifest"
	AllRequiredPackageManifestPropertiesPresent Name = "AllRequiredPackageManifestPropertiesPresent"
	NoUnknownEntries                            Name = "NoUnknownEntries"
)

// Context is what a rule sees of the repository under analysis.
type Context struct {
	// Cache holds the project's memoized facts, shared by all rules of one analysis.
	Cache *cache.Memo

	// RepositoryPath is the root directory of the repository.
	RepositoryPath string
}

// VerifyFunc inspects a repository. A non-nil error signals that the rule
// could not be evaluated at all (I/O failure, malformed JSON) and aborts the
// analysis; a rule violation is reported through a [Failed] result instead.
type VerifyFunc func(ctx context.Context, rc Context) (Result, error)

// Rule is a named, described check with declared dependencies.
type Rule struct {
	Name         Name
	Description  string
	Dependencies []Name
	Verify       VerifyFunc
}

// Helpers construct results pre-filled with the rule's name and description.
type Helpers struct {
	Pass func() Passed
	Fail func(failures ...Failure) Failed
}

// Definition describes a rule for [Build]. Verify receives the rule's
// [Helpers] and returns the verify body.
type Definition struct {
	Name         Name
	Description  string
	Dependencies []Name
	Verify       func(h Helpers) VerifyFunc
}

// Build assembles a Rule from its definition.
//
// Build panics if the rule lists itself as a dependency or has no verify
// body. Rules are static values, so either is a programming error.
func Build(def Definition) *Rule {
	if slices.Contains(def.Dependencies, def.Name) {
		panic(fmt.Sprintf("rule %s depends on itself", def.Name))
	}
	if def.Verify == nil {
		panic(fmt.Sprintf("rule %s has no verify function", def.Name))
	}

	h := Helpers{
		Pass: func() Passed {
			return Passed{RuleName: def.Name, RuleDescription: def.Description}
		},
		Fail: func(failures ...Failure) Failed {
			return Failed{RuleName: def.Name, RuleDescription: def.Description, Failures: failures}
		},
	}

	return &Rule{
		Name:         def.Name,
		Description:  def.Description,
		Dependencies: slices.Clone(def.Dependencies),
		Verify:       def.Verify(h),
	}
}
