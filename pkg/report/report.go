// Package report writes project analyses for people and for machines.
//
// [Text] prints a colored tree of rule results per project. [JSON] and
// [YAML] emit the same tree as a structured document tagged with a run ID.
// Reporters never modify the analyses they are given.
package report

import (
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/standardize/pkg/engine"
	"github.com/matzehuels/standardize/pkg/errors"
)

// Output formats accepted by [Write].
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Report is the input of a reporter: the projects that were analyzed and the
// ones that could not be.
type Report struct {
	Analyses []*engine.ProjectAnalysis
	Errors   []ProjectError
}

// ProjectError records a repository whose analysis could not complete.
type ProjectError struct {
	ProjectName string
	Err         error
}

// Summary totals a report.
type Summary struct {
	Projects int `json:"projects" yaml:"projects"`
	Rules    int `json:"rules" yaml:"rules"`
	Failed   int `json:"failed" yaml:"failed"`
	Errors   int `json:"errors" yaml:"errors"`
}

// OK reports whether every rule passed and every project was analyzed.
func (s Summary) OK() bool { return s.Failed == 0 && s.Errors == 0 }

// Summarize counts the results in r.
func Summarize(r Report) Summary {
	s := Summary{Projects: len(r.Analyses) + len(r.Errors), Errors: len(r.Errors)}
	for _, a := range r.Analyses {
		total, failed := a.Stats()
		s.Rules += total
		s.Failed += failed
	}
	return s
}

// Write renders r to w in the named format.
// Returns an error with code ErrCodeInvalidFormat for an unknown format.
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case FormatText, "":
		return Text(w, r)
	case FormatJSON:
		return JSON(w, r)
	case FormatYAML:
		return YAML(w, r)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// sortedAnalyses returns the analyses ordered by project name without
// touching the caller's slice.
func sortedAnalyses(r Report) []*engine.ProjectAnalysis {
	out := slices.Clone(r.Analyses)
	slices.SortStableFunc(out, func(a, b *engine.ProjectAnalysis) int {
		return strings.Compare(a.ProjectName, b.ProjectName)
	})
	return out
}

func sortedErrors(r Report) []ProjectError {
	out := slices.Clone(r.Errors)
	slices.SortStableFunc(out, func(a, b ProjectError) int {
		return strings.Compare(a.ProjectName, b.ProjectName)
	})
	return out
}
