package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/standardize/pkg/engine"
	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/rule"
)

// Document is the structured form of a report.
type Document struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Summary     Summary   `json:"summary" yaml:"summary"`
	Projects    []Project `json:"projects" yaml:"projects"`
}

// Project is one analyzed (or failed) repository.
type Project struct {
	Name      string   `json:"name" yaml:"name"`
	ElapsedMS int64    `json:"elapsed_ms" yaml:"elapsed_ms"`
	Passed    bool     `json:"passed" yaml:"passed"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode string   `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	Results   []Result `json:"results,omitempty" yaml:"results,omitempty"`
}

// Result is one node of a project's result tree.
type Result struct {
	Rule        string    `json:"rule" yaml:"rule"`
	Description string    `json:"description" yaml:"description"`
	Passed      bool      `json:"passed" yaml:"passed"`
	Failures    []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Children    []Result  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Failure is one violation reported by a rule.
type Failure struct {
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewDocument converts r into its structured form under a fresh run ID.
func NewDocument(r Report) Document {
	doc := Document{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Summary:     Summarize(r),
		Projects:    []Project{},
	}
	for _, a := range sortedAnalyses(r) {
		doc.Projects = append(doc.Projects, Project{
			Name:      a.ProjectName,
			ElapsedMS: a.ElapsedTime.Milliseconds(),
			Passed:    a.Passed(),
			Results:   convertNodes(a.Results),
		})
	}
	for _, pe := range sortedErrors(r) {
		doc.Projects = append(doc.Projects, Project{
			Name:      pe.ProjectName,
			Error:     errors.UserMessage(pe.Err),
			ErrorCode: string(errors.GetCode(pe.Err)),
		})
	}
	return doc
}

func convertNodes(nodes []*engine.ResultNode) []Result {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Result, len(nodes))
	for i, n := range nodes {
		out[i] = Result{
			Rule:        string(n.Result.Name()),
			Description: n.Result.Description(),
			Passed:      n.Result.Passed(),
			Children:    convertNodes(n.Children),
		}
		if failed, ok := n.Result.(rule.Failed); ok {
			for _, f := range failed.Failures {
				out[i].Failures = append(out[i].Failures, Failure{Message: f.Message, Details: f.Details})
			}
		}
	}
	return out
}

// JSON writes r as an indented JSON document.
func JSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(r))
}

// YAML writes r as a YAML document.
func YAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(r)); err != nil {
		return err
	}
	return enc.Close()
}
