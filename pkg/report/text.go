package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/standardize/pkg/engine"
	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/rule"
)

const (
	iconPassed = "✓"
	iconFailed = "✗"
)

// styles is the text palette, bound to a renderer so that color is only
// emitted when the destination supports it.
type styles struct {
	project lipgloss.Style
	number  lipgloss.Style
	passed  lipgloss.Style
	failed  lipgloss.Style
	path    lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		project: r.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		number:  r.NewStyle().Foreground(lipgloss.Color("75")),
		passed:  r.NewStyle().Foreground(lipgloss.Color("35")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("167")),
		path:    r.NewStyle().Foreground(lipgloss.Color("220")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Text writes r as a human-readable tree, one section per project in
// project name order. Each result is indented by its depth in the tree.
func Text(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)
	st := newStyles(w)

	for _, a := range sortedAnalyses(r) {
		writeHeader(bw, st, a.ProjectName)

		total, failed := a.Stats()
		fmt.Fprintf(bw, "Analyzed project in %s ms. Ran %s rule(s), %s failed.\n\n",
			st.number.Render(fmt.Sprint(a.ElapsedTime.Milliseconds())),
			st.number.Render(fmt.Sprint(total)),
			st.number.Render(fmt.Sprint(failed)))

		engine.Walk(a.Results, func(n *engine.ResultNode, depth int) {
			writeResult(bw, st, n.Result, depth)
		})
	}

	for _, pe := range sortedErrors(r) {
		writeHeader(bw, st, pe.ProjectName)
		fmt.Fprintf(bw, "%s Could not analyze project: %s\n", st.failed.Render(iconFailed), errors.UserMessage(pe.Err))
		if code := errors.IOCode(pe.Err); code != "" {
			fmt.Fprintf(bw, "  %s\n", st.dim.Render("("+code+")"))
		}
	}

	fmt.Fprintln(bw)
	return bw.Flush()
}

func writeHeader(w io.Writer, st styles, name string) {
	fmt.Fprintf(w, "\n%s\n%s\n\n", st.project.Render(name), st.project.Render(strings.Repeat("-", len(name))))
}

func writeResult(w io.Writer, st styles, res rule.Result, depth int) {
	indent := strings.Repeat("  ", depth)
	failed, isFailed := res.(rule.Failed)
	if !isFailed {
		fmt.Fprintf(w, "%s%s %s\n", indent, st.passed.Render(iconPassed), res.Description())
		return
	}

	fmt.Fprintf(w, "%s%s %s\n", indent, st.failed.Render(iconFailed), res.Description())
	for _, f := range failed.Failures {
		line := indent + "    - " + f.Message
		if p := f.EntryPath(); p != "" {
			line += " " + st.path.Render("("+p+")")
		}
		fmt.Fprintln(w, line)
	}
}
