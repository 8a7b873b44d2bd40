package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/fwlint/pkg/core"
)

var (
	colorPass  = lipgloss.Color("#8BC34A")
	colorFail  = lipgloss.Color("#e53935")
	colorMuted = lipgloss.Color("#6c7a89")
)

type styles struct {
	plain   bool
	pass    lipgloss.Style
	fail    lipgloss.Style
	path    lipgloss.Style
	detail  lipgloss.Style
	summary lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		return styles{plain: true}
	}
	return styles{
		pass:    r.NewStyle().Foreground(colorPass).Bold(true),
		fail:    r.NewStyle().Foreground(colorFail).Bold(true),
		path:    r.NewStyle(),
		detail:  r.NewStyle().Foreground(colorMuted),
		summary: r.NewStyle().Bold(true),
	}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return style.Render(text)
}

// WriteText writes one PASS or FAIL line per document, the violations of
// each failed document indented below it, the layout findings and a summary.
func WriteText(w io.Writer, r *core.Report, color bool) error {
	st := newStyles(w, color)
	bw := bufio.NewWriter(w)

	for _, res := range r.Results {
		label := st.render(st.pass, "PASS")
		if !res.Passed() {
			label = st.render(st.fail, "FAIL")
		}
		fmt.Fprintf(bw, "%s %s\n", label, st.render(st.path, res.Path))
		for _, v := range res.Violations {
			fmt.Fprintf(bw, "  %s\n", st.render(st.detail, v.String()))
		}
	}

	for _, f := range r.Layout {
		label := st.render(st.pass, "PASS")
		if !f.Passed {
			label = st.render(st.fail, "FAIL")
		}
		fmt.Fprintf(bw, "%s layout %s: %s\n", label, f.Check, f.Message)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, st.render(st.summary, fmt.Sprintf("Total: %d  Passed: %d  Failed: %d", r.Total, r.Passed, r.Failed)))
	if len(r.Layout) > 0 {
		failed := r.LayoutFailed()
		fmt.Fprintln(bw, st.render(st.summary, fmt.Sprintf("Layout: %d checks  Passed: %d  Failed: %d", len(r.Layout), len(r.Layout)-failed, failed)))
	}
	return bw.Flush()
}
