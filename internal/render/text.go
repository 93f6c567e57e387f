package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/valpere/transcheck/internal/report"
	"github.com/valpere/transcheck/internal/validator"
)

type styles struct {
	title lipgloss.Style
	head  lipgloss.Style
	ok    lipgloss.Style
	bad   lipgloss.Style
	dim   lipgloss.Style
	word  lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{title: plain, head: plain, ok: plain, bad: plain, dim: plain, word: plain}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Underline(true),
		head:  lipgloss.NewStyle().Bold(true),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		bad:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		word:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// Text writes a human-readable report: the summary first, then one block
// per output.
func Text(w io.Writer, rep report.Report, opts Options) error {
	st := newStyles(opts.Color)
	var b strings.Builder

	fmt.Fprintln(&b, st.title.Render("Transition QA report"))
	fmt.Fprintf(&b, "Total outputs: %d   With violations: %s\n\n",
		rep.TotalOutputs, countStyle(st, rep.OutputsWithViolations).Render(strconv.Itoa(rep.OutputsWithViolations)))

	fmt.Fprintln(&b, st.head.Render("Summary"))
	rs := rep.ViolationsSummary.Repetition
	fmt.Fprintf(&b, "  %-16s count %s  outputs %s\n", validator.KindRepetition,
		countStyle(st, rs.Count).Render(strconv.Itoa(rs.Count)), formatIDs(rs.AffectedOutputs))
	if len(rs.ViolatedWords) > 0 {
		fmt.Fprintf(&b, "  %-16s %s\n", "", "words: "+renderWords(st, rs.ViolatedWords))
	}
	es := rep.ViolationsSummary.EnfinMisplaced
	fmt.Fprintf(&b, "  %-16s count %s  outputs %s\n", validator.KindEnfinMisplaced,
		countStyle(st, es.Count).Render(strconv.Itoa(es.Count)), formatIDs(es.AffectedOutputs))

	for _, d := range rep.Details {
		if opts.OnlyViolations && d.Violations.Empty() {
			continue
		}
		b.WriteString("\n")
		writeDetail(&b, st, d)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDetail(b *strings.Builder, st styles, d report.Detail) {
	mark := st.ok.Render("ok")
	if !d.Violations.Empty() {
		mark = st.bad.Render("FAIL") + " " + st.dim.Render("("+strings.Join(d.Violations.Kinds(), ", ")+")")
	}
	fmt.Fprintf(b, "%s  %s\n", st.head.Render(fmt.Sprintf("Output %d", d.OutputID)), mark)

	if len(d.Transitions) == 0 {
		fmt.Fprintf(b, "  %s\n", st.dim.Render("(no transitions)"))
	}
	for i, t := range d.Transitions {
		fmt.Fprintf(b, "  %d. %s\n", i+1, strconv.Quote(t))
	}

	if len(d.Violations.Repetition) > 0 {
		fmt.Fprintf(b, "  %s: %s\n", validator.KindRepetition, renderWords(st, d.Violations.Repetition))
	}
	if d.Violations.EnfinMisplaced {
		fmt.Fprintf(b, "  %s: %s\n", validator.KindEnfinMisplaced, st.bad.Render("true"))
	}
}

func countStyle(st styles, n int) lipgloss.Style {
	if n > 0 {
		return st.bad
	}
	return st.ok
}

func renderWords(st styles, words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = st.word.Render(w)
	}
	return strings.Join(parts, ", ")
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
