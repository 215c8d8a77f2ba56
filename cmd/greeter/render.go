package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skufinskiy/itnelep-tools/pkg/fio"
	"github.com/skufinskiy/itnelep-tools/pkg/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(92)
)

func statusBadge(s pipeline.Status) string {
	switch s {
	case pipeline.StatusResolvedWithPosition:
		return okStyle.Render("✔ " + string(s))
	case pipeline.StatusResolvedNoPosition:
		return warnStyle.Render("● " + string(s))
	default:
		return errStyle.Render("✖ " + string(s))
	}
}

// renderCard draws one leader's result.
func renderCard(r pipeline.Result, l pipeline.Leader) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("#"+strconv.Itoa(r.Index+1)+" "+oneLine(r.Label)) + "\n")
	b.WriteString(statusBadge(r.Status))
	if r.Degraded {
		b.WriteString(" " + warnStyle.Render("(nominative only)"))
	}
	b.WriteString("\n")
	if r.Status == pipeline.StatusUnresolved {
		b.WriteString(dimStyle.Render(unresolvedHint(l.Match)))
		return cardStyle.Render(b.String())
	}
	b.WriteString(titleStyle.Render(r.Title) + "\n")
	if r.PositionSource != pipeline.SourceNone {
		b.WriteString(dimStyle.Render("position from "+string(r.PositionSource)) + "\n")
	}
	for i, g := range r.Greetings {
		fmt.Fprintf(&b, "\n%d. %s", i+1, g)
	}
	return cardStyle.Render(b.String())
}

func unresolvedHint(m fio.Match) string {
	switch m.Status {
	case fio.StatusAmbiguous:
		return fmt.Sprintf("several people share this surname (score %d); pick one with --pick", m.Score)
	case fio.StatusBelowThreshold:
		return fmt.Sprintf("best score %d is below the threshold; pick one with --pick, or --pick N=@label for the label's name", m.Score)
	case fio.StatusNoCandidates:
		return "no names found in the notes; --pick N=@label uses the label's name"
	case fio.StatusEmptyLabel:
		return "label has no words to match"
	}
	return "picked manually"
}

func writeCards(w io.Writer, sess *pipeline.Session, results []pipeline.Result) {
	leaders := sess.Leaders()
	for _, r := range results {
		fmt.Fprintln(w, renderCard(r, leaders[r.Index]))
	}
}

func writeCandidates(w io.Writer, sess *pipeline.Session) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("People in notes (%d)", len(sess.Candidates()))))
	for _, c := range sess.Candidates() {
		fmt.Fprintf(w, "  %-40s %s\n", c.DisplayName, dimStyle.Render("line "+strconv.Itoa(c.Line+1)))
	}
}

func writeContext(w io.Writer, lines []fio.ContextLine, center int) {
	for _, cl := range lines {
		marker := "  "
		if cl.N == center {
			marker = "> "
		}
		fmt.Fprintf(w, "  %s%4d  %s\n", marker, cl.N+1, cl.Text)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
