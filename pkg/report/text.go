package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/papercomputeco/sucker/pkg/analysis"
	"github.com/papercomputeco/sucker/pkg/cliui"
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("240")),
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("246")).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
	}
}

// Text writes rep as styled text tables.
func Text(w io.Writer, rep *analysis.Report, opts Options) error {
	st := newStyles(cliui.NewRenderer(w, opts.Color))

	var b strings.Builder
	b.WriteString(st.title.Render(title))
	b.WriteString("\n")
	for _, s := range sections(rep, opts.limit()) {
		b.WriteString("\n")
		b.WriteString(st.section.Render(strings.ToUpper(s.title)))
		b.WriteString("\n")
		for _, line := range s.lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		if len(s.headers) > 0 {
			b.WriteString(st.table(s.headers, s.rows))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (st styles) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.muted).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			return st.cell
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}
