package report

import (
	"strings"
)

func markdown(secs []section) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n")
	for _, s := range secs {
		b.WriteString("\n## " + s.title + "\n\n")
		for _, line := range s.lines {
			b.WriteString("- " + line + "\n")
		}
		if len(s.headers) == 0 {
			continue
		}
		if len(s.lines) > 0 {
			b.WriteString("\n")
		}
		writeRow(&b, s.headers)
		sep := make([]string, len(s.headers))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(&b, sep)
		for _, r := range s.rows {
			writeRow(&b, r)
		}
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// escapeCell keeps chat text from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
