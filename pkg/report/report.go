// Package report renders analysis results as text, markdown or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/papercomputeco/sucker/pkg/analysis"
	"github.com/papercomputeco/sucker/pkg/cliui"
	"github.com/papercomputeco/sucker/pkg/config"
)

// DefaultLimit bounds the case lists printed in text and markdown reports.
const DefaultLimit = 10

type Options struct {
	// Format is one of config.FormatText, config.FormatMarkdown or
	// config.FormatJSON. Empty means text.
	Format string

	// Width wraps rendered markdown.
	Width int

	// Color enables lipgloss styling for text and glamour rendering for
	// markdown. Set it only when writing to a terminal.
	Color bool

	// Limit bounds listed cases; zero uses DefaultLimit, negative lists all.
	Limit int
}

// Write renders rep to w in the requested format.
func Write(w io.Writer, rep *analysis.Report, opts Options) error {
	switch opts.Format {
	case "", config.FormatText:
		return Text(w, rep, opts)
	case config.FormatMarkdown:
		return Markdown(w, rep, opts)
	case config.FormatJSON:
		return JSON(w, rep)
	default:
		return fmt.Errorf("unknown report format %q (available: %v)", opts.Format, config.ValidFormats())
	}
}

// JSON writes rep as indented JSON. Case lists are never truncated.
func JSON(w io.Writer, rep *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// Markdown writes rep as a markdown document, rendered with glamour when
// opts.Color is set.
func Markdown(w io.Writer, rep *analysis.Report, opts Options) error {
	doc := markdown(sections(rep, opts.limit()))
	if opts.Color {
		rendered, err := cliui.RenderMarkdown(doc, opts.Width)
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		doc = rendered
	}
	_, err := io.WriteString(w, doc)
	return err
}

func (o Options) limit() int {
	if o.Limit == 0 {
		return DefaultLimit
	}
	return o.Limit
}
