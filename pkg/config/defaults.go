package config

import "slices"

const (
	defaultDataDir    = "."
	defaultPattern    = "session-*.json"
	defaultFormat     = "text"
	defaultWidth      = 100
	defaultExcerptLen = 200
)

// Report formats understood by the report package.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Input: InputConfig{
			DataDir: defaultDataDir,
			Pattern: defaultPattern,
		},
		Report: ReportConfig{
			Format: defaultFormat,
			Width:  defaultWidth,
			Pretty: true,
		},
		Analysis: AnalysisConfig{
			ExcerptLen: defaultExcerptLen,
		},
	}
}

// ValidFormats returns the recognized report format names.
func ValidFormats() []string {
	return []string{FormatText, FormatMarkdown, FormatJSON}
}

func IsValidFormat(name string) bool {
	return slices.Contains(ValidFormats(), name)
}
