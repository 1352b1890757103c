package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	FilePath lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Hint     lipgloss.Style
}

// NewStyles builds styles bound to w. Off a terminal the ASCII profile is
// used, so styled strings render without escape codes.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if isTTY {
		lr.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:     lr.NewStyle().Bold(true),
		Muted:    lr.NewStyle().Foreground(lipgloss.Color("8")),
		FilePath: lr.NewStyle().Bold(true).Underline(true),
		Success:  lr.NewStyle().Foreground(lipgloss.Color("10")),
		Error:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning:  lr.NewStyle().Foreground(lipgloss.Color("11")),
		Info:     lr.NewStyle().Foreground(lipgloss.Color("12")),
		Hint:     lr.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Severity returns the style for a severity.
func (s *Styles) Severity(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	case core.SeverityInfo:
		return s.Info
	default:
		return s.Hint
	}
}

// Title capitalizes each word of a group or section name.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
