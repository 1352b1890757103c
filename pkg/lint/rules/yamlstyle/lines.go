package yamlstyle

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// line is a line of a properties file that carries YAML structure: not
// blank, not only a comment, and not inside a block scalar.
type line struct {
	Index   int // zero-based line index
	Indent  int // leading spaces
	Tabs    bool
	Content string // text after the indent, comment removed
}

// Pos returns the position of the first non-blank character.
func (l line) Pos() token.Position {
	return token.Position{Line: l.Index + 1, Column: l.Indent + 1}
}

// IsItem reports whether the line starts a list item.
func (l line) IsItem() bool {
	return l.Content == "-" || strings.HasPrefix(l.Content, "- ")
}

var (
	blockScalar = regexp.MustCompile(`(^|:\s*|^-\s+)[|>][-+0-9]*$`)
	mappingItem = regexp.MustCompile(`^-\s+(?:"[^"]*"|'[^']*'|[^\s:"'][^:]*):(?:\s|$)`)
)

// IsMappingItem reports whether the line starts a list item holding a mapping.
func (l line) IsMappingItem() bool {
	return mappingItem.MatchString(l.Content)
}

// structure returns the structural lines of a file.
func structure(lines []string) []line {
	var out []line
	scalarIndent := -1
	for i, raw := range lines {
		trimmed := strings.TrimLeft(raw, " \t")
		lead := raw[:len(raw)-len(trimmed)]
		indent := len(lead)

		if scalarIndent >= 0 {
			if strings.TrimSpace(raw) == "" || indent > scalarIndent {
				continue
			}
			scalarIndent = -1
		}

		content := strings.TrimRight(lint.StripYAMLComment(trimmed), " \t")
		if content == "" {
			continue
		}
		out = append(out, line{Index: i, Indent: indent, Tabs: strings.Contains(lead, "\t"), Content: content})
		if blockScalar.MatchString(content) {
			scalarIndent = indent
		}
	}
	return out
}

// blankBefore reports whether a blank line separates lines[idx] from the
// previous non-comment line.
func blankBefore(lines []string, idx int) bool {
	for k := idx - 1; k >= 0; k-- {
		t := strings.TrimSpace(lines[k])
		if t == "" {
			return true
		}
		if !strings.HasPrefix(t, "#") {
			return false
		}
	}
	return false
}

func diagAt(pos token.Position, msg string) lint.Diagnostic {
	return lint.Diagnostic{Message: msg, Pos: pos, ImpactScore: lint.ImpactLow.Int()}
}
