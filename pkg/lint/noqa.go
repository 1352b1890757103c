package lint

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// noqaPattern matches "noqa" optionally followed by ": ID, ID".
var noqaPattern = regexp.MustCompile(`(?i)\bnoqa\b(?:\s*:\s*([a-z]+\d+(?:\s*,\s*[a-z]+\d+)*))?`)

// Suppressions maps a line number to the rule IDs silenced on it.
// A nil set silences every rule.
type Suppressions map[int]map[string]bool

// Suppressed reports whether ruleID is silenced on line.
func (s Suppressions) Suppressed(line int, ruleID string) bool {
	ids, ok := s[line]
	if !ok {
		return false
	}
	return ids == nil || ids[strings.ToUpper(ruleID)]
}

func (s Suppressions) add(line int, comment string) {
	m := noqaPattern.FindStringSubmatch(comment)
	if m == nil {
		return
	}
	if strings.TrimSpace(m[1]) == "" {
		s[line] = nil
		return
	}
	if existing, ok := s[line]; ok && existing == nil {
		return
	}
	if s[line] == nil {
		s[line] = make(map[string]bool)
	}
	for _, id := range strings.Split(m[1], ",") {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			s[line][id] = true
		}
	}
}

// SQLSuppressions collects "-- noqa" and "{# noqa #}" comments from a token stream.
func SQLSuppressions(tokens []token.Token) Suppressions {
	s := make(Suppressions)
	for _, t := range tokens {
		switch {
		case t.Kind == token.COMMENT && strings.HasPrefix(t.Text, "--"):
			s.add(t.Pos.Line, t.Text[2:])
		case t.Kind == token.JINJA_COMMENT:
			s.add(t.Pos.Line, strings.TrimSuffix(t.Text[2:], "#}"))
		}
	}
	return s
}

// YAMLSuppressions collects "# noqa" comments from properties file lines.
func YAMLSuppressions(lines []string) Suppressions {
	s := make(Suppressions)
	for i, line := range lines {
		if idx := yamlCommentStart(line); idx >= 0 {
			s.add(i+1, line[idx+1:])
		}
	}
	return s
}

// StripYAMLComment returns line without its trailing comment, if any.
func StripYAMLComment(line string) string {
	if idx := yamlCommentStart(line); idx >= 0 {
		return line[:idx]
	}
	return line
}

// yamlCommentStart returns the index of the "#" opening a YAML comment, or -1.
// A comment starts at the beginning of the line or after whitespace, outside quotes.
func yamlCommentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case (c == '\'' || c == '"') && (i == 0 || strings.IndexByte(" \t:[{,-", line[i-1]) >= 0):
			quote = c
		case c == '#' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t'):
			return i
		}
	}
	return -1
}
