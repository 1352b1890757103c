// Package sqlscan tokenizes dbt model files and recovers the coarse structure
// style rules need: the CTE outline and the select statements in it.
//
// It is deliberately not a SQL parser. Jinja blocks are kept as opaque tokens,
// unknown syntax never fails, and every token carries its source position so
// rules can report precise locations.
package sqlscan

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// ScanError describes an unterminated string, comment or Jinja block.
type ScanError struct {
	Pos     token.Position
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Scanner converts model source into tokens.
type Scanner struct {
	src    string
	offset int
	line   int
	col    int

	tokens []token.Token
	errs   []*ScanError
}

// Scan tokenizes src. The returned tokens always cover the whole input, so
// concatenating their Text reproduces src exactly.
func Scan(src string) ([]token.Token, []*ScanError) {
	s := &Scanner{src: src, line: 1, col: 1}
	s.run()
	return s.tokens, s.errs
}

func (s *Scanner) pos() token.Position {
	return token.Position{Line: s.line, Column: s.col, Offset: s.offset}
}

func (s *Scanner) peek(n int) byte {
	if s.offset+n >= len(s.src) {
		return 0
	}
	return s.src[s.offset+n]
}

func (s *Scanner) hasPrefix(p string) bool {
	return strings.HasPrefix(s.src[s.offset:], p)
}

// advance moves past n bytes, tracking line and column.
func (s *Scanner) advance(n int) {
	for i := 0; i < n && s.offset < len(s.src); i++ {
		if s.src[s.offset] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
		s.offset++
	}
}

func (s *Scanner) emit(kind token.Kind, start token.Position) {
	s.tokens = append(s.tokens, token.Token{
		Kind: kind,
		Text: s.src[start.Offset:s.offset],
		Pos:  start,
		End:  s.pos(),
	})
}

func (s *Scanner) fail(pos token.Position, msg string) {
	s.errs = append(s.errs, &ScanError{Pos: pos, Message: msg})
}

func (s *Scanner) run() {
	for s.offset < len(s.src) {
		start := s.pos()
		c := s.src[s.offset]

		switch {
		case c == '\n':
			s.advance(1)
			s.emit(token.NEWLINE, start)
		case c == ' ' || c == '\t' || c == '\r' || c == '\f':
			for s.offset < len(s.src) && strings.IndexByte(" \t\r\f", s.src[s.offset]) >= 0 {
				s.advance(1)
			}
			s.emit(token.WHITESPACE, start)
		case s.hasPrefix("{{"):
			s.scanDelimited("}}", token.JINJA_EXPR, start, "unterminated Jinja expression")
		case s.hasPrefix("{%"):
			s.scanDelimited("%}", token.JINJA_STMT, start, "unterminated Jinja statement")
		case s.hasPrefix("{#"):
			s.scanDelimited("#}", token.JINJA_COMMENT, start, "unterminated Jinja comment")
		case s.hasPrefix("--"):
			for s.offset < len(s.src) && s.src[s.offset] != '\n' {
				s.advance(1)
			}
			s.emit(token.COMMENT, start)
		case s.hasPrefix("/*"):
			s.scanDelimited("*/", token.COMMENT, start, "unterminated block comment")
		case c == '\'':
			s.scanQuoted('\'', token.STRING, start, "unterminated string")
		case c == '"':
			s.scanQuoted('"', token.QUOTED_IDENT, start, "unterminated quoted identifier")
		case c == '`':
			s.scanQuoted('`', token.QUOTED_IDENT, start, "unterminated quoted identifier")
		case isDigit(c) || (c == '.' && isDigit(s.peek(1))):
			s.scanNumber(start)
		case isIdentStart(c):
			for s.offset < len(s.src) && isIdentPart(s.src[s.offset]) {
				s.advance(1)
			}
			kind := token.IDENT
			if IsKeyword(s.src[start.Offset:s.offset]) {
				kind = token.KEYWORD
			}
			s.emit(kind, start)
		default:
			s.advance(punctLen(s.src[s.offset:]))
			s.emit(token.PUNCT, start)
		}
	}
}

func (s *Scanner) scanDelimited(closer string, kind token.Kind, start token.Position, msg string) {
	s.advance(2)
	idx := strings.Index(s.src[s.offset:], closer)
	if idx < 0 {
		s.advance(len(s.src) - s.offset)
		s.fail(start, msg)
		s.emit(kind, start)
		return
	}
	s.advance(idx + len(closer))
	s.emit(kind, start)
}

func (s *Scanner) scanQuoted(q byte, kind token.Kind, start token.Position, msg string) {
	s.advance(1)
	for s.offset < len(s.src) {
		if s.src[s.offset] == q {
			// doubled quote is an escaped quote
			if s.peek(1) == q {
				s.advance(2)
				continue
			}
			s.advance(1)
			s.emit(kind, start)
			return
		}
		if s.src[s.offset] == '\\' && q == '\'' {
			s.advance(2)
			continue
		}
		s.advance(1)
	}
	s.fail(start, msg)
	s.emit(kind, start)
}

func (s *Scanner) scanNumber(start token.Position) {
	for s.offset < len(s.src) && (isDigit(s.src[s.offset]) || s.src[s.offset] == '.') {
		s.advance(1)
	}
	if c := s.peek(0); c == 'e' || c == 'E' {
		next := s.peek(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peek(2))) {
			s.advance(2)
			for s.offset < len(s.src) && isDigit(s.src[s.offset]) {
				s.advance(1)
			}
		}
	}
	s.emit(token.NUMBER, start)
}

var multiCharPuncts = []string{"::", "<=", ">=", "<>", "!=", "||", "=>", "->>", "->"}

func punctLen(rest string) int {
	for _, p := range multiCharPuncts {
		if strings.HasPrefix(rest, p) {
			return len(p)
		}
	}
	return 1
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}

// Significant returns the tokens that carry SQL meaning, dropping trivia.
func Significant(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}

// SplitLines splits source text into lines without terminators.
func SplitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
