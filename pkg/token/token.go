// Package token defines the lexical tokens produced when scanning dbt model
// files: SQL words and punctuation interleaved with opaque Jinja blocks.
package token

import "strings"

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	ILLEGAL

	WHITESPACE // spaces, tabs, carriage returns
	NEWLINE    // \n
	COMMENT    // -- line comment or /* block comment */

	IDENT        // unquoted identifier
	QUOTED_IDENT // "quoted" or `quoted` identifier
	KEYWORD      // reserved or well-known SQL word
	NUMBER       // 123, 45.67, 1e10
	STRING       // 'hello'
	PUNCT        // , ( ) . ; and operators

	JINJA_EXPR    // {{ ... }}
	JINJA_STMT    // {% ... %}
	JINJA_COMMENT // {# ... #}
)

var kindNames = map[Kind]string{
	EOF:           "EOF",
	ILLEGAL:       "ILLEGAL",
	WHITESPACE:    "WHITESPACE",
	NEWLINE:       "NEWLINE",
	COMMENT:       "COMMENT",
	IDENT:         "IDENT",
	QUOTED_IDENT:  "QUOTED_IDENT",
	KEYWORD:       "KEYWORD",
	NUMBER:        "NUMBER",
	STRING:        "STRING",
	PUNCT:         "PUNCT",
	JINJA_EXPR:    "JINJA_EXPR",
	JINJA_STMT:    "JINJA_STMT",
	JINJA_COMMENT: "JINJA_COMMENT",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is a single lexical unit with its source span.
type Token struct {
	Kind Kind
	Text string
	Pos  Position // first byte
	End  Position // one past the last byte
}

// IsTrivia reports whether the token carries no SQL meaning
// (whitespace, newlines, comments and Jinja comments).
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case WHITESPACE, NEWLINE, COMMENT, JINJA_COMMENT:
		return true
	}
	return false
}

// IsJinja reports whether the token is any Jinja block.
func (t Token) IsJinja() bool {
	return t.Kind == JINJA_EXPR || t.Kind == JINJA_STMT || t.Kind == JINJA_COMMENT
}

// IsWord reports whether the token is an identifier or keyword.
func (t Token) IsWord() bool {
	return t.Kind == IDENT || t.Kind == KEYWORD
}

// Is reports whether the token is the keyword kw (case-insensitive).
func (t Token) Is(kw string) bool {
	return t.Kind == KEYWORD && strings.EqualFold(t.Text, kw)
}

// IsPunct reports whether the token is the punctuation p.
func (t Token) IsPunct(p string) bool {
	return t.Kind == PUNCT && t.Text == p
}

// Lower returns the lowercased token text.
func (t Token) Lower() string {
	return strings.ToLower(t.Text)
}
