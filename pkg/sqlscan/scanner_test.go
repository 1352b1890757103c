package sqlscan

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/dbtstyle/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestScan_RoundTrip(t *testing.T) {
	inputs := []string{
		"select 1",
		"with a as (select * from {{ ref('x') }})\nselect * from a\n",
		"select 'it''s', \"Col\", `tick` -- trailing\n/* block */ from t;",
		"{% if is_incremental() %}where x > (select max(x) from {{ this }}){% endif %}",
		"select 1.5e10, .5, a::int, b <> c, d != e, f || g, h->>'k'",
	}
	for _, in := range inputs {
		tokens, errs := Scan(in)
		assert.Empty(t, errs, in)
		var sb strings.Builder
		for _, tok := range tokens {
			sb.WriteString(tok.Text)
		}
		assert.Equal(t, in, sb.String())
	}
}

func TestScan_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			name:  "keywords and identifiers",
			input: "select id from orders",
			want: []token.Kind{
				token.KEYWORD, token.WHITESPACE, token.IDENT, token.WHITESPACE,
				token.KEYWORD, token.WHITESPACE, token.IDENT,
			},
		},
		{
			name:  "jinja blocks",
			input: "{{ ref('a') }}{% if x %}{# note #}",
			want:  []token.Kind{token.JINJA_EXPR, token.JINJA_STMT, token.JINJA_COMMENT},
		},
		{
			name:  "comments",
			input: "-- hi\n/* there */",
			want:  []token.Kind{token.COMMENT, token.NEWLINE, token.COMMENT},
		},
		{
			name:  "quoted",
			input: `'a' "b" ` + "`c`",
			want: []token.Kind{
				token.STRING, token.WHITESPACE, token.QUOTED_IDENT, token.WHITESPACE, token.QUOTED_IDENT,
			},
		},
		{
			name:  "multi-char punctuation",
			input: "a::b",
			want:  []token.Kind{token.IDENT, token.PUNCT, token.IDENT},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, errs := Scan(tt.input)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, kinds(tokens))
		})
	}
}

func TestScan_Positions(t *testing.T) {
	tokens, _ := Scan("select\n    id")
	sig := Significant(tokens)
	require.Len(t, sig, 2)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, sig[0].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 5, Offset: 11}, sig[1].Pos)
	assert.Equal(t, 13, sig[1].End.Offset)
}

func TestScan_Unterminated(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"select 'abc", "unterminated string"},
		{"select {{ ref('a')", "unterminated Jinja expression"},
		{"{% if x", "unterminated Jinja statement"},
		{"/* never", "unterminated block comment"},
		{`select "col`, "unterminated quoted identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			tokens, errs := Scan(tt.input)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.msg, errs[0].Message)
			assert.NotEmpty(t, tokens)
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
	assert.Empty(t, SplitLines(""))
}

func TestKeywordSets(t *testing.T) {
	assert.True(t, IsKeyword("SELECT"))
	assert.False(t, IsKeyword("customer_id"))
	assert.True(t, IsReserved("order"))
	assert.True(t, IsReserved("Date"))
	assert.False(t, IsReserved("order_date"))
	assert.True(t, IsAggregate("COUNT"))
	assert.True(t, IsAggregate("row_number"))
	assert.False(t, IsAggregate("coalesce"))
}
