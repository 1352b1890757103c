package lint

import (
	"testing"

	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
	"github.com/stretchr/testify/assert"
)

func TestSQLSuppressions(t *testing.T) {
	src := `select
    a,  -- noqa
    b,  -- noqa: SQ03, sq05
    c,  -- plain comment
    d   {# noqa: JN01 #}
from t  -- NOQA:SQ12 because the join is fine
`
	tokens, errs := sqlscan.Scan(src)
	assert.Empty(t, errs)

	s := SQLSuppressions(tokens)

	assert.True(t, s.Suppressed(2, "SQ03"))
	assert.True(t, s.Suppressed(2, "NM01"), "bare noqa silences every rule")

	assert.True(t, s.Suppressed(3, "SQ03"))
	assert.True(t, s.Suppressed(3, "SQ05"))
	assert.False(t, s.Suppressed(3, "SQ04"))

	assert.False(t, s.Suppressed(4, "SQ03"))

	assert.True(t, s.Suppressed(5, "jn01"))
	assert.False(t, s.Suppressed(5, "JN02"))

	assert.True(t, s.Suppressed(6, "SQ12"))
	assert.False(t, s.Suppressed(6, "SQ01"), "trailing words are not rule IDs")

	assert.False(t, s.Suppressed(1, "SQ03"))
}

func TestYAMLSuppressions(t *testing.T) {
	lines := []string{
		"models:",
		"  - name: a  # noqa",
		"    description: 'has a # noqa inside'",
		"    columns: # noqa: YM03",
		"#noqa",
		"url: http://x#noqa",
	}
	s := YAMLSuppressions(lines)

	assert.True(t, s.Suppressed(2, "YM01"))
	assert.False(t, s.Suppressed(3, "YM01"), "hash inside quotes is not a comment")
	assert.True(t, s.Suppressed(4, "YM03"))
	assert.False(t, s.Suppressed(4, "YM01"))
	assert.True(t, s.Suppressed(5, "YM04"))
	assert.False(t, s.Suppressed(6, "YM01"))
}

func TestYAMLCommentStart(t *testing.T) {
	tests := map[string]int{
		"# comment":                      0,
		"a: b # c":                       5,
		"a: 'b # c'":                     -1,
		`a: "b # c" # d`:                 11,
		"description: Customer's id # x": 27,
		"url: x#y":                       -1,
	}
	for line, want := range tests {
		assert.Equal(t, want, yamlCommentStart(line), line)
	}
}
