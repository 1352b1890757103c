package sqlscan

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// importCall matches ref( and source( inside a Jinja expression.
var importCall = regexp.MustCompile(`\b(ref|source)\s*\(`)

// IsImportExpr reports whether a Jinja expression token calls ref() or source().
func IsImportExpr(t token.Token) bool {
	return t.Kind == token.JINJA_EXPR && importCall.MatchString(t.Text)
}

// BuildOutline recovers the with clause and final statement from a token stream.
// Malformed input never fails: whatever cannot be read as a CTE becomes part
// of the final statement.
func BuildOutline(tokens []token.Token) core.Outline {
	sig := Significant(tokens)

	i := 0
	for i < len(sig) && sig[i].IsJinja() {
		i++
	}

	var out core.Outline
	if i >= len(sig) || !sig[i].Is("with") {
		out.Final = trimStatementEnd(sig[i:])
		return out
	}

	out.HasWith = true
	i++
	if i < len(sig) && sig[i].Is("recursive") {
		i++
	}

	for i < len(sig) {
		cte, next, ok := readCTE(sig, i)
		if !ok {
			break
		}
		out.CTEs = append(out.CTEs, cte)
		i = next
		if i < len(sig) && sig[i].IsPunct(",") {
			i++
			continue
		}
		break
	}

	out.Final = trimStatementEnd(sig[i:])
	return out
}

// readCTE reads `name [(cols)] as [not] [materialized] ( body )` starting at i.
func readCTE(sig []token.Token, i int) (core.CTE, int, bool) {
	if i >= len(sig) {
		return core.CTE{}, i, false
	}
	nameTok := sig[i]
	if nameTok.Kind != token.IDENT && nameTok.Kind != token.QUOTED_IDENT && nameTok.Kind != token.KEYWORD {
		return core.CTE{}, i, false
	}
	i++

	if i < len(sig) && sig[i].IsPunct("(") {
		end := MatchParen(sig, i)
		if end < 0 {
			return core.CTE{}, i, false
		}
		i = end + 1
	}

	if i >= len(sig) || !sig[i].Is("as") {
		return core.CTE{}, i, false
	}
	i++
	for i < len(sig) && (sig[i].Is("not") || sig[i].Is("materialized")) {
		i++
	}

	if i >= len(sig) || !sig[i].IsPunct("(") {
		return core.CTE{}, i, false
	}
	end := MatchParen(sig, i)
	if end < 0 {
		return core.CTE{}, i, false
	}

	body := sig[i+1 : end]
	cte := core.CTE{
		Name: unquote(nameTok.Text),
		Pos:  nameTok.Pos,
		Body: body,
	}
	for _, t := range body {
		if IsImportExpr(t) {
			cte.Imports++
		}
	}
	return cte, end + 1, true
}

// MatchParen returns the index of the ")" matching the "(" at open, or -1.
func MatchParen(sig []token.Token, open int) int {
	depth := 0
	for j := open; j < len(sig); j++ {
		switch {
		case sig[j].IsPunct("("):
			depth++
		case sig[j].IsPunct(")"):
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func trimStatementEnd(sig []token.Token) []token.Token {
	end := len(sig)
	for end > 0 && (sig[end-1].IsPunct(";") || sig[end-1].Kind == token.JINJA_STMT) {
		end--
	}
	return sig[:end]
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// FinalSelectTarget returns the relation name when the final statement is
// exactly `select * from <name>`.
func FinalSelectTarget(final []token.Token) (string, bool) {
	if len(final) != 4 {
		return "", false
	}
	if !final[0].Is("select") || !final[1].IsPunct("*") || !final[2].Is("from") {
		return "", false
	}
	if final[3].Kind != token.IDENT && final[3].Kind != token.QUOTED_IDENT && final[3].Kind != token.KEYWORD {
		return "", false
	}
	return unquote(final[3].Text), true
}

// ResolveColumns returns the output columns of the model, following
// `select *` through CTEs. It returns nil when a star cannot be resolved.
func ResolveColumns(o core.Outline) []string {
	ctes := make(map[string][]token.Token, len(o.CTEs))
	for _, c := range o.CTEs {
		ctes[strings.ToLower(c.Name)] = c.Body
	}
	return resolveColumns(o.Final, ctes, 0)
}

func resolveColumns(stmt []token.Token, ctes map[string][]token.Token, depth int) []string {
	if depth > len(ctes)+1 {
		return nil
	}
	sel, ok := firstTopLevelSelect(stmt)
	if !ok {
		return nil
	}

	var cols []string
	for _, item := range sel.Items {
		if !item.IsStar() {
			name := item.Name()
			if name == "" {
				return nil
			}
			cols = append(cols, name)
			continue
		}
		body, found := starSource(item, sel, ctes)
		if !found {
			return nil
		}
		inner := resolveColumns(body, ctes, depth+1)
		if inner == nil {
			return nil
		}
		cols = append(cols, inner...)
	}
	return cols
}

// starSource finds the CTE body a star item expands from.
func starSource(item SelectItem, sel Select, ctes map[string][]token.Token) ([]token.Token, bool) {
	qualifier := item.StarQualifier()
	for _, t := range sel.Tables {
		if qualifier != "" && !strings.EqualFold(qualifier, t.Alias) && !strings.EqualFold(qualifier, t.Name()) {
			continue
		}
		if qualifier == "" && len(sel.Tables) != 1 {
			return nil, false
		}
		body, ok := ctes[strings.ToLower(t.Name())]
		return body, ok
	}
	return nil, false
}

func firstTopLevelSelect(stmt []token.Token) (Select, bool) {
	for _, s := range Selects(stmt) {
		if s.Depth == 0 {
			return s, true
		}
	}
	return Select{}, false
}
