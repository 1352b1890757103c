package sqlscan

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// Select is one select statement or subquery found in a token stream.
type Select struct {
	Pos   token.Position // position of the select keyword
	Depth int            // parenthesis depth of the select keyword
	Items []SelectItem
	// Tables are the relations in the from clause, in order
	Tables []TableRef
	// GroupBy holds one token slice per group by item
	GroupBy    [][]token.Token
	GroupByPos token.Position
}

// HasJoin reports whether the from clause joins two or more relations.
func (s Select) HasJoin() bool {
	return len(s.Tables) > 1
}

// SelectItem is one comma-separated entry of a select list.
type SelectItem struct {
	Expr       []token.Token
	Alias      string
	AliasPos   token.Position
	ExplicitAs bool
	// Implicit is true when the alias was written without "as"
	Implicit bool
}

// Pos returns the position of the first token of the item.
func (it SelectItem) Pos() token.Position {
	if len(it.Expr) == 0 {
		return it.AliasPos
	}
	return it.Expr[0].Pos
}

// IsStar reports whether the item is * or qualifier.*.
func (it SelectItem) IsStar() bool {
	n := len(it.Expr)
	if n == 0 || !it.Expr[n-1].IsPunct("*") {
		return false
	}
	return n == 1 || (n == 3 && it.Expr[1].IsPunct("."))
}

// StarQualifier returns "t" for t.*, or "" for a bare star.
func (it SelectItem) StarQualifier() string {
	if it.IsStar() && len(it.Expr) == 3 {
		return unquote(it.Expr[0].Text)
	}
	return ""
}

// Name returns the output column name: the alias, or the last part of a
// plain column reference. Expressions without an alias have no name.
func (it SelectItem) Name() string {
	if it.Alias != "" {
		return it.Alias
	}
	n := len(it.Expr)
	if n == 0 {
		return ""
	}
	last := it.Expr[n-1]
	if last.Kind != token.IDENT && last.Kind != token.QUOTED_IDENT && last.Kind != token.KEYWORD {
		return ""
	}
	for i := 0; i < n-1; i++ {
		if i%2 == 1 && !it.Expr[i].IsPunct(".") {
			return ""
		}
	}
	return unquote(last.Text)
}

// IsAggregate reports whether the item calls an aggregate or window function.
func (it SelectItem) IsAggregate() bool {
	for i, t := range it.Expr {
		if t.Is("over") {
			return true
		}
		if t.IsWord() && IsAggregate(t.Text) && i+1 < len(it.Expr) && it.Expr[i+1].IsPunct("(") {
			return true
		}
	}
	return false
}

// TableRef is one relation of a from clause.
type TableRef struct {
	Pos        token.Position
	Relation   []token.Token
	Subquery   bool
	Alias      string
	AliasPos   token.Position
	ExplicitAs bool
	// Join is the lowercased join keyword sequence ("join", "left join", ...)
	// and empty for the first relation or comma-separated ones.
	Join string
}

// Name returns the relation's unqualified name, or "" for subqueries and Jinja.
func (t TableRef) Name() string {
	if t.Subquery || len(t.Relation) == 0 {
		return ""
	}
	last := t.Relation[len(t.Relation)-1]
	if last.Kind == token.IDENT || last.Kind == token.QUOTED_IDENT || last.Kind == token.KEYWORD {
		return unquote(last.Text)
	}
	return ""
}

var selectListEnd = makeSet("from", "where", "group", "having", "order", "limit",
	"qualify", "window", "union", "intersect", "except", "minus", "into")

var fromClauseEnd = makeSet("where", "group", "having", "order", "limit",
	"qualify", "window", "union", "intersect", "except", "minus", "offset", "fetch")

var groupByEnd = makeSet("having", "order", "limit", "qualify", "window",
	"union", "intersect", "except", "minus", "offset", "fetch")

var joinPrefix = makeSet("natural", "left", "right", "full", "inner", "outer",
	"cross", "semi", "anti", "asof", "positional")

// Depths returns the parenthesis depth of every token: tokens inside one pair
// of parentheses have depth 1, and parentheses take their outer depth.
func Depths(sig []token.Token) []int {
	depths := make([]int, len(sig))
	d := 0
	for i, t := range sig {
		if t.IsPunct(")") && d > 0 {
			d--
		}
		depths[i] = d
		if t.IsPunct("(") {
			d++
		}
	}
	return depths
}

// Selects finds every select in a significant-token stream, outermost first
// in source order.
func Selects(sig []token.Token) []Select {
	depths := Depths(sig)
	var out []Select
	for i, t := range sig {
		if t.Is("select") {
			out = append(out, readSelect(sig, depths, i))
		}
	}
	return out
}

func readSelect(sig []token.Token, depths []int, at int) Select {
	d := depths[at]
	sel := Select{Pos: sig[at].Pos, Depth: d}

	atLevel := func(j int) bool { return depths[j] == d }
	ended := func(j int, stop map[string]bool) bool {
		if depths[j] < d || (atLevel(j) && sig[j].IsPunct(";")) {
			return true
		}
		return atLevel(j) && sig[j].Kind == token.KEYWORD && stop[sig[j].Lower()]
	}

	j := at + 1
	for j < len(sig) && atLevel(j) && (sig[j].Is("distinct") || sig[j].Is("all")) {
		j++
		if j < len(sig) && sig[j].Is("on") && j+1 < len(sig) && sig[j+1].IsPunct("(") {
			if end := MatchParen(sig, j+1); end > 0 {
				j = end + 1
			}
		}
	}

	// select list
	var current []token.Token
	for ; j < len(sig) && !ended(j, selectListEnd); j++ {
		if atLevel(j) && sig[j].IsPunct(",") {
			sel.Items = append(sel.Items, newSelectItem(current))
			current = nil
			continue
		}
		if sig[j].Kind == token.JINJA_STMT {
			continue
		}
		current = append(current, sig[j])
	}
	if len(current) > 0 {
		sel.Items = append(sel.Items, newSelectItem(current))
	}

	// from clause
	if j < len(sig) && atLevel(j) && sig[j].Is("from") {
		j = readFrom(sig, depths, j+1, d, &sel)
	}

	// group by
	for ; j < len(sig) && !ended(j, groupByEnd); j++ {
		if !(atLevel(j) && sig[j].Is("group") && j+1 < len(sig) && sig[j+1].Is("by")) {
			continue
		}
		sel.GroupByPos = sig[j].Pos
		j += 2
		var item []token.Token
		for ; j < len(sig) && !ended(j, groupByEnd); j++ {
			if atLevel(j) && sig[j].IsPunct(",") {
				sel.GroupBy = append(sel.GroupBy, item)
				item = nil
				continue
			}
			item = append(item, sig[j])
		}
		if len(item) > 0 {
			sel.GroupBy = append(sel.GroupBy, item)
		}
		break
	}

	return sel
}

func newSelectItem(toks []token.Token) SelectItem {
	item := SelectItem{Expr: toks}
	n := len(toks)
	if n < 2 {
		return item
	}
	last := toks[n-1]
	prev := toks[n-2]

	if prev.Is("as") && (last.IsWord() || last.Kind == token.QUOTED_IDENT) {
		item.Alias = unquote(last.Text)
		item.AliasPos = last.Pos
		item.ExplicitAs = true
		item.Expr = toks[:n-2]
		return item
	}
	if (last.Kind == token.IDENT || last.Kind == token.QUOTED_IDENT) && endsExpression(prev) {
		item.Alias = unquote(last.Text)
		item.AliasPos = last.Pos
		item.Implicit = true
		item.Expr = toks[:n-1]
	}
	return item
}

// endsExpression reports whether t can be the last token of an expression,
// so that an identifier right after it must be an alias.
func endsExpression(t token.Token) bool {
	switch t.Kind {
	case token.IDENT, token.QUOTED_IDENT, token.NUMBER, token.STRING, token.JINJA_EXPR:
		return true
	case token.PUNCT:
		return t.Text == ")"
	case token.KEYWORD:
		switch t.Lower() {
		case "end", "null", "true", "false":
			return true
		}
	}
	return false
}

// readFrom parses relations of a from clause until the clause ends and
// returns the index of the first token after it.
func readFrom(sig []token.Token, depths []int, j, d int, sel *Select) int {
	expectRelation := true
	joinWords := []string{}

	for j < len(sig) {
		t := sig[j]
		if depths[j] < d {
			return j
		}
		if depths[j] > d {
			j++
			continue
		}
		if t.IsPunct(";") || (t.Kind == token.KEYWORD && fromClauseEnd[t.Lower()]) {
			return j
		}

		switch {
		case t.IsPunct(","):
			expectRelation = true
			joinWords = joinWords[:0]
			j++
		case t.Kind == token.KEYWORD && joinPrefix[t.Lower()] && !(j+1 < len(sig) && sig[j+1].IsPunct("(")):
			joinWords = append(joinWords, t.Lower())
			j++
		case t.Is("join"):
			joinWords = append(joinWords, "join")
			expectRelation = true
			j++
		case expectRelation:
			ref, next := readRelation(sig, depths, j, d)
			ref.Join = strings.Join(joinWords, " ")
			joinWords = joinWords[:0]
			sel.Tables = append(sel.Tables, ref)
			expectRelation = false
			j = next
		default:
			j++
		}
	}
	return j
}

func readRelation(sig []token.Token, depths []int, j, d int) (TableRef, int) {
	ref := TableRef{Pos: sig[j].Pos}
	if sig[j].Is("lateral") {
		j++
		if j >= len(sig) {
			return ref, j
		}
	}

	if sig[j].IsPunct("(") {
		end := MatchParen(sig, j)
		if end < 0 {
			return ref, len(sig)
		}
		ref.Subquery = true
		ref.Relation = sig[j+1 : end]
		j = end + 1
	} else {
		start := j
		j++
		for j+1 < len(sig) && sig[j].IsPunct(".") {
			j += 2
		}
		// table functions: unnest(...), flatten(...)
		if j < len(sig) && sig[j].IsPunct("(") {
			if end := MatchParen(sig, j); end > 0 {
				j = end + 1
			}
		}
		ref.Relation = sig[start:j]
	}

	if j < len(sig) && depths[j] == d && sig[j].Is("as") && j+1 < len(sig) {
		ref.Alias = unquote(sig[j+1].Text)
		ref.AliasPos = sig[j+1].Pos
		ref.ExplicitAs = true
		return ref, j + 2
	}
	if j < len(sig) && depths[j] == d && (sig[j].Kind == token.IDENT || sig[j].Kind == token.QUOTED_IDENT) {
		ref.Alias = unquote(sig[j].Text)
		ref.AliasPos = sig[j].Pos
		return ref, j + 1
	}
	return ref, j
}
