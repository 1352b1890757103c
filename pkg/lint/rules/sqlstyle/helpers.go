package sqlstyle

import (
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

func diagAt(pos token.Position, impact lint.ImpactLevel, msg string) lint.Diagnostic {
	return lint.Diagnostic{Message: msg, Pos: pos, ImpactScore: impact.Int()}
}

func significant(ctx *lint.ModelContext) []token.Token {
	return sqlscan.Significant(ctx.Model.Tokens)
}

func selects(ctx *lint.ModelContext) []sqlscan.Select {
	return sqlscan.Selects(significant(ctx))
}

// joinWords may precede the join keyword.
var joinWords = map[string]bool{
	"inner": true, "left": true, "right": true, "full": true, "outer": true,
	"cross": true, "natural": true, "semi": true, "anti": true, "asof": true,
	"positional": true, "lateral": true,
}
