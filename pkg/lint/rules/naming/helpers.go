package naming

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/lint"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// fileStart is where diagnostics about a model's name are reported.
var fileStart = token.Position{Line: 1, Column: 1}

func nameDiag(format string, args ...any) lint.Diagnostic {
	return lint.Diagnostic{
		Message:     fmt.Sprintf(format, args...),
		Pos:         fileStart,
		ImpactScore: lint.ImpactMedium.Int(),
	}
}

// splitLayered splits "<prefix><source>__<objects>" into its parts.
func splitLayered(name, prefix string) (source, objects string, ok bool) {
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, prefix) {
		return "", "", false
	}
	rest := lower[len(prefix):]
	source, objects, found := strings.Cut(rest, "__")
	if !found || source == "" || objects == "" {
		return "", "", false
	}
	return source, objects, true
}
