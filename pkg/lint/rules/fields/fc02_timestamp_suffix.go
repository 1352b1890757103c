package fields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "FC02",
		Name:        "fields.timestamp_suffix",
		Group:       "fields",
		Description: "Timestamp columns are named <event>_at, with an optional timezone suffix.",
		Severity:    core.SeverityWarning,
		Model:       checkTimestampSuffix,

		Rationale: `<event>_at names say what happened and that the value is a point in time. Timestamps
are expected in UTC; a suffix such as _at_pt flags the exceptions.`,

		BadExample: `select
    created::timestamp as created,
    updated_timestamp
from source`,

		GoodExample: `select
    created::timestamp as created_at,
    updated_timestamp as updated_at
from source`,

		Fix: "Rename the column to <event>_at, or <event>_at_<tz> when it is not UTC.",
	})
}

var timestampName = regexp.MustCompile(`_at(_[a-z]{2,5})?$`)

// timestampLike are name endings that suggest a timestamp named the wrong way.
var timestampLike = []string{"_timestamp", "_time", "_ts", "_datetime"}

func checkTimestampSuffix(ctx *lint.ModelContext) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, col := range outputColumns(ctx) {
		name := strings.ToLower(col.Name)
		if timestampName.MatchString(name) {
			continue
		}
		suspicious := timestampTypes[col.Type]
		if col.Type == "" {
			for _, suffix := range timestampLike {
				if strings.HasSuffix(name, suffix) {
					suspicious = true
					break
				}
			}
		}
		if suspicious {
			diagnostics = append(diagnostics, columnDiag(col, lint.ImpactLow,
				fmt.Sprintf("Timestamp column '%s' should be named <event>_at", col.Name)))
		}
	}
	return diagnostics
}
