package fields

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "FC06",
		Name:        "fields.column_order",
		Group:       "fields",
		Description: "Base and staging models list identifiers first and timestamps last.",
		Severity:    core.SeverityInfo,
		Model:       checkColumnOrder,

		Rationale: `Staging models are the reference for a source's columns. A fixed order of ids, then
attributes, then timestamps makes every staging model scan the same way.`,

		BadExample: `select
    created_at,
    status,
    payment_id
from source`,

		GoodExample: `select
    payment_id,
    status,
    created_at
from source`,

		Fix: "Reorder the select list: ids first, then other columns, then dates and timestamps.",
	})
}

type columnKind int

const (
	kindID columnKind = iota
	kindAttribute
	kindTime
)

func (k columnKind) String() string {
	switch k {
	case kindID:
		return "id"
	case kindTime:
		return "timestamp"
	default:
		return "attribute"
	}
}

func classify(col column) columnKind {
	name := strings.ToLower(col.Name)
	switch {
	case name == "id" || strings.HasSuffix(name, "_id"):
		return kindID
	case timestampName.MatchString(name), strings.HasSuffix(name, "_date"),
		timestampTypes[col.Type], col.Type == "date":
		return kindTime
	}
	return kindAttribute
}

func checkColumnOrder(ctx *lint.ModelContext) []lint.Diagnostic {
	if !isStagingLike(ctx.Model) {
		return nil
	}
	cols := outputColumns(ctx)
	for i := 1; i < len(cols); i++ {
		kind := classify(cols[i])
		for j := 0; j < i; j++ {
			prev := classify(cols[j])
			if prev > kind {
				return []lint.Diagnostic{columnDiag(cols[i], lint.ImpactLow,
					fmt.Sprintf("Column '%s' (%s) should come before '%s' (%s)", cols[i].Name, kind, cols[j].Name, prev))}
			}
		}
	}
	return nil
}
