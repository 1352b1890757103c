package modeltests

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

// compositeKeyTests are model-level tests that establish a primary key
// over several columns.
var compositeKeyTests = map[string]bool{
	"unique_combination_of_columns":          true,
	"dbt_utils.unique_combination_of_columns": true,
}

// primaryKeys returns the columns tested both unique and not_null.
func primaryKeys(props *core.ModelProperties) []*core.ColumnProperties {
	var keys []*core.ColumnProperties
	for i := range props.Columns {
		c := &props.Columns[i]
		if c.HasTest("unique") && c.HasTest("not_null") {
			keys = append(keys, c)
		}
	}
	return keys
}

func hasCompositeKey(props *core.ModelProperties) bool {
	for _, t := range props.Tests {
		if compositeKeyTests[strings.ToLower(t.Name)] {
			return true
		}
	}
	return false
}
