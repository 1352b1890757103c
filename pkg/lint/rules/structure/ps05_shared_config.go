package structure

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "PS05",
		Name:        "structure.shared_config",
		Group:       "structure",
		Description: "Config repeated in every model of a folder belongs in dbt_project.yml.",
		Severity:    core.SeverityInfo,
		ConfigKeys:  []string{"min_models"},
		Project:     checkSharedConfig,

		Rationale: `When every model in a folder sets the same config, the folder is the real unit of
configuration. Declaring it once in dbt_project.yml keeps new models consistent and leaves
in-model config() for the exceptions.`,

		BadExample: `-- models/marts/core/dim_customers.sql
{{ config(materialized='table') }}
-- models/marts/core/fct_orders.sql
{{ config(materialized='table') }}`,

		GoodExample: `# dbt_project.yml
models:
  jaffle_shop:
    marts:
      +materialized: table`,

		Fix: "Move the shared value to the folder's entry in dbt_project.yml and drop it from the models.",
	})
}

// perModelKeys are configs that only make sense on a single model.
var perModelKeys = map[string]bool{
	"alias": true, "unique_key": true, "layer": true,
}

func checkSharedConfig(ctx *lint.ProjectContext) []lint.Diagnostic {
	minModels := lint.GetIntOption(ctx.Options, "min_models", 2)
	var diagnostics []lint.Diagnostic

	for _, dir := range ctx.Project.ModelDirs() {
		models := ctx.Project.ModelsIn(dir)
		if len(models) < minModels {
			continue
		}

		keys := make([]string, 0, len(models[0].Config))
		for k := range models[0].Config {
			if !perModelKeys[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := models[0].Config[key]
			shared := true
			for _, m := range models[1:] {
				v, ok := m.Config[key]
				if !ok || !reflect.DeepEqual(v, value) {
					shared = false
					break
				}
			}
			if !shared {
				continue
			}
			first := models[0]
			diagnostics = append(diagnostics, lint.Diagnostic{
				Message: fmt.Sprintf("All %d models in %s set %s=%v; configure it once in dbt_project.yml",
					len(models), dir, key, value),
				FilePath:    first.FilePath,
				Model:       first.Name,
				Pos:         first.ConfigPos,
				ImpactScore: lint.ImpactLow.Int(),
			})
		}
	}
	return diagnostics
}
