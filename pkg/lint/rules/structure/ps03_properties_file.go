package structure

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "PS03",
		Name:        "structure.properties_file",
		Group:       "structure",
		Description: "Model folders carry properties files named after the folder.",
		Severity:    core.SeverityWarning,
		Project:     checkPropertiesFiles,

		Rationale: `A predictable properties file per folder means a model's documentation and tests are
always one file away. Staging source folders split source definitions (src_<source>.yml)
from the staging models built on them (stg_<source>.yml).`,

		BadExample: `models/marts/core/schema.yml
models/staging/stripe/stripe.yml`,

		GoodExample: `models/marts/core/core.yml
models/staging/stripe/src_stripe.yml
models/staging/stripe/stg_stripe.yml`,

		Fix: "Rename or add the properties file so each folder has the expected file names.",
	})
}

// expectedPropertiesFiles returns the stems a folder's properties files should have.
func expectedPropertiesFiles(dir string) []string {
	folder := core.PlacementFromPath(dir)
	base := path.Base(dir)
	if folder.Layer == core.LayerStaging && folder.Source != "" && strings.EqualFold(base, folder.Source) {
		return []string{"src_" + folder.Source, "stg_" + folder.Source}
	}
	return []string{strings.ToLower(base)}
}

func checkPropertiesFiles(ctx *lint.ProjectContext) []lint.Diagnostic {
	p := ctx.Project
	var diagnostics []lint.Diagnostic

	for _, dir := range p.ModelDirs() {
		if dir == "." {
			continue
		}
		expected := expectedPropertiesFiles(dir)
		found := make(map[string]bool)

		for _, f := range p.PropertiesIn(dir) {
			stem := strings.ToLower(f.Stem())
			found[stem] = true
			if !contains(expected, stem) {
				diagnostics = append(diagnostics, lint.Diagnostic{
					Message:     fmt.Sprintf("Properties file '%s' in %s should be named %s", f.Name, dir, ymlNames(expected)),
					FilePath:    f.FilePath,
					Pos:         fileStart,
					ImpactScore: lint.ImpactLow.Int(),
				})
			}
		}

		models := p.ModelsIn(dir)
		var missing []string
		for _, stem := range expected {
			if !found[stem] {
				missing = append(missing, stem)
			}
		}
		if len(missing) == 0 || len(models) == 0 {
			continue
		}
		sort.Strings(missing)
		diagnostics = append(diagnostics, lint.Diagnostic{
			Message:     fmt.Sprintf("Folder %s has no %s properties file", dir, ymlNames(missing)),
			FilePath:    models[0].FilePath,
			Model:       models[0].Name,
			Pos:         fileStart,
			ImpactScore: lint.ImpactMedium.Int(),
		})
	}
	return diagnostics
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func ymlNames(stems []string) string {
	names := make([]string, len(stems))
	for i, s := range stems {
		names[i] = s + ".yml"
	}
	return strings.Join(names, " and ")
}
