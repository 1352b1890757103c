package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject_Materialization(t *testing.T) {
	fct := &Model{Name: "fct_orders", Dir: "marts/core"}
	dim := &Model{Name: "dim_customers", Dir: "marts/core", Config: map[string]any{"materialized": "Incremental"}}
	described := &Model{Name: "dim_products", Dir: "marts/core"}
	stg := &Model{Name: "stg_stripe__payments", Dir: "staging/stripe"}

	p := &Project{
		Models: []*Model{fct, dim, described, stg},
		Properties: []*PropertiesFile{{
			Dir: "marts/core",
			Models: []ModelProperties{{
				Name:   "dim_products",
				Config: map[string]any{"materialized": "ephemeral"},
			}},
		}},
		FolderConfig: map[string]map[string]any{
			"marts": {"materialized": "table"},
		},
	}

	mat, origin := p.Materialization(fct)
	assert.Equal(t, "table", mat)
	assert.Equal(t, OriginProject, origin)

	mat, origin = p.Materialization(dim)
	assert.Equal(t, "incremental", mat)
	assert.Equal(t, OriginModel, origin)

	mat, origin = p.Materialization(described)
	assert.Equal(t, "ephemeral", mat)
	assert.Equal(t, OriginProperties, origin)

	mat, origin = p.Materialization(stg)
	assert.Equal(t, DefaultMaterialization, mat)
	assert.Equal(t, OriginDefault, origin)
}

func TestProject_ModelDirs(t *testing.T) {
	p := &Project{Models: []*Model{
		{Name: "b", Dir: "staging/stripe"},
		{Name: "a", Dir: "marts/core"},
		{Name: "c", Dir: "staging/stripe"},
	}}

	assert.Equal(t, []string{"marts/core", "staging/stripe"}, p.ModelDirs())
	assert.Len(t, p.ModelsIn("staging/stripe"), 2)
	_, ok := p.Model("a")
	assert.True(t, ok)
}
