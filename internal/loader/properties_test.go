package loader

import (
	"testing"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProperties(t *testing.T) {
	content := `version: 2

models:
  - name: dim_customers
    description: One row per customer.
    config:
      materialized: table
      meta:
        layer: marts
    data_tests:
      - dbt_utils.expression_is_true:
          arguments:
            expression: "lifetime_value >= 0"
    columns:
      - name: customer_id
        data_type: integer
        tests:
          - unique
          - not_null
      - name: account_id
        tests:
          - relationships:
              to: ref('dim_accounts')
              field: account_id
      - "not a mapping"
  - "also skipped"

sources:
  - name: shop
    tables:
      - name: orders
      - name: customers
`
	models, sources, err := ParseProperties("models/marts/marts.yml", []byte(content))
	require.NoError(t, err)

	require.Len(t, models, 1)
	m := models[0]
	assert.Equal(t, "dim_customers", m.Name)
	assert.Equal(t, 4, m.Pos.Line)
	assert.Equal(t, 11, m.Pos.Column)
	assert.Equal(t, "One row per customer.", m.Description)
	assert.Equal(t, "table", m.Config["materialized"])

	require.Len(t, m.Tests, 1)
	assert.Equal(t, "dbt_utils.expression_is_true", m.Tests[0].Name)
	assert.Equal(t, "lifetime_value >= 0", m.Tests[0].StringArg("expression"))

	require.Len(t, m.Columns, 2)
	assert.Equal(t, "integer", m.Columns[0].DataType)
	assert.True(t, m.Columns[0].HasTest("unique"))
	assert.Equal(t, 15, m.Columns[0].Pos.Line)

	rel, ok := m.Columns[1].Test("relationships")
	require.True(t, ok)
	assert.Equal(t, "ref('dim_accounts')", rel.StringArg("to"))
	assert.Equal(t, "account_id", rel.StringArg("field"))

	require.Len(t, sources, 1)
	assert.Equal(t, core.SourceProperties{Name: "shop", Pos: sources[0].Pos, Tables: []string{"orders", "customers"}}, sources[0])
}

func TestParseProperties_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		msg     string
	}{
		{"top level list", "- a\n- b\n", 1, "expected a mapping at the top level"},
		{"models not a list", "models:\n  name: a\n", 2, "models: must be a list"},
		{"sources not a list", "sources: shop\n", 1, "sources: must be a list"},
		{"tab indentation", "models:\n\t- name: a\n", 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseProperties("f.yml", []byte(tt.content))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, pe.Message)
			}
			assert.Contains(t, pe.Error(), "f.yml:")
		})
	}
}

func TestParseProperties_Empty(t *testing.T) {
	models, sources, err := ParseProperties("f.yml", []byte(""))
	require.NoError(t, err)
	assert.Nil(t, models)
	assert.Nil(t, sources)
}

func TestProjectFile_FolderConfig(t *testing.T) {
	pf, err := ParseProjectFile("dbt_project.yml", []byte(`name: shop
models:
  shop:
    +materialized: view
    staging:
      +tags: ["staging"]
    marts:
      materialized: table
      core:
        +schema: core
`))
	require.NoError(t, err)

	cfg := pf.FolderConfig()
	assert.Equal(t, "view", cfg["."]["materialized"])
	assert.Equal(t, []any{"staging"}, cfg["staging"]["tags"])
	assert.Equal(t, "table", cfg["marts"]["materialized"])
	assert.Equal(t, "core", cfg["marts/core"]["schema"])
}

func TestProjectFile_UnnamedReadsEveryEntry(t *testing.T) {
	pf, err := ParseProjectFile("dbt_project.yml", []byte("models:\n  anything:\n    +materialized: table\n"))
	require.NoError(t, err)
	assert.Equal(t, "table", pf.FolderConfig()["."]["materialized"])
}

func TestInferLayer(t *testing.T) {
	tests := []struct {
		name   string
		dir    string
		model  string
		config map[string]any
		props  *core.ModelProperties
		want   core.Placement
	}{
		{"staging path", "staging/stripe", "stg_stripe__payments", nil, nil,
			core.Placement{Layer: core.LayerStaging, Source: "stripe"}},
		{"base path", "staging/stripe/base", "base_stripe__customers", nil, nil,
			core.Placement{Layer: core.LayerBase, Source: "stripe"}},
		{"intermediate under marts", "marts/finance/intermediate", "payments__pivoted", nil, nil,
			core.Placement{Layer: core.LayerIntermediate, Unit: "finance"}},
		{"top-level intermediate", "intermediate", "orders__joined", nil, nil,
			core.Placement{Layer: core.LayerIntermediate}},
		{"marts unit", "marts/core", "dim_customers", nil, nil,
			core.Placement{Layer: core.LayerMarts, Unit: "core"}},
		{"prefix stg", ".", "stg_shop__orders", nil, nil,
			core.Placement{Layer: core.LayerStaging}},
		{"prefix fct", "reports", "fct_orders", nil, nil,
			core.Placement{Layer: core.LayerMarts}},
		{"verb suffix", "reports", "orders__aggregated", nil, nil,
			core.Placement{Layer: core.LayerIntermediate}},
		{"no signal", "reports", "orders", nil, nil,
			core.Placement{Layer: core.LayerOther}},
		{"config override", "staging/stripe", "stg_stripe__payments", map[string]any{"layer": "marts"}, nil,
			core.Placement{Layer: core.LayerMarts, Source: "stripe"}},
		{"meta override", "reports", "orders", map[string]any{"meta": map[string]any{"layer": "intermediate"}}, nil,
			core.Placement{Layer: core.LayerIntermediate}},
		{"properties override", "reports", "orders", nil,
			&core.ModelProperties{Config: map[string]any{"meta": map[string]any{"layer": "staging"}}},
			core.Placement{Layer: core.LayerStaging}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &core.Model{Name: tt.model, Dir: tt.dir, Config: tt.config}
			assert.Equal(t, tt.want, InferLayer(m, tt.props))
		})
	}
}
