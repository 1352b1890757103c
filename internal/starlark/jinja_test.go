package starlark

import (
	"testing"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, src string) *Calls {
	t.Helper()
	tokens, errs := sqlscan.Scan(src)
	require.Empty(t, errs)
	return NewEvaluator(nil).Extract("model", tokens)
}

func refNames(refs []core.Ref) []string {
	var out []string
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

func TestExtract_RefsAndSources(t *testing.T) {
	calls := extract(t, `with a as (select * from {{ ref('stg_shop__orders') }}),
b as (select * from {{ ref("other_pkg", "dim_customers") }}),
c as (select * from {{ source('shop', 'payments') }})
select * from a`)

	assert.Equal(t, []string{"stg_shop__orders", "dim_customers"}, refNames(calls.Refs))
	assert.Equal(t, "other_pkg", calls.Refs[1].Package)
	assert.Equal(t, 1, calls.Refs[0].Pos.Line)
	assert.Equal(t, 2, calls.Refs[1].Pos.Line)

	require.Len(t, calls.Sources, 1)
	assert.Equal(t, core.SourceRef{Source: "shop", Table: "payments", Pos: calls.Sources[0].Pos}, calls.Sources[0])
	assert.Equal(t, 3, calls.Sources[0].Pos.Line)
}

func TestExtract_Config(t *testing.T) {
	calls := extract(t, `{{
    config(
        materialized = 'incremental',
        unique_key = 'order_id',
        tags = ['finance', 'daily'],
        enabled = true,
        meta = {'layer': 'marts'},
    )
}}

select 1`)

	require.NotNil(t, calls.Config)
	assert.Equal(t, "incremental", calls.Config["materialized"])
	assert.Equal(t, "order_id", calls.Config["unique_key"])
	assert.Equal(t, []any{"finance", "daily"}, calls.Config["tags"])
	assert.Equal(t, true, calls.Config["enabled"])
	assert.Equal(t, map[string]any{"layer": "marts"}, calls.Config["meta"])
	assert.Equal(t, 1, calls.ConfigPos.Line)
}

func TestExtract_NestedAndFallback(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "inside unknown macro",
			src:  "select {{ dbt_utils.star(from=ref('a'), except=['x']) }} from {{ ref('a') }}",
			want: []string{"a", "a"},
		},
		{
			name: "jinja filter",
			src:  "select * from {{ ref('b') | trim }}",
			want: []string{"b"},
		},
		{
			name: "set statement",
			src:  "{% set rel = ref('c') %}select * from {{ rel }}",
			want: []string{"c"},
		},
		{
			name: "string concatenation",
			src:  "{{ log('using ' ~ ref('d'), info=true) }}",
			want: []string{"d"},
		},
		{
			name: "method named ref is ignored",
			src:  "{% set x = adapter.ref('e') %}",
			want: nil,
		},
		{
			name: "loop variable does not evaluate",
			src:  "{% for m in ['x', 'y'] %}select * from {{ ref(m) }}{% endfor %}",
			want: nil,
		},
		{
			name: "whitespace control",
			src:  "{%- set r = ref('f') -%}{{- ref('g') -}}",
			want: []string{"f", "g"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refNames(extract(t, tt.src).Refs))
		})
	}
}

func TestExtract_VarsAndBuiltins(t *testing.T) {
	calls := extract(t, `select *
from {{ ref('a') }}
{% if is_incremental() %}
where updated_at > (select max(updated_at) from {{ this }})
{% endif %}
and region = '{{ var("region", "eu") }}'
and key = '{{ env_var("KEY", "x") }}'`)

	assert.Equal(t, []string{"region"}, calls.Vars)
	assert.Equal(t, []string{"a"}, refNames(calls.Refs))
	assert.Nil(t, calls.Config)
}

func TestBlockBody(t *testing.T) {
	assert.Equal(t, "ref('a')", blockBody("{{ ref('a') }}"))
	assert.Equal(t, "if x", blockBody("{%- if x -%}"))
	assert.Equal(t, "", blockBody("{{}}"))
}
