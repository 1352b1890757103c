package refs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/refs"
	"github.com/leapstack-labs/dbtstyle/pkg/lint/rules/ruletest"
)

const wellFormed = `with

orders as (
    select * from {{ ref('stg_shop__orders') }}
),

customers as (
    select * from {{ ref('stg_shop__customers') }}
),

joined as (
    select
        orders.order_id,
        customers.customer_id
    from orders
    inner join customers
        on orders.customer_id = customers.customer_id
)

select * from joined
`

func TestRefsRules_WellFormedModel(t *testing.T) {
	files := ruletest.Model("marts/core/fct_orders.sql", wellFormed)
	for _, rule := range []string{"RF01", "RF02", "RF03", "RF04", "RF06"} {
		t.Run(rule, func(t *testing.T) {
			assert.Empty(t, ruletest.Run(t, files, rule))
		})
	}
}

func TestRF01_SourceOutsideStaging(t *testing.T) {
	sql := "with\n\nsrc as (\n    select * from {{ source('shop', 'orders') }}\n)\n\nselect * from src\n"

	assert.Empty(t, ruletest.Run(t, ruletest.Model("staging/shop/stg_shop__orders.sql", sql), "RF01"))
	assert.Empty(t, ruletest.Run(t, ruletest.Model("staging/shop/base/base_shop__orders.sql", sql), "RF01"))

	diags := ruletest.Run(t, ruletest.Model("marts/core/fct_orders.sql", sql), "RF01")
	require.Len(t, diags, 1)
	assert.Equal(t, "Mart model 'fct_orders' selects from source('shop', 'orders'); only staging and base models should", diags[0].Message)
	assert.Equal(t, 4, diags[0].Pos.Line)
	assert.Equal(t, 19, diags[0].Pos.Column)
}

func TestRF02_HardcodedRelation(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"schema qualified", "select * from analytics.orders\n",
			[]string{"Hard-coded relation 'analytics.orders'; use ref() or source()"}},
		{"bare table", "select * from orders o inner join raw.customers c on o.id = c.id\n",
			[]string{"Hard-coded relation 'orders'; use ref() or source()", "Hard-coded relation 'raw.customers'; use ref() or source()"}},
		{"jinja", "select * from {{ ref('orders') }}\n", nil},
		{"table function", "select * from unnest(array[1, 2]) as x\n", nil},
		{"subquery", "select * from (select 1 as id) as sub\n", nil},
		{"cte", "with a as (select 1 as id)\nselect * from a\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := ruletest.Run(t, ruletest.Model("marts/core/fct_x.sql", tt.sql), "RF02")
			if tt.want == nil {
				assert.Empty(t, diags)
				return
			}
			assert.Equal(t, tt.want, ruletest.Messages(diags))
		})
	}
}

func TestRF03_RefsAtTop(t *testing.T) {
	sql := `with

orders as (
    select * from {{ ref('stg_shop__orders') }}
),

joined as (
    select *
    from orders
    left join {{ ref('stg_shop__customers') }} as c using (customer_id)
),

payments as (
    select * from {{ ref('stg_stripe__payments') }}
)

select * from joined
`
	diags := ruletest.Run(t, ruletest.Model("marts/core/fct_orders.sql", sql), "RF03")
	assert.Equal(t, []int{10, 13}, ruletest.Lines(diags))
	assert.Equal(t, []string{
		"{{ ref('stg_shop__customers') }} is used in logic CTE 'joined'; move it to an import CTE at the top",
		"Import CTE 'payments' should come before the logic CTEs",
	}, ruletest.Messages(diags))

	diags = ruletest.Run(t, ruletest.Model("marts/core/fct_x.sql", "select * from {{ ref('a') }}\n"), "RF03")
	require.Len(t, diags, 1)
	assert.Equal(t, "{{ ref('a') }} is used in a model without import CTEs; move it to an import CTE at the top", diags[0].Message)
}

func TestRF04_FinalSelect(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"select star from cte", "with final as (select 1 as id)\nselect * from final\n", ""},
		{"trailing semicolon", "with final as (select 1 as id)\nselect * from final;\n", ""},
		{"no with", "select 1 as id\n", ""},
		{"logic in final select", "with a as (select 1 as id)\nselect id from a\n",
			"Model 'fct_x' should end with select * from <cte>"},
		{"not a cte", "with a as (select 1 as id)\nselect * from b\n",
			"Final select reads from 'b', which is not a CTE of this model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := ruletest.Run(t, ruletest.Model("marts/core/fct_x.sql", tt.sql), "RF04")
			if tt.want == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, tt.want, diags[0].Message)
			assert.Equal(t, 2, diags[0].Pos.Line)
		})
	}
}

func TestRF05_Duplicated(t *testing.T) {
	shared := `totals as (
    select order_id, sum(amount) as total_amount, count(*) as payment_count
    from payments
    group by 1
)`
	files := map[string]string{
		"models/marts/core/fct_orders.sql":  "with payments as (select * from {{ ref('p') }}),\n" + shared + "\nselect * from totals\n",
		"models/marts/core/fct_returns.sql": "with payments as (select * from {{ ref('p') }}),\n\n" + shared + "\nselect * from totals\n",
		"models/marts/core/fct_other.sql":   "with payments as (select * from {{ ref('p') }}),\ntotals as (select 1 as id)\nselect * from totals\n",
	}

	diags := ruletest.Run(t, files, "RF05")
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "fct_returns", d.Model)
	assert.Equal(t, "CTE 'totals' duplicates 'totals' in model 'fct_orders'; extract it into its own model", d.Message)
	assert.Equal(t, 3, d.Pos.Line)
	require.Len(t, d.RelatedInfo, 1)
	assert.Equal(t, 2, d.RelatedInfo[0].Pos.Line)

	assert.Empty(t, ruletest.RunWithOptions(t, files, "RF05", map[string]any{"min_tokens": 100}))
}

func TestRF06_UnusedCTE(t *testing.T) {
	sql := `with

orders as (select * from {{ ref('stg_shop__orders') }}),
customers as (select * from {{ ref('stg_shop__customers') }}),
helper as (select order_id from orders),
walk as (select 1 as n union all select n + 1 from walk where n < 3)

select * from orders where order_id in (select order_id from helper)
`
	diags := ruletest.Run(t, ruletest.Model("marts/core/fct_orders.sql", sql), "RF06")
	assert.Equal(t, []string{
		"CTE 'customers' is defined but never referenced",
		"CTE 'walk' is defined but never referenced",
	}, ruletest.Messages(diags))
	assert.Equal(t, []int{4, 6}, ruletest.Lines(diags))
}

func TestRF06_OnlyRelationsCount(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "column named like the cte",
			sql:  "with\n\npayments as (select 1 as id)\n\nselect payments from {{ ref('stg_shop__orders') }}\n",
			want: []string{"CTE 'payments' is defined but never referenced"},
		},
		{
			name: "alias named like the cte",
			sql:  "with\n\npayments as (select 1 as id)\n\nselect p.id from {{ ref('stg_shop__orders') }} as payments\n",
			want: []string{"CTE 'payments' is defined but never referenced"},
		},
		{
			name: "qualified name is another relation",
			sql:  "with\n\npayments as (select 1 as id)\n\nselect * from raw.payments\n",
			want: []string{"CTE 'payments' is defined but never referenced"},
		},
		{
			name: "comma separated from list",
			sql:  "with\n\na as (select 1 as id),\nb as (select 1 as id)\n\nselect * from a, b\n",
			want: nil,
		},
		{
			name: "joined",
			sql:  "with\n\na as (select 1 as id),\nb as (select 1 as id)\n\nselect * from a left join b on a.id = b.id\n",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := ruletest.Run(t, ruletest.Model("marts/core/fct_orders.sql", tt.sql), "RF06")
			msgs := ruletest.Messages(diags)
			if tt.want == nil {
				assert.Empty(t, msgs)
				return
			}
			assert.Equal(t, tt.want, msgs)
		})
	}
}
