package sqlstyle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dbtstyle/pkg/lint/rules/ruletest"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/sqlstyle"
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
        orders.customer_id,
        customers.first_name,
        count(orders.order_id) as order_count
    from orders
    inner join customers
        on orders.customer_id = customers.customer_id
    group by 1, 2
)

select * from joined
`

func run(t *testing.T, ruleID, sql string) []string {
	t.Helper()
	return ruletest.Messages(ruletest.Run(t, ruletest.Model("marts/core/fct_orders.sql", sql), ruleID))
}

func TestSQLRules_WellFormedModel(t *testing.T) {
	files := ruletest.Model("marts/core/fct_orders.sql", wellFormed)
	for _, rule := range []string{
		"SQ01", "SQ02", "SQ03", "SQ04", "SQ05", "SQ06",
		"SQ07", "SQ08", "SQ09", "SQ10", "SQ11", "SQ12",
	} {
		t.Run(rule, func(t *testing.T) {
			assert.Empty(t, ruletest.Run(t, files, rule))
		})
	}
}

func TestSQ01_LeadingComma(t *testing.T) {
	diags := ruletest.Run(t, ruletest.Model("a.sql", "select\n    order_id\n    , status\nfrom orders\n"), "SQ01")
	require.Len(t, diags, 1)
	assert.Equal(t, "Leading comma; put commas at the end of the line", diags[0].Message)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, 5, diags[0].Pos.Column)
}

func TestSQ02_Indentation(t *testing.T) {
	sql := "select\n  order_id,\n\tstatus,\n    amount\nfrom orders\nwhere status = 'paid'\n  and amount > 0\n"
	files := ruletest.Model("a.sql", sql)

	diags := ruletest.Run(t, files, "SQ02")
	assert.Equal(t, []int{2, 3}, ruletest.Lines(diags))
	assert.Equal(t, []string{
		"Indentation of 2 spaces is not a multiple of 4",
		"Indent with spaces, not tabs",
	}, ruletest.Messages(diags))

	diags = ruletest.RunWithOptions(t, files, "SQ02", map[string]any{"indent_size": 2})
	assert.Equal(t, []int{3}, ruletest.Lines(diags))
}

func TestSQ03_LineLength(t *testing.T) {
	long := "-- " + strings.Repeat("x", 82)
	files := ruletest.Model("a.sql", "select 1 as id\n"+long+"\n")

	diags := ruletest.Run(t, files, "SQ03")
	require.Len(t, diags, 1)
	assert.Equal(t, "Line is 85 characters long; the limit is 80", diags[0].Message)
	assert.Equal(t, 2, diags[0].Pos.Line)
	assert.Equal(t, 81, diags[0].Pos.Column)

	assert.Empty(t, ruletest.RunWithOptions(t, files, "SQ03", map[string]any{"max_length": 100}))
}

func TestSQ04_Lowercase(t *testing.T) {
	assert.Equal(t, []string{
		"Keyword 'SELECT' should be lowercase",
		"Field 'Order_ID' should be lowercase",
		"Function 'COUNT' should be lowercase",
		"Keyword 'AS' should be lowercase",
		"Keyword 'FROM' should be lowercase",
	}, run(t, "SQ04", "SELECT Order_ID, COUNT(*) AS payments FROM payments\n"))

	assert.Empty(t, run(t, "SQ04", "select \"Order_ID\" as order_id from payments\n"))
}

func TestSQ05_ExplicitAlias(t *testing.T) {
	diags := ruletest.Run(t, ruletest.Model("a.sql", "select\n    id payment_id,\n    amount as amount\nfrom payments p\n"), "SQ05")
	assert.Equal(t, []string{
		"Alias 'payment_id' should be introduced with as",
		"Table alias 'p' should be introduced with as",
	}, ruletest.Messages(diags))
	assert.Equal(t, []int{2, 4}, ruletest.Lines(diags))
}

func TestSQ06_UnionAll(t *testing.T) {
	sql := "select 1 as a\nunion\nselect 2 as a\nunion all\nselect 3 as a\nunion distinct\nselect 4 as a\n"
	diags := ruletest.Run(t, ruletest.Model("a.sql", sql), "SQ06")
	assert.Equal(t, []int{2}, ruletest.Lines(diags))
	assert.Equal(t, []string{"Use union all instead of union"}, ruletest.Messages(diags))
}

func TestSQ07_ExplicitJoin(t *testing.T) {
	sql := "select *\nfrom orders\njoin customers using (customer_id)\ninner join payments using (order_id)\nleft outer join refunds using (order_id)\n"
	diags := ruletest.Run(t, ruletest.Model("a.sql", sql), "SQ07")
	require.Len(t, diags, 1)
	assert.Equal(t, "Write inner join instead of join", diags[0].Message)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, 1, diags[0].Pos.Column)
}

func TestSQ08_RightJoin(t *testing.T) {
	sql := "select *\nfrom orders\nright join customers using (customer_id)\nright outer join refunds using (order_id)\nleft join payments using (order_id)\n"
	diags := ruletest.Run(t, ruletest.Model("a.sql", sql), "SQ08")
	assert.Equal(t, []int{3, 4}, ruletest.Lines(diags))
}

func TestSQ09_JoinAlias(t *testing.T) {
	sql := `select o.order_id, oi.sku, cust.name
from orders as o
inner join order_items as oi on o.order_id = oi.order_id
inner join customers as cust on o.customer_id = cust.customer_id
`
	diags := ruletest.Run(t, ruletest.Model("a.sql", sql), "SQ09")
	assert.Equal(t, []string{
		"Join alias 'o' is too short to say what it stands for",
		"Join alias 'oi' is too short to say what it stands for",
	}, ruletest.Messages(diags))
	assert.Equal(t, []int{2, 3}, ruletest.Lines(diags))

	t.Run("initialisms are flagged at any length", func(t *testing.T) {
		sql := "select ord.id, c.name\nfrom orders as ord\ninner join customers as c on ord.customer_id = c.id\n"
		diags := ruletest.RunWithOptions(t, ruletest.Model("a.sql", sql), "SQ09", map[string]any{"min_length": 1})
		assert.Equal(t, []string{"Join alias 'c' is too short to say what it stands for"}, ruletest.Messages(diags))
	})

	t.Run("single table", func(t *testing.T) {
		assert.Empty(t, run(t, "SQ09", "select o.id from orders as o\n"))
	})
}

func TestSQ10_GroupByNumber(t *testing.T) {
	diags := ruletest.Run(t, ruletest.Model("a.sql", "select customer_id, count(*) as n\nfrom orders\ngroup by customer_id\n"), "SQ10")
	require.Len(t, diags, 1)
	assert.Equal(t, "Group by column position instead of name or expression", diags[0].Message)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, 10, diags[0].Pos.Column)

	for _, groupBy := range []string{"1", "all", "{{ dbt_utils.group_by(1) }}"} {
		t.Run(groupBy, func(t *testing.T) {
			assert.Empty(t, run(t, "SQ10", "select customer_id, count(*) as n\nfrom orders\ngroup by "+groupBy+"\n"))
		})
	}
}

func TestSQ11_FieldsBeforeAggregates(t *testing.T) {
	sql := `select
    count(*) as order_count,
    customer_id,
    sum(amount) over (partition by customer_id) as running_total,
    status
from orders
`
	diags := ruletest.Run(t, ruletest.Model("a.sql", sql), "SQ11")
	assert.Equal(t, []int{3, 5}, ruletest.Lines(diags))
	assert.Equal(t, "Field 'customer_id' should come before aggregates and window functions", diags[0].Message)
}

func TestSQ12_QualifiedColumns(t *testing.T) {
	sql := `select
    orders.order_id,
    customer_id,
    coalesce(customers.name, 'unknown') as customer_name,
    cast(amount as int) as amount,
    current_date as loaded_on
from orders
inner join customers using (customer_id)
`
	diags := ruletest.Run(t, ruletest.Model("a.sql", sql), "SQ12")
	assert.Equal(t, []string{
		"Column 'customer_id' should be qualified with its table when joining",
		"Column 'amount' should be qualified with its table when joining",
	}, ruletest.Messages(diags))
	require.Len(t, diags, 2)
	assert.Equal(t, 5, diags[1].Pos.Line)
	assert.Equal(t, 10, diags[1].Pos.Column)

	assert.Empty(t, run(t, "SQ12", "select customer_id from orders\n"))
}
