package fields_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/fields"
	"github.com/leapstack-labs/dbtstyle/pkg/lint/rules/ruletest"
)

const stagingModel = `with

source as (
    select * from {{ source('stripe', 'payments') }}
),

renamed as (
    select
        id as payment_id,
        "OrderID" as "OrderId",
        amount::integer as amount,
        fee::integer as fee_in_cents,
        status = 'paid' as paid,
        refunded::boolean as is_refunded,
        kind as type,
        created::timestamp as created,
        updated_timestamp,
        processed_at
    from source
)

select * from renamed
`

func runStaging(t *testing.T, rule string) []string {
	t.Helper()
	diags := ruletest.Run(t, ruletest.Model("staging/stripe/stg_stripe__payments.sql", stagingModel), rule)
	return ruletest.Messages(diags)
}

func TestFC01_SnakeCase(t *testing.T) {
	assert.Equal(t, []string{"Column 'OrderId' should be snake_case"}, runStaging(t, "FC01"))
}

func TestFC02_TimestampSuffix(t *testing.T) {
	assert.Equal(t, []string{
		"Timestamp column 'created' should be named <event>_at",
		"Timestamp column 'updated_timestamp' should be named <event>_at",
	}, runStaging(t, "FC02"))
}

func TestFC03_BooleanPrefix(t *testing.T) {
	assert.Equal(t, []string{"Boolean column 'paid' should start with is_ or has_"}, runStaging(t, "FC03"))
}

func TestFC04_ReservedWord(t *testing.T) {
	assert.Equal(t, []string{"Column 'type' is a reserved word"}, runStaging(t, "FC04"))
}

func TestFC05_CentsSuffix(t *testing.T) {
	assert.Equal(t, []string{"Integer money column 'amount' should be named amount_in_cents"}, runStaging(t, "FC05"))

	files := ruletest.Model("staging/stripe/stg_stripe__payments.sql", "select price::int as unit_price from t\n")
	assert.Len(t, ruletest.Run(t, files, "FC05"), 1)
	assert.Empty(t, ruletest.RunWithOptions(t, files, "FC05", map[string]any{"money_words": []any{"amount"}}))
}

func TestFC05_CountsAreNotMoney(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"count of orders", "select n::int as total_orders from t\n", nil},
		{"row total", "select n::int as order_total from t\n", nil},
		{"total amount", "select a::int as total_amount from t\n",
			[]string{"Integer money column 'total_amount' should be named total_amount_in_cents"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := ruletest.Model("marts/core/fct_orders.sql", tt.sql)
			assert.Equal(t, tt.want, nilIfEmpty(ruletest.Messages(ruletest.Run(t, files, "FC05"))))
		})
	}
}

func TestFC06_ColumnOrder(t *testing.T) {
	tests := []struct {
		name string
		path string
		sql  string
		want []string
	}{
		{"ordered", "staging/shop/stg_shop__orders.sql",
			"select order_id, customer_id, status, ordered_at from t\n", nil},
		{"timestamp first", "staging/shop/stg_shop__orders.sql",
			"select ordered_at, status, order_id from t\n",
			[]string{"Column 'status' (attribute) should come before 'ordered_at' (timestamp)"}},
		{"id after attribute", "staging/shop/stg_shop__orders.sql",
			"select status, order_id from t\n",
			[]string{"Column 'order_id' (id) should come before 'status' (attribute)"}},
		{"marts are free", "marts/core/fct_orders.sql",
			"select ordered_at, order_id from t\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := ruletest.Run(t, ruletest.Model(tt.path, tt.sql), "FC06")
			assert.Equal(t, tt.want, nilIfEmpty(ruletest.Messages(diags)))
		})
	}
}

func TestFieldTypesFromProperties(t *testing.T) {
	diags := ruletest.Run(t, map[string]string{
		"models/marts/core/dim_customers.sql": "select customer_id, active, signup from customers\n",
		"models/marts/core/core.yml": `models:
  - name: dim_customers
    columns:
      - name: active
        data_type: boolean
      - name: signup
        data_type: TIMESTAMP_NTZ
`,
	}, "FC03")
	require.Len(t, diags, 1)
	assert.Equal(t, "Boolean column 'active' should start with is_ or has_", diags[0].Message)
	assert.Equal(t, 1, diags[0].Pos.Line)
	assert.Equal(t, 21, diags[0].Pos.Column)
}

func TestFC07_ConsistentKeys(t *testing.T) {
	diags := ruletest.Run(t, map[string]string{
		"models/marts/core/fct_orders.sql": "select 1 as order_id\n",
		"models/marts/core/core.yml": `models:
  - name: fct_orders
    columns:
      - name: cust
        tests:
          - relationships:
              to: ref('dim_customers')
              field: customer_id
      - name: product_id
        tests:
          - relationships:
              arguments:
                to: ref('dim_products')
                field: product_id
`,
	}, "FC07")
	require.Len(t, diags, 1)
	assert.Equal(t, "Column 'cust' of model 'fct_orders' references 'customer_id' and should share its name", diags[0].Message)
	assert.Equal(t, 4, diags[0].Pos.Line)
	assert.Contains(t, diags[0].FilePath, "core.yml")
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
