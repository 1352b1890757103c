package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"stg_stripe__invoices", "invoices"},
		{"base_stripe__customers", "customers"},
		{"stg_customers", "customers"},
		{"customers__unioned", "customers"},
		{"int_orders__pivoted", "orders"},
		{"fct_orders", "orders"},
		{"dim_customers", "customers"},
		{"customers", "customers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectName(tt.name))
		})
	}
}

func TestSingular(t *testing.T) {
	tests := map[string]string{
		"customers":  "customer",
		"categories": "category",
		"addresses":  "address",
		"matches":    "match",
		"boxes":      "box",
		"status":     "status",
		"class":      "class",
		"order":      "order",
	}

	for in, want := range tests {
		assert.Equal(t, want, Singular(in), "Singular(%q)", in)
	}
}

func TestParseLayer(t *testing.T) {
	l, ok := ParseLayer("Staging")
	assert.True(t, ok)
	assert.Equal(t, LayerStaging, l)

	l, ok = ParseLayer("mart")
	assert.True(t, ok)
	assert.Equal(t, LayerMarts, l)

	l, ok = ParseLayer("bronze")
	assert.False(t, ok)
	assert.Equal(t, LayerOther, l)
}

func TestSeverity(t *testing.T) {
	sev, ok := ParseSeverity("ERROR")
	assert.True(t, ok)
	assert.Equal(t, SeverityError, sev)
	assert.Equal(t, "error", sev.String())

	sev, ok = ParseSeverity("nope")
	assert.False(t, ok)
	assert.Equal(t, SeverityWarning, sev)
	assert.True(t, SeverityError < SeverityHint, "lower values are more severe")

	text, err := SeverityInfo.MarshalText()
	require.NoError(t, err)
	var decoded Severity
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, SeverityInfo, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("fatal")))
}

func TestPlacementFromPath(t *testing.T) {
	tests := []struct {
		dir  string
		want Placement
	}{
		{".", Placement{Layer: LayerOther}},
		{"staging/stripe", Placement{Layer: LayerStaging, Source: "stripe"}},
		{"staging/stripe/base", Placement{Layer: LayerBase, Source: "stripe"}},
		{"marts/finance", Placement{Layer: LayerMarts, Unit: "finance"}},
		{"marts/finance/intermediate", Placement{Layer: LayerIntermediate, Unit: "finance"}},
		{"intermediate", Placement{Layer: LayerIntermediate}},
		{"Staging/Shop", Placement{Layer: LayerStaging, Source: "shop"}},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, PlacementFromPath(tt.dir))
		})
	}
}

func TestPrefixLayer(t *testing.T) {
	tests := map[string]Layer{
		"base_stripe__customers": LayerBase,
		"stg_stripe__payments":   LayerStaging,
		"int_orders__pivoted":    LayerIntermediate,
		"FCT_orders":             LayerMarts,
		"dim_customers":          LayerMarts,
	}
	for name, want := range tests {
		got, ok := PrefixLayer(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := PrefixLayer("orders__pivoted")
	assert.False(t, ok)
}
