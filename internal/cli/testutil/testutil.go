// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
	roottestutil "github.com/leapstack-labs/dbtstyle/internal/testutil"
)

// ProjectFiles is a small dbt project: a clean staging model with its
// source and properties, and a mart that uses union.
var ProjectFiles = map[string]string{
	"dbt_project.yml": "name: shop\n",
	"models/staging/shop/_shop__sources.yml": `version: 2

sources:
  - name: shop
    tables:
      - name: orders
`,
	"models/staging/shop/stg_shop__orders.sql": `with

source as (

    select * from {{ source('shop', 'orders') }}

),

renamed as (

    select
        id as order_id,
        customer_id,
        ordered_at
    from source

)

select * from renamed
`,
	"models/marts/orders.sql": `select order_id from {{ ref('stg_shop__orders') }}
union
select order_id from {{ ref('stg_shop__orders') }}
`,
}

// SetupTestProject writes ProjectFiles into a temporary directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()
	return roottestutil.NewProject(t, ProjectFiles)
}

// WriteConfig writes content as the dbtstyle.yaml of the project at root.
func WriteConfig(t *testing.T, root, content string) {
	t.Helper()
	roottestutil.WriteFiles(t, root, map[string]string{"dbtstyle.yaml": content})
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
