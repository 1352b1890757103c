package core

import (
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// Layer is the refinement layer a model belongs to.
type Layer string

// Layer constants, ordered from raw to business-ready.
const (
	LayerBase         Layer = "base"
	LayerStaging      Layer = "staging"
	LayerIntermediate Layer = "intermediate"
	LayerMarts        Layer = "marts"
	LayerOther        Layer = "other"
)

// ParseLayer converts a user-supplied layer name. Unknown names yield LayerOther and false.
func ParseLayer(s string) (Layer, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "base":
		return LayerBase, true
	case "staging", "stg":
		return LayerStaging, true
	case "intermediate", "int":
		return LayerIntermediate, true
	case "marts", "mart":
		return LayerMarts, true
	default:
		return LayerOther, false
	}
}

// Model is a single .sql file under the models directory.
type Model struct {
	// Name is the file name without extension, e.g. "stg_stripe__invoices"
	Name string
	// Path is the slash-separated path relative to the models directory
	Path string
	// FilePath is the absolute path to the SQL file
	FilePath string
	// Dir is the slash-separated directory relative to the models directory ("." for the root)
	Dir string
	// Layer is the inferred or declared refinement layer
	Layer Layer
	// Source is the source folder for staging and base models
	Source string
	// Unit is the business unit folder for marts and intermediate models
	Unit string

	// SQL is the raw file content
	SQL string
	// Lines is SQL split on newlines without terminators
	Lines []string
	// Tokens is the full token stream, trivia included
	Tokens []token.Token

	// Refs are ref() calls found in Jinja expressions
	Refs []Ref
	// Sources are source() calls found in Jinja expressions
	Sources []SourceRef
	// Config holds values passed to the in-model config() call
	Config map[string]any
	// ConfigPos is the position of the config() block, if any
	ConfigPos token.Position

	// Outline is the CTE structure of the model
	Outline Outline
	// Columns are the output columns of the final select, when they can be determined
	Columns []string
}

// Ref is a ref('model') or ref('package', 'model') call.
type Ref struct {
	Package string
	Name    string
	Pos     token.Position
}

// SourceRef is a source('source', 'table') call.
type SourceRef struct {
	Source string
	Table  string
	Pos    token.Position
}

// Outline is the top-level shape of a model: an optional with clause and the final statement.
type Outline struct {
	HasWith bool
	CTEs    []CTE
	// Final holds the significant tokens after the with clause
	Final []token.Token
}

// CTE is one name as ( ... ) entry of a with clause.
type CTE struct {
	Name string
	Pos  token.Position
	// Body holds the significant tokens between the parentheses
	Body []token.Token
	// Imports counts ref() and source() calls inside the body
	Imports int
}

// IsImport reports whether the CTE only pulls in an upstream relation.
func (c CTE) IsImport() bool {
	return c.Imports > 0
}

// ObjectName returns the object part of a model name: everything after the
// layer prefix and source segment, or before the verb segment for
// intermediate models.
//
//	stg_stripe__invoices     -> invoices
//	base_stripe__customers   -> customers
//	customers__unioned       -> customers
//	fct_orders               -> orders
func ObjectName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "stg_"), strings.HasPrefix(lower, "base_"):
		if i := strings.Index(lower, "__"); i >= 0 {
			return name[i+2:]
		}
		return name[strings.Index(lower, "_")+1:]
	case strings.HasPrefix(lower, "fct_"), strings.HasPrefix(lower, "dim_"):
		return name[4:]
	case strings.HasPrefix(lower, "int_"):
		rest := name[4:]
		if i := strings.Index(rest, "__"); i >= 0 {
			return rest[:i]
		}
		return rest
	}
	if i := strings.Index(lower, "__"); i >= 0 {
		return name[:i]
	}
	return name
}

// Singular returns a best-effort singular form of an English plural noun.
func Singular(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "shes"),
		strings.HasSuffix(lower, "ches"), strings.HasSuffix(lower, "xes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"):
		return word
	case strings.HasSuffix(lower, "s") && len(word) > 1:
		return word[:len(word)-1]
	}
	return word
}
