package core

import (
	"path"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// PropertiesFile is a .yml file under the models directory describing models and sources.
type PropertiesFile struct {
	// Name is the file name including extension, e.g. "src_stripe.yml"
	Name string
	// Path is the slash-separated path relative to the models directory
	Path string
	// FilePath is the absolute path to the file
	FilePath string
	// Dir is the slash-separated directory relative to the models directory
	Dir string
	// Content is the raw file content
	Content string
	// Lines is Content split on newlines without terminators
	Lines []string

	Models  []ModelProperties
	Sources []SourceProperties
}

// Stem returns the file name without its extension.
func (f *PropertiesFile) Stem() string {
	return strings.TrimSuffix(f.Name, path.Ext(f.Name))
}

// ModelProperties is one entry of the models: list.
type ModelProperties struct {
	Name        string
	Pos         token.Position
	Description string
	Config      map[string]any
	Columns     []ColumnProperties
	Tests       []TestSpec
}

// Column returns the column with the given name (case-insensitive).
func (m *ModelProperties) Column(name string) (*ColumnProperties, bool) {
	for i := range m.Columns {
		if strings.EqualFold(m.Columns[i].Name, name) {
			return &m.Columns[i], true
		}
	}
	return nil, false
}

// ColumnProperties is one entry of a model's columns: list.
type ColumnProperties struct {
	Name        string
	Pos         token.Position
	DataType    string
	Description string
	Tests       []TestSpec
}

// HasTest reports whether the column declares a test with the given name.
func (c *ColumnProperties) HasTest(name string) bool {
	for _, t := range c.Tests {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Test returns the first test with the given name.
func (c *ColumnProperties) Test(name string) (TestSpec, bool) {
	for _, t := range c.Tests {
		if t.Name == name {
			return t, true
		}
	}
	return TestSpec{}, false
}

// TestSpec is a generic test attached to a model or column,
// written either as "- unique" or as "- relationships: {to: ..., field: ...}".
type TestSpec struct {
	Name string
	Args map[string]any
	Pos  token.Position
}

// StringArg returns a string argument of the test.
func (t TestSpec) StringArg(key string) string {
	if t.Args == nil {
		return ""
	}
	if s, ok := t.Args[key].(string); ok {
		return s
	}
	return ""
}

// SourceProperties is one entry of the sources: list.
type SourceProperties struct {
	Name   string
	Pos    token.Position
	Tables []string
}
