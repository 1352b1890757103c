package loader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
	"gopkg.in/yaml.v3"
)

// ParseError is a properties or project file that could not be parsed.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		if e.Line > 0 {
			return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Pos returns the error location as a token position.
func (e *ParseError) Pos() token.Position {
	return token.Position{Line: e.Line, Column: e.Column}
}

var yamlLine = regexp.MustCompile(`line (\d+):\s*`)

// yamlError converts a yaml.v3 error into a ParseError with its line.
func yamlError(file string, err error) *ParseError {
	pe := &ParseError{File: file, Message: err.Error()}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		pe.Message = typeErr.Errors[0]
	}
	if m := yamlLine.FindStringSubmatch(pe.Message); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
		pe.Message = yamlLine.ReplaceAllString(pe.Message, "")
	}
	return pe
}

// ParseProperties parses a dbt properties file. Entries that are not shaped
// as dbt expects are skipped; a structural problem at the top level or a YAML
// syntax error returns a *ParseError.
func ParseProperties(file string, content []byte) ([]core.ModelProperties, []core.SourceProperties, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, nil, yamlError(file, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, &ParseError{File: file, Line: root.Line, Column: root.Column, Message: "expected a mapping at the top level"}
	}

	var models []core.ModelProperties
	var sources []core.SourceProperties

	if node := mappingValue(root, "models"); node != nil {
		if node.Kind != yaml.SequenceNode {
			return nil, nil, &ParseError{File: file, Line: node.Line, Column: node.Column, Message: "models: must be a list"}
		}
		for _, item := range node.Content {
			if mp, ok := parseModelProperties(item); ok {
				models = append(models, mp)
			}
		}
	}

	if node := mappingValue(root, "sources"); node != nil {
		if node.Kind != yaml.SequenceNode {
			return nil, nil, &ParseError{File: file, Line: node.Line, Column: node.Column, Message: "sources: must be a list"}
		}
		for _, item := range node.Content {
			if sp, ok := parseSourceProperties(item); ok {
				sources = append(sources, sp)
			}
		}
	}

	return models, sources, nil
}

func parseModelProperties(n *yaml.Node) (core.ModelProperties, bool) {
	if n.Kind != yaml.MappingNode {
		return core.ModelProperties{}, false
	}
	nameNode := mappingValue(n, "name")
	if nameNode == nil || nameNode.Kind != yaml.ScalarNode {
		return core.ModelProperties{}, false
	}

	mp := core.ModelProperties{
		Name:        nameNode.Value,
		Pos:         nodePos(nameNode),
		Description: scalarValue(n, "description"),
		Config:      decodeMap(mappingValue(n, "config")),
		Tests:       parseTests(n),
	}

	if cols := mappingValue(n, "columns"); cols != nil && cols.Kind == yaml.SequenceNode {
		for _, c := range cols.Content {
			if c.Kind != yaml.MappingNode {
				continue
			}
			cn := mappingValue(c, "name")
			if cn == nil || cn.Kind != yaml.ScalarNode {
				continue
			}
			mp.Columns = append(mp.Columns, core.ColumnProperties{
				Name:        cn.Value,
				Pos:         nodePos(cn),
				DataType:    scalarValue(c, "data_type"),
				Description: scalarValue(c, "description"),
				Tests:       parseTests(c),
			})
		}
	}
	return mp, true
}

// parseTests reads tests: and data_tests: lists. Each entry is either a test
// name or a single-key mapping from the test name to its arguments.
func parseTests(n *yaml.Node) []core.TestSpec {
	var tests []core.TestSpec
	for _, key := range []string{"tests", "data_tests"} {
		list := mappingValue(n, key)
		if list == nil || list.Kind != yaml.SequenceNode {
			continue
		}
		for _, item := range list.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				tests = append(tests, core.TestSpec{Name: item.Value, Pos: nodePos(item)})
			case yaml.MappingNode:
				if len(item.Content) < 2 {
					continue
				}
				spec := core.TestSpec{Name: item.Content[0].Value, Pos: nodePos(item.Content[0])}
				spec.Args = decodeMap(item.Content[1])
				// newer dbt nests arguments under arguments:
				if nested, ok := spec.Args["arguments"].(map[string]any); ok {
					for k, v := range nested {
						spec.Args[k] = v
					}
				}
				tests = append(tests, spec)
			}
		}
	}
	return tests
}

func parseSourceProperties(n *yaml.Node) (core.SourceProperties, bool) {
	if n.Kind != yaml.MappingNode {
		return core.SourceProperties{}, false
	}
	nameNode := mappingValue(n, "name")
	if nameNode == nil || nameNode.Kind != yaml.ScalarNode {
		return core.SourceProperties{}, false
	}
	sp := core.SourceProperties{Name: nameNode.Value, Pos: nodePos(nameNode)}
	if tables := mappingValue(n, "tables"); tables != nil && tables.Kind == yaml.SequenceNode {
		for _, t := range tables.Content {
			if name := scalarValue(t, "name"); name != "" {
				sp.Tables = append(sp.Tables, name)
			}
		}
	}
	return sp, true
}

// mappingValue returns the value node for key in a mapping node.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func scalarValue(n *yaml.Node, key string) string {
	v := mappingValue(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

func decodeMap(n *yaml.Node) map[string]any {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	var out map[string]any
	if err := n.Decode(&out); err != nil {
		return nil
	}
	return out
}

func nodePos(n *yaml.Node) token.Position {
	return token.Position{Line: n.Line, Column: n.Column}
}
