// Package yamlstyle provides lint rules for the layout of properties files.
//
// Only files that parse as YAML reach these rules; files that do not are
// reported by LD01.
//
// Rules in this package:
//   - YM01: two-space indentation, no tabs
//   - YM02: list items indented under their key
//   - YM03: line length
//   - YM04: blank line between multi-line dictionary list items
package yamlstyle
