// Package rules provides the built-in dbt style rules.
//
// Rules are organized by the part of the style guide they enforce:
//   - naming: model names per layer (NM01-NM07)
//   - structure: folders, properties files and configs (PS01-PS05)
//   - modeltests: documentation and primary key tests (TS01-TS03)
//   - fields: column names, types and order (FC01-FC07)
//   - refs: refs, sources and CTE layout (RF01-RF06)
//   - sqlstyle: SQL formatting and joins (SQ01-SQ12)
//   - yamlstyle: properties file layout (YM01-YM04)
//   - jinjastyle: Jinja formatting (JN01-JN02)
//   - load: unreadable files (LD01)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules"
//
// Individual rule categories can also be imported:
//
//	import _ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/naming"
package rules
