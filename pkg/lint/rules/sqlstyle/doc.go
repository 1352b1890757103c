// Package sqlstyle provides lint rules for how SQL is written inside models.
//
// The rules read the model's token stream and the selects recovered from
// it; they never need a full SQL grammar, so Jinja-heavy models are checked
// as far as their SQL goes.
//
// Rules in this package:
//   - SQ01: commas trail, never lead
//   - SQ02: four-space indentation, no tabs
//   - SQ03: line length
//   - SQ04: lowercase keywords, functions and fields
//   - SQ05: aliases use as
//   - SQ06: union all instead of union
//   - SQ07: inner join instead of a bare join
//   - SQ08: no right joins
//   - SQ09: join aliases are not short initialisms
//   - SQ10: group by column positions
//   - SQ11: fields before aggregates and window functions
//   - SQ12: qualified columns when joining
package sqlstyle
