// Package fields provides lint rules for the columns a model outputs.
//
// Columns are read from the model's final select, following select * through
// CTEs where possible. Types come from the properties file's data_type, or
// from a cast in the column's expression.
//
// Rules in this package:
//   - FC01: column names are snake_case
//   - FC02: timestamp columns are named <event>_at
//   - FC03: boolean columns start with is_ or has_
//   - FC04: column names are not reserved words
//   - FC05: integer money columns carry an _in_cents suffix
//   - FC06: base and staging models list ids first and timestamps last
//   - FC07: a relationships test column is named like the field it references
package fields
