// Package modeltests provides lint rules for model documentation and tests
// declared in properties files.
//
// Rules in this package:
//   - TS01: every model is described in a properties file of its own folder
//   - TS02: every model has a primary key tested unique and not_null
//   - TS03: the primary key is named <object>_id
package modeltests
