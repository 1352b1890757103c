// Package jinjastyle provides lint rules for Jinja inside SQL models.
//
// Rules in this package:
//   - JN01: spaces inside Jinja delimiters
//   - JN02: block tags on their own line
package jinjastyle
