// Package refs provides lint rules for how models reference each other and
// how their CTEs are laid out.
//
// Rules in this package:
//   - RF01: only staging and base models call source()
//   - RF02: no hard-coded relations; use ref() or source()
//   - RF03: every ref() and source() sits in an import CTE at the top
//   - RF04: a model with CTEs ends with select * from <cte>
//   - RF05: logic CTEs duplicated across models
//   - RF06: CTEs that are defined but never used
package refs
