// Package structure provides lint rules for where models and properties
// files live and how folders are configured.
//
// Rules in this package:
//   - PS01: staging models live in staging/<source>/, base models in staging/<source>/base/
//   - PS02: intermediate models live in marts/<unit>/intermediate/
//   - PS03: every model folder carries properties files named after it
//   - PS04: marts materialise as tables
//   - PS05: config repeated in every model of a folder belongs in dbt_project.yml
package structure
