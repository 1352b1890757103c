// Package naming provides lint rules for model names.
//
// Rules in this package:
//   - NM01: staging models are stg_<source>__<objects>
//   - NM02: base models are base_<source>__<objects>
//   - NM03: intermediate models are <objects>__<verb>, verb in the past tense
//   - NM04: mart models are prefixed fct_ or dim_
//   - NM05: the object part of a model name is plural
//   - NM06: model names are snake_case
//   - NM07: a layer prefix matches the folder the model lives in
package naming
