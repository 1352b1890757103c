package sqlscan

import "strings"

// keywords are words the scanner classifies as KEYWORD. The list covers the
// ANSI core plus the warehouse dialects dbt projects commonly target, and the
// type and date-part names that appear after "as" or "interval".
var keywords = makeSet(
	// clauses
	"select", "from", "where", "group", "by", "having", "order", "limit", "offset",
	"qualify", "window", "with", "recursive", "as", "on", "using", "into", "values",
	"fetch", "next", "only", "top", "sample", "tablesample", "pivot", "unpivot",

	// joins and set operations
	"join", "inner", "left", "right", "full", "outer", "cross", "natural", "lateral",
	"semi", "anti", "asof", "union", "all", "intersect", "except", "minus",

	// predicates and expressions
	"and", "or", "not", "in", "is", "null", "like", "ilike", "rlike", "similar",
	"between", "exists", "any", "some", "case", "when", "then", "else", "end",
	"distinct", "true", "false", "cast", "try_cast", "interval", "escape", "collate",
	"over", "partition", "rows", "range", "groups", "unbounded", "preceding",
	"following", "current", "row", "filter", "within", "ignore", "respect", "nulls",
	"first", "last", "asc", "desc", "at", "zone", "exclude", "replace", "rename",

	// ddl and dml
	"create", "table", "view", "insert", "update", "delete", "merge", "set", "if",
	"drop", "alter", "primary", "key", "references", "default", "materialized",

	// types
	"int", "integer", "bigint", "smallint", "tinyint", "decimal", "numeric", "number",
	"float", "float4", "float8", "double", "precision", "real", "varchar", "char",
	"character", "varying", "text", "string", "boolean", "bool", "date", "time",
	"timestamp", "timestamptz", "timestamp_ntz", "timestamp_ltz", "timestamp_tz",
	"datetime", "variant", "object", "array", "struct", "map", "json", "jsonb",
	"binary", "varbinary", "bytes", "int64", "float64", "geography", "uuid",

	// date parts
	"year", "years", "quarter", "month", "months", "week", "weeks", "day", "days",
	"hour", "hours", "minute", "minutes", "second", "seconds", "millisecond",
	"milliseconds", "microsecond", "microseconds", "epoch", "dow", "doy",
)

// reservedWords are words that should never be used as column names.
// They are the subset of keywords that most warehouses reject or require
// quoting for.
var reservedWords = makeSet(
	"all", "and", "any", "array", "as", "asc", "between", "both", "by", "case",
	"cast", "check", "collate", "column", "constraint", "create", "cross",
	"current", "current_date", "current_time", "current_timestamp", "current_user",
	"default", "delete", "desc", "distinct", "drop", "else", "end", "except",
	"exists", "false", "fetch", "for", "foreign", "from", "full", "grant", "group",
	"having", "in", "inner", "insert", "intersect", "interval", "into", "is", "join",
	"lateral", "leading", "left", "like", "limit", "natural", "not", "null",
	"offset", "on", "only", "or", "order", "outer", "over", "partition", "primary",
	"qualify", "range", "references", "right", "row", "rows", "select", "set",
	"some", "table", "then", "to", "trailing", "true", "union", "unique", "update",
	"user", "using", "values", "when", "where", "window", "with",
	// commonly reserved or ambiguous in at least one major warehouse
	"date", "time", "timestamp", "year", "month", "day", "hour", "minute", "second",
	"type", "value", "level", "comment", "session", "schema", "database",
)

// aggregateFunctions are functions that collapse rows.
var aggregateFunctions = makeSet(
	"count", "count_if", "sum", "avg", "min", "max", "array_agg", "string_agg",
	"listagg", "group_concat", "median", "mode", "stddev", "stddev_pop",
	"stddev_samp", "variance", "var_pop", "var_samp", "bool_and", "bool_or",
	"bit_and", "bit_or", "every", "any_value", "approx_count_distinct",
	"approx_percentile", "percentile_cont", "percentile_disc", "hll", "corr",
	"covar_pop", "covar_samp", "object_agg", "arbitrary", "first_value",
	"last_value", "row_number", "rank", "dense_rank", "ntile", "lag", "lead",
	"cume_dist", "percent_rank", "nth_value",
)

// IsKeyword reports whether word is scanned as a keyword.
func IsKeyword(word string) bool {
	return keywords[strings.ToLower(word)]
}

// IsReserved reports whether word is a reserved word unsuitable as a column name.
func IsReserved(word string) bool {
	return reservedWords[strings.ToLower(word)]
}

// IsAggregate reports whether name is an aggregate or window function.
func IsAggregate(name string) bool {
	return aggregateFunctions[strings.ToLower(name)]
}

func makeSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
