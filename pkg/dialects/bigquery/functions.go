package bigquery

var bigQueryAggregates = []string{
	"ANY_VALUE",
	"APPROX_COUNT_DISTINCT",
	"APPROX_QUANTILES",
	"APPROX_TOP_COUNT",
	"APPROX_TOP_SUM",
	"ARRAY_AGG",
	"ARRAY_CONCAT_AGG",
	"AVG",
	"BIT_AND",
	"BIT_OR",
	"BIT_XOR",
	"CORR",
	"COUNT",
	"COUNTIF",
	"COVAR_POP",
	"COVAR_SAMP",
	"GROUPING",
	"LOGICAL_AND",
	"LOGICAL_OR",
	"MAX",
	"MAX_BY",
	"MIN",
	"MIN_BY",
	"STDDEV",
	"STDDEV_POP",
	"STDDEV_SAMP",
	"STRING_AGG",
	"SUM",
	"VAR_POP",
	"VAR_SAMP",
	"VARIANCE",
}

var bigQueryWindows = []string{
	"CUME_DIST",
	"DENSE_RANK",
	"FIRST_VALUE",
	"LAG",
	"LAST_VALUE",
	"LEAD",
	"NTH_VALUE",
	"NTILE",
	"PERCENT_RANK",
	"PERCENTILE_CONT",
	"PERCENTILE_DISC",
	"RANK",
	"ROW_NUMBER",
}

var bigQueryGenerators = []string{
	"CURRENT_DATE",
	"CURRENT_DATETIME",
	"CURRENT_TIME",
	"CURRENT_TIMESTAMP",
	"GENERATE_UUID",
	"RAND",
	"SESSION_USER",
}

var bigQueryTableFunctions = []string{
	"APPENDS",
	"CHANGES",
	"EXTERNAL_QUERY",
	"UNNEST",
	"VECTOR_SEARCH",
}

var bigQueryTypes = []string{
	"ARRAY",
	"BIGNUMERIC",
	"BOOL",
	"BYTES",
	"DATE",
	"DATETIME",
	"FLOAT64",
	"GEOGRAPHY",
	"INT64",
	"INTERVAL",
	"JSON",
	"NUMERIC",
	"RANGE",
	"STRING",
	"STRUCT",
	"TIME",
	"TIMESTAMP",
}

// bigQueryReservedWords lists the words that must be quoted with backticks
// when used as identifiers.
var bigQueryReservedWords = []string{
	"ALL", "AND", "ANY", "ARRAY", "AS", "ASC", "ASSERT_ROWS_MODIFIED", "AT",
	"BETWEEN", "BY", "CASE", "CAST", "COLLATE", "CONTAINS", "CREATE", "CROSS",
	"CUBE", "CURRENT", "DEFAULT", "DEFINE", "DESC", "DISTINCT", "ELSE", "END",
	"ENUM", "ESCAPE", "EXCEPT", "EXCLUDE", "EXISTS", "EXTRACT", "FALSE", "FETCH",
	"FOLLOWING", "FOR", "FROM", "FULL", "GROUP", "GROUPING", "GROUPS", "HASH",
	"HAVING", "IF", "IGNORE", "IN", "INNER", "INTERSECT", "INTERVAL", "INTO",
	"IS", "JOIN", "LATERAL", "LEFT", "LIKE", "LIMIT", "LOOKUP", "MERGE",
	"NATURAL", "NEW", "NO", "NOT", "NULL", "NULLS", "OF", "ON", "OR", "ORDER",
	"OUTER", "OVER", "PARTITION", "PRECEDING", "PROTO", "QUALIFY", "RANGE",
	"RECURSIVE", "RESPECT", "RIGHT", "ROLLUP", "ROWS", "SELECT", "SET", "SOME",
	"STRUCT", "TABLESAMPLE", "THEN", "TO", "TREAT", "TRUE", "UNBOUNDED",
	"UNION", "UNNEST", "USING", "WHEN", "WHERE", "WINDOW", "WITH", "WITHIN",
}
