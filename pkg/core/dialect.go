package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data — no handler functions.
//
// The runtime behavior (clause handlers, infix handlers, etc.) lives in
// pkg/dialect.Dialect, which embeds this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "bigquery")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// Function classifications (normalized names)
	Aggregates     []string // SUM, COUNT, AVG, etc.
	Generators     []string // CURRENT_DATE, RAND, GENERATE_UUID, etc.
	Windows        []string // ROW_NUMBER, LAG, LEAD, etc.
	TableFunctions []string // UNNEST, EXTERNAL_QUERY, etc.

	// Keywords for autocomplete/highlighting
	Keywords  []string
	DataTypes []string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL, ClickHouse).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (BigQuery, Hive, DuckDB).
	NormCaseInsensitive
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// FunctionKind classifies how a function consumes its input rows.
type FunctionKind int

const (
	// FuncScalar is a row-wise function (default).
	FuncScalar FunctionKind = iota
	// FuncAggregate collapses many rows to one value.
	FuncAggregate
	// FuncGenerator produces values with no column input (CURRENT_DATE, RAND).
	FuncGenerator
	// FuncWindow requires an OVER clause.
	FuncWindow
	// FuncTable returns rows and appears in FROM.
	FuncTable
)

// String returns the string representation of FunctionKind.
func (k FunctionKind) String() string {
	switch k {
	case FuncScalar:
		return "scalar"
	case FuncAggregate:
		return "aggregate"
	case FuncGenerator:
		return "generator"
	case FuncWindow:
		return "window"
	case FuncTable:
		return "table"
	default:
		return "unknown"
	}
}
