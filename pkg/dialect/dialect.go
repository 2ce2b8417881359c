// Package dialect provides SQL dialect configuration and function classification.
//
// This package contains the public contract for dialect definitions used by the
// parser and the lint rules. Concrete dialects are registered from pkg/dialects/*/.
package dialect

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// ClauseDef bundles clause parsing logic with storage destination.
type ClauseDef = core.ClauseDef

// JoinTypeDef defines a dialect join type.
type JoinTypeDef = core.JoinTypeDef

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Function classifications, keyed by normalized name
	aggregates     map[string]struct{}
	generators     map[string]struct{}
	windows        map[string]struct{}
	tableFunctions map[string]struct{}

	keywords  map[string]struct{}
	dataTypes []string

	// Parsing behavior
	clauseSequence []token.TokenType
	clauseDefs     map[token.TokenType]ClauseDef
	symbols        map[string]token.TokenType
	dynamicKw      map[string]token.TokenType
	precedence     map[token.TokenType]int
	infixHandlers  map[token.TokenType]spi.InfixHandler
	prefixHandlers map[token.TokenType]spi.PrefixHandler
	joinTypes      map[token.TokenType]JoinTypeDef
	starModifiers  map[token.TokenType]spi.StarModifierHandler
	fromItems      map[token.TokenType]spi.FromItemHandler
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	return &core.DialectConfig{
		Name:           d.Name,
		Identifiers:    d.Identifiers,
		Aggregates:     sortedKeys(d.aggregates),
		Generators:     sortedKeys(d.generators),
		Windows:        sortedKeys(d.windows),
		TableFunctions: sortedKeys(d.tableFunctions),
		Keywords:       sortedKeys(d.keywords),
		DataTypes:      d.dataTypes,
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FunctionKind returns the classification of a function by name.
func (d *Dialect) FunctionKind(name string) core.FunctionKind {
	normalized := d.NormalizeName(name)

	if _, ok := d.tableFunctions[normalized]; ok {
		return core.FuncTable
	}
	if _, ok := d.aggregates[normalized]; ok {
		return core.FuncAggregate
	}
	if _, ok := d.generators[normalized]; ok {
		return core.FuncGenerator
	}
	if _, ok := d.windows[normalized]; ok {
		return core.FuncWindow
	}
	return core.FuncScalar
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase:
		return strings.ToLower(name)
	case core.NormCaseInsensitive:
		return Fold(name)
	default: // NormCaseSensitive
		return name
	}
}

// IsAggregate returns true if the function is an aggregate function.
func (d *Dialect) IsAggregate(name string) bool {
	return d.FunctionKind(name) == core.FuncAggregate
}

// IsGenerator returns true if the function generates values without input columns.
func (d *Dialect) IsGenerator(name string) bool {
	return d.FunctionKind(name) == core.FuncGenerator
}

// IsWindow returns true if the function is a window-only function.
func (d *Dialect) IsWindow(name string) bool {
	return d.FunctionKind(name) == core.FuncWindow
}

// IsTableFunction returns true if the function acts as a table source.
func (d *Dialect) IsTableFunction(name string) bool {
	return d.FunctionKind(name) == core.FuncTable
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// Keywords returns the dialect's reserved keywords, sorted.
func (d *Dialect) Keywords() []string {
	return sortedKeys(d.keywords)
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.keywords[strings.ToUpper(word)]
	return ok
}

// DataTypes returns all supported data types.
func (d *Dialect) DataTypes() []string {
	return d.dataTypes
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// ---------- Parsing Behavior Methods ----------

// ClauseSequence returns the ordered list of clause token types for this dialect.
func (d *Dialect) ClauseSequence() []token.TokenType {
	return d.clauseSequence
}

// ClauseHandler returns the handler for a clause token type.
func (d *Dialect) ClauseHandler(t token.TokenType) spi.ClauseHandler {
	if def, ok := d.clauseDefs[t]; ok {
		if h, ok := def.Handler.(spi.ClauseHandler); ok {
			return h
		}
	}
	return nil
}

// ClauseDef returns the definition (handler + slot) for a clause token type.
func (d *Dialect) ClauseDef(t token.TokenType) (ClauseDef, bool) {
	def, ok := d.clauseDefs[t]
	return def, ok
}

// IsClauseToken returns true if this dialect supports the given clause token.
func (d *Dialect) IsClauseToken(t token.TokenType) bool {
	_, ok := d.clauseDefs[t]
	return ok
}

// Symbols returns the custom operators map for lexer symbol matching.
func (d *Dialect) Symbols() map[string]token.TokenType {
	return d.symbols
}

// LookupKeyword returns the token type for a dialect keyword.
// Returns IDENT and false if the word is not a keyword of this dialect.
func (d *Dialect) LookupKeyword(name string) (token.TokenType, bool) {
	if t, ok := d.dynamicKw[strings.ToUpper(name)]; ok {
		return t, true
	}
	return token.IDENT, false
}

// Precedence returns the precedence level for an operator token.
// Returns 0 (PrecedenceNone) if the operator is not recognized.
func (d *Dialect) Precedence(t token.TokenType) int {
	if p, ok := d.precedence[t]; ok {
		return p
	}
	return spi.PrecedenceNone
}

// InfixHandler returns the custom infix handler for an operator token.
func (d *Dialect) InfixHandler(t token.TokenType) spi.InfixHandler {
	return d.infixHandlers[t]
}

// PrefixHandler returns the custom prefix handler for a token.
func (d *Dialect) PrefixHandler(t token.TokenType) spi.PrefixHandler {
	return d.prefixHandlers[t]
}

// JoinTypeDef returns the definition for a join type token.
func (d *Dialect) JoinTypeDef(t token.TokenType) (JoinTypeDef, bool) {
	def, ok := d.joinTypes[t]
	return def, ok
}

// IsJoinTypeToken returns true if the token starts a join type.
func (d *Dialect) IsJoinTypeToken(t token.TokenType) bool {
	_, ok := d.joinTypes[t]
	return ok
}

// StarModifierHandler returns the handler for a star modifier token type.
func (d *Dialect) StarModifierHandler(t token.TokenType) spi.StarModifierHandler {
	return d.starModifiers[t]
}

// IsStarModifierToken returns true if the token is a star modifier.
func (d *Dialect) IsStarModifierToken(t token.TokenType) bool {
	return d.starModifiers[t] != nil
}

// FromItemHandler returns the handler for a FROM item token type.
func (d *Dialect) FromItemHandler(t token.TokenType) spi.FromItemHandler {
	return d.fromItems[t]
}

// IsFromItemToken returns true if the token is a FROM item extension (e.g., PIVOT, UNPIVOT).
func (d *Dialect) IsFromItemToken(t token.TokenType) bool {
	return d.fromItems[t] != nil
}
