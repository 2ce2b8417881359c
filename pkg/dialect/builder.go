package dialect

import (
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/spi"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
			aggregates:     make(map[string]struct{}),
			generators:     make(map[string]struct{}),
			windows:        make(map[string]struct{}),
			tableFunctions: make(map[string]struct{}),
			keywords:       make(map[string]struct{}),
			clauseDefs:     make(map[token.TokenType]ClauseDef),
			symbols:        make(map[string]token.TokenType),
			dynamicKw:      make(map[string]token.TokenType),
			precedence:     make(map[token.TokenType]int),
			infixHandlers:  make(map[token.TokenType]spi.InfixHandler),
			prefixHandlers: make(map[token.TokenType]spi.PrefixHandler),
			joinTypes:      make(map[token.TokenType]JoinTypeDef),
			starModifiers:  make(map[token.TokenType]spi.StarModifierHandler),
			fromItems:      make(map[token.TokenType]spi.FromItemHandler),
		},
	}
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

func (b *Builder) addFuncs(set map[string]struct{}, funcs []string) {
	for _, f := range funcs {
		set[b.dialect.NormalizeName(f)] = struct{}{}
	}
}

// Aggregates adds aggregate functions to the dialect.
func (b *Builder) Aggregates(funcs ...string) *Builder {
	b.addFuncs(b.dialect.aggregates, funcs)
	return b
}

// Generators adds generator functions (no input columns) to the dialect.
func (b *Builder) Generators(funcs ...string) *Builder {
	b.addFuncs(b.dialect.generators, funcs)
	return b
}

// Windows adds window-only functions to the dialect.
func (b *Builder) Windows(funcs ...string) *Builder {
	b.addFuncs(b.dialect.windows, funcs)
	return b
}

// TableFunctions adds table-valued functions to the dialect.
func (b *Builder) TableFunctions(funcs ...string) *Builder {
	b.addFuncs(b.dialect.tableFunctions, funcs)
	return b
}

// WithKeywords registers reserved keywords.
func (b *Builder) WithKeywords(kws ...string) *Builder {
	for _, kw := range kws {
		b.dialect.keywords[strings.ToUpper(kw)] = struct{}{}
	}
	return b
}

// WithDataTypes registers supported data types.
func (b *Builder) WithDataTypes(types ...string) *Builder {
	b.dialect.dataTypes = append(b.dialect.dataTypes, types...)
	return b
}

// AddOperator registers a custom operator symbol for the lexer.
func (b *Builder) AddOperator(symbol string, t token.TokenType) *Builder {
	b.dialect.symbols[symbol] = t
	return b
}

// AddKeyword registers a dialect keyword for the lexer.
func (b *Builder) AddKeyword(name string, t token.TokenType) *Builder {
	b.dialect.dynamicKw[strings.ToUpper(name)] = t
	b.dialect.keywords[strings.ToUpper(name)] = struct{}{}
	return b
}

// Clauses sets the clause sequence from a list of ClauseDefs.
func (b *Builder) Clauses(defs ...ClauseDef) *Builder {
	b.dialect.clauseSequence = make([]token.TokenType, len(defs))
	for i, def := range defs {
		b.dialect.clauseSequence[i] = def.Token
		b.dialect.clauseDefs[def.Token] = def
		core.RecordClause(def.Token, def.Token.String())
	}
	return b
}

// AddInfix registers an infix operator with precedence.
func (b *Builder) AddInfix(t token.TokenType, precedence int) *Builder {
	b.dialect.precedence[t] = precedence
	return b
}

// AddInfixWithHandler registers an infix operator with custom handler.
func (b *Builder) AddInfixWithHandler(t token.TokenType, precedence int, handler spi.InfixHandler) *Builder {
	b.dialect.precedence[t] = precedence
	b.dialect.infixHandlers[t] = handler
	return b
}

// AddPrefix registers a prefix expression handler (e.g., [ for array literals).
func (b *Builder) AddPrefix(t token.TokenType, handler spi.PrefixHandler) *Builder {
	b.dialect.prefixHandlers[t] = handler
	return b
}

// AddStarModifier registers a star modifier handler (e.g., EXCEPT, REPLACE).
func (b *Builder) AddStarModifier(t token.TokenType, handler spi.StarModifierHandler) *Builder {
	b.dialect.starModifiers[t] = handler
	return b
}

// AddFromItem registers a FROM clause item handler (e.g., PIVOT, UNPIVOT).
func (b *Builder) AddFromItem(t token.TokenType, handler spi.FromItemHandler) *Builder {
	b.dialect.fromItems[t] = handler
	return b
}

// Operators adds operator definitions in bulk.
// If Symbol is provided, it's registered with the lexer.
func (b *Builder) Operators(sets ...[]core.OperatorDef) *Builder {
	for _, set := range sets {
		for _, op := range set {
			b.dialect.precedence[op.Token] = op.Precedence
			if h, ok := op.Handler.(spi.InfixHandler); ok && h != nil {
				b.dialect.infixHandlers[op.Token] = h
			}
			if op.Symbol != "" {
				b.dialect.symbols[op.Symbol] = op.Token
			}
		}
	}
	return b
}

// JoinTypes adds join type definitions in bulk.
func (b *Builder) JoinTypes(sets ...[]JoinTypeDef) *Builder {
	for _, set := range sets {
		for _, jt := range set {
			b.dialect.joinTypes[jt.Token] = jt
		}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
