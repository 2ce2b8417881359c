// Package cteusage finds CTE output columns that nothing downstream consumes.
//
// The analysis runs in two steps. Collect walks a parsed statement once,
// registering every CTE with its output columns and marking a column used the
// moment a reference resolves to it. Resolve then reports every column still
// unused, in declaration order.
//
// References are resolved conservatively in both directions:
//   - a reference that resolves to nothing (a base table column, an unknown
//     alias) is ignored and never marks anything used
//   - an unqualified name that matches columns of several visible CTEs marks
//     all of them used
//
// Columns produced by SELECT * are never reported, and a CTE that failed to
// parse has no columns to report.
package cteusage

import (
	"github.com/leapstack-labs/bqlint/pkg/dialect"
	"github.com/leapstack-labs/bqlint/pkg/token"
)

// ColumnDefinition is one output column of a CTE.
type ColumnDefinition struct {
	// Name is the name consumers use: the alias, the referenced column name,
	// or BigQuery's positional f<n>_ name for an unaliased expression.
	Name string
	// Span covers the defining expression.
	Span token.Span
	// Used only ever changes from false to true.
	Used bool
	// IsStarExpansion marks columns mirrored from an upstream source by SELECT *.
	IsStarExpansion bool
	// Anonymous marks an unaliased computed column that cannot be referenced by name.
	Anonymous bool

	key string // folded Name
}

// Reportable reports whether the column is subject to the unused check.
func (c *ColumnDefinition) Reportable() bool {
	return !c.IsStarExpansion && !c.Anonymous
}

func (c *ColumnDefinition) markUsed() {
	c.Used = true
}

// CteDefinition is one named CTE of a WITH clause.
type CteDefinition struct {
	ID       int
	Name     string
	NameSpan token.Span
	Columns  []*ColumnDefinition
}

// columns returns every column whose name folds to key.
func (d *CteDefinition) columns(key string) []*ColumnDefinition {
	var out []*ColumnDefinition
	for _, col := range d.Columns {
		if col.key == key {
			out = append(out, col)
		}
	}
	return out
}

// Model is the query-wide CTE namespace.
//
// Definitions are kept in registration order and addressed by ID. A name
// that is registered again shadows the earlier definition for lookups, but
// the earlier definition keeps its columns and is still checked.
type Model struct {
	ctes   []*CteDefinition
	latest map[string]int
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{latest: make(map[string]int)}
}

// RegisterCTE adds a definition and makes it the target of name lookups.
func (m *Model) RegisterCTE(name string, nameSpan token.Span, columns []*ColumnDefinition) *CteDefinition {
	def := &CteDefinition{
		ID:       len(m.ctes),
		Name:     name,
		NameSpan: nameSpan,
		Columns:  columns,
	}
	for _, col := range columns {
		col.key = dialect.Fold(col.Name)
	}
	m.ctes = append(m.ctes, def)
	m.latest[dialect.Fold(name)] = def.ID
	return def
}

// saveNames records the lookup targets of names, -1 when unregistered.
func (m *Model) saveNames(names []string) map[string]int {
	saved := make(map[string]int, len(names))
	for _, name := range names {
		key := dialect.Fold(name)
		if _, ok := saved[key]; ok {
			continue
		}
		id, ok := m.latest[key]
		if !ok {
			id = -1
		}
		saved[key] = id
	}
	return saved
}

// restoreNames undoes the lookups registered since saveNames. The
// definitions themselves stay in the model.
func (m *Model) restoreNames(saved map[string]int) {
	for key, id := range saved {
		if id < 0 {
			delete(m.latest, key)
			continue
		}
		m.latest[key] = id
	}
}

// CTEs returns every registered definition in registration order.
func (m *Model) CTEs() []*CteDefinition {
	return m.ctes
}

// Lookup returns the latest definition registered under name.
func (m *Model) Lookup(name string) (*CteDefinition, bool) {
	id, ok := m.latest[dialect.Fold(name)]
	if !ok {
		return nil, false
	}
	return m.ctes[id], true
}

// PushScope creates a child scope of parent. A nil parent starts a root scope.
func (m *Model) PushScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// ResolveAlias looks an alias up in s and its ancestors, innermost first.
// It returns the bound CTE, or nil with ok set when the alias names an
// opaque source. ok is false when the alias is not bound at all.
func (m *Model) ResolveAlias(s *Scope, alias string) (cte *CteDefinition, ok bool) {
	key := dialect.Fold(alias)
	for sc := s; sc != nil; sc = sc.parent {
		for _, b := range sc.bindings {
			if b.alias != key {
				continue
			}
			if b.target < 0 {
				return nil, true
			}
			return m.ctes[b.target], true
		}
	}
	return nil, false
}

// opaque is the binding target of a source whose columns are not tracked.
const opaque = -1

type binding struct {
	alias  string // folded
	target int    // CTE ID or opaque
}

// Scope holds the FROM-clause aliases visible in one query block.
type Scope struct {
	parent   *Scope
	bindings []binding
}

// Bind binds alias to a CTE, or to an opaque source when cte is nil.
// Rebinding an alias in the same scope replaces the earlier binding.
func (s *Scope) Bind(alias string, cte *CteDefinition) {
	if alias == "" {
		return
	}
	target := opaque
	if cte != nil {
		target = cte.ID
	}
	key := dialect.Fold(alias)
	for i := range s.bindings {
		if s.bindings[i].alias == key {
			s.bindings[i].target = target
			return
		}
	}
	s.bindings = append(s.bindings, binding{alias: key, target: target})
}

// Parent returns the enclosing scope, or nil.
func (s *Scope) Parent() *Scope {
	return s.parent
}
