package core

import "github.com/leapstack-labs/bqlint/pkg/token"

// ---------- Table Reference Types ----------

// TableName represents a table path: [project.][dataset.]table.
type TableName struct {
	NodeInfo
	Catalog   string // project
	Schema    string // dataset
	Name      string
	Alias     string
	AliasSpan token.Span
}

func (*TableName) tableRefNode() {}

// QualifiedName returns the dotted path as written.
func (t *TableName) QualifiedName() string {
	name := t.Name
	if t.Schema != "" {
		name = t.Schema + "." + name
	}
	if t.Catalog != "" {
		name = t.Catalog + "." + name
	}
	return name
}

// DerivedTable represents a subquery in FROM clause.
type DerivedTable struct {
	NodeInfo
	Select *SelectStmt
	Alias  string
}

func (*DerivedTable) tableRefNode() {}

// TableFunction represents a table-valued call in FROM, such as UNNEST(arr).
type TableFunction struct {
	NodeInfo
	Func        *FuncCall
	Alias       string
	WithOffset  bool
	OffsetAlias string
}

func (*TableFunction) tableRefNode() {}

// ---------- PIVOT/UNPIVOT Table References ----------

// PivotTable represents source PIVOT (agg FOR col IN (values)).
type PivotTable struct {
	NodeInfo
	Source     TableRef
	Aggregates []PivotAggregate
	ForColumn  *ColumnRef
	InValues   []PivotInValue
	Alias      string
}

func (*PivotTable) tableRefNode() {}

// PivotAggregate represents an aggregate in PIVOT.
type PivotAggregate struct {
	Func  *FuncCall
	Alias string
}

// PivotInValue represents a value in PIVOT ... IN (...).
type PivotInValue struct {
	Value Expr
	Alias string
}

// UnpivotTable represents source UNPIVOT (value FOR name IN (columns)).
type UnpivotTable struct {
	NodeInfo
	Source       TableRef
	ValueColumns []string
	NameColumn   string
	InColumns    []UnpivotInGroup
	Alias        string
}

func (*UnpivotTable) tableRefNode() {}

// UnpivotInGroup represents one entry of UNPIVOT ... IN (...).
type UnpivotInGroup struct {
	Columns []*ColumnRef
	Alias   string
}

// TableAlias returns the alias a FROM item binds, falling back to the table name.
func TableAlias(ref TableRef) string {
	switch t := ref.(type) {
	case *TableName:
		if t.Alias != "" {
			return t.Alias
		}
		return t.Name
	case *DerivedTable:
		return t.Alias
	case *TableFunction:
		return t.Alias
	case *PivotTable:
		return t.Alias
	case *UnpivotTable:
		return t.Alias
	}
	return ""
}
