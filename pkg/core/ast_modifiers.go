package core

// StarModifier is implemented by ExceptModifier and ReplaceModifier.
type StarModifier interface {
	starModifier()
}

// ExceptModifier represents * EXCEPT (col1, col2, ...).
type ExceptModifier struct {
	Columns []string
}

func (*ExceptModifier) starModifier() {}

// ReplaceItem represents a single replacement in REPLACE modifier.
type ReplaceItem struct {
	Expr  Expr
	Alias string
}

// ReplaceModifier represents * REPLACE (expr AS col, ...).
type ReplaceModifier struct {
	Items []ReplaceItem
}

func (*ReplaceModifier) starModifier() {}
