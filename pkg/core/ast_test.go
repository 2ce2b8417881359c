package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnRefName(t *testing.T) {
	tests := []struct {
		name string
		ref  ColumnRef
		want string
	}{
		{"bare", ColumnRef{Column: "id"}, "id"},
		{"qualified", ColumnRef{Table: "t", Column: "id"}, "t.id"},
		{"struct field", ColumnRef{Table: "t", Column: "addr", Fields: []string{"city"}}, "t.addr.city"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.Name())
		})
	}
}

func TestTableAlias(t *testing.T) {
	assert.Equal(t, "orders", TableAlias(&TableName{Name: "orders"}))
	assert.Equal(t, "o", TableAlias(&TableName{Name: "orders", Alias: "o"}))
	assert.Equal(t, "sub", TableAlias(&DerivedTable{Alias: "sub"}))
	assert.Equal(t, "item", TableAlias(&TableFunction{Alias: "item"}))
	assert.Equal(t, "", TableAlias(nil))
}

func TestQualifiedName(t *testing.T) {
	tbl := &TableName{Catalog: "proj", Schema: "ds", Name: "events"}
	assert.Equal(t, "proj.ds.events", tbl.QualifiedName())
	assert.Equal(t, "events", (&TableName{Name: "events"}).QualifiedName())
}

func TestSelectCoreHasLimit(t *testing.T) {
	var nilCore *SelectCore
	assert.False(t, nilCore.HasLimit())
	assert.False(t, (&SelectCore{}).HasLimit())
	assert.True(t, (&SelectCore{Limit: &Literal{Value: "1"}}).HasLimit())
	assert.True(t, (&SelectCore{Offset: &Literal{Value: "1"}}).HasLimit())
}

func TestParseSeverity(t *testing.T) {
	sev, ok := ParseSeverity("ERROR")
	assert.True(t, ok)
	assert.Equal(t, SeverityError, sev)

	sev, ok = ParseSeverity("bogus")
	assert.False(t, ok)
	assert.Equal(t, SeverityWarning, sev)
	assert.Equal(t, "hint", SeverityHint.String())
}
