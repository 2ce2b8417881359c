package core

import (
	"sync"

	"github.com/leapstack-labs/bqlint/pkg/token"
)

// clauses records every token any registered dialect uses as a clause
// keyword, so the parser can say "QUALIFY is not valid here" instead of
// reporting an unexpected identifier.
var clauses = struct {
	sync.RWMutex
	names map[token.TokenType]string
}{names: make(map[token.TokenType]string)}

// RecordClause registers t as a clause keyword. dialect.Builder calls it
// for every clause handler.
func RecordClause(t token.TokenType, name string) {
	clauses.Lock()
	defer clauses.Unlock()
	clauses.names[t] = name
}

// IsKnownClause returns the clause name of t, if some dialect uses it.
func IsKnownClause(t token.TokenType) (string, bool) {
	clauses.RLock()
	defer clauses.RUnlock()
	name, ok := clauses.names[t]
	return name, ok
}
