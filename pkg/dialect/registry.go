package dialect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// ErrUnknownDialect is returned by Lookup for names nobody registered.
var ErrUnknownDialect = errors.New("unknown dialect")

var registry = struct {
	sync.RWMutex
	byName map[string]*Dialect
}{byName: make(map[string]*Dialect)}

// Register adds d under its lower-cased name. Dialect packages call it from
// init; registering the same name again replaces the earlier dialect.
func Register(d *Dialect) {
	registry.Lock()
	defer registry.Unlock()
	registry.byName[strings.ToLower(d.Name)] = d
}

// Get returns the dialect registered under name, ignoring case.
func Get(name string) (*Dialect, bool) {
	registry.RLock()
	defer registry.RUnlock()
	d, ok := registry.byName[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Lookup is Get with an error naming the available dialects.
func Lookup(name string) (*Dialect, error) {
	if d, ok := Get(name); ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownDialect, name, strings.Join(List(), ", "))
}

// List returns the registered dialect names, sorted.
func List() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.byName))
	for name := range registry.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
