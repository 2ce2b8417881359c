package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// coreImports returns every non-stdlib import of the non-test files in pkg/core.
func coreImports(t *testing.T) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()
	entries, err := os.ReadDir(".")
	require.NoError(t, err)

	imports := make(map[string][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(".", name), nil, parser.ImportsOnly)
		require.NoError(t, err, name)
		for _, imp := range f.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if strings.Contains(path, ".") {
				imports[name] = append(imports[name], path)
			}
		}
	}
	return imports
}

// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
func TestCoreImportsOnlyToken(t *testing.T) {
	for file, paths := range coreImports(t) {
		for _, path := range paths {
			if path != "github.com/leapstack-labs/bqlint/pkg/token" {
				t.Errorf("%s imports forbidden package: %s", file, path)
			}
		}
	}
}

func TestCoreDoesNotImportMechanisms(t *testing.T) {
	forbidden := []string{"/internal/", "/pkg/spi", "/pkg/dialect", "/pkg/parser", "/pkg/lint"}
	for file, paths := range coreImports(t) {
		for _, path := range paths {
			for _, f := range forbidden {
				if strings.Contains(path, f) {
					t.Errorf("%s imports %s (core must stay a leaf package)", file, path)
				}
			}
		}
	}
}
