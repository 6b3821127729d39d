package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// parseImports returns the imports of every non-test Go file in dir, by file name.
func parseImports(t *testing.T, dir string) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}

	imports := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}
		for _, imp := range f.Imports {
			imports[entry.Name()] = append(imports[entry.Name()], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return imports
}

// TestCoreImportsOnlyStdlib verifies pkg/core only imports the standard library.
// The Golden Rule: all other packages depend on core, not the reverse.
func TestCoreImportsOnlyStdlib(t *testing.T) {
	for file, imports := range parseImports(t, ".") {
		for _, importPath := range imports {
			// Stdlib paths have no dot in their first element
			if strings.Contains(strings.Split(importPath, "/")[0], ".") {
				t.Errorf("%s imports forbidden package: %s", file, importPath)
			}
		}
	}
}

// TestRuleCoreIsInMemory verifies the naming and rule packages never touch the
// filesystem, network, or processes. Generation is a pure function of its inputs.
func TestRuleCoreIsInMemory(t *testing.T) {
	forbidden := []string{"os", "os/exec", "net", "net/http", "io/ioutil", "path/filepath"}

	for _, dir := range []string{"../../internal/naming", "../../internal/rules"} {
		for file, imports := range parseImports(t, dir) {
			for _, importPath := range imports {
				for _, f := range forbidden {
					if importPath == f {
						t.Errorf("%s/%s imports %s (rule generation must not do I/O)", filepath.Base(dir), file, importPath)
					}
				}
			}
		}
	}
}
