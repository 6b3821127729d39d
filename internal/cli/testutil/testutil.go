// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// ProjectCatalog is the catalog written by SetupTestProject. It defines a TFLite
// model, a TF model, and an MLIR model, plus two compile configs, with
// benchmarks covering a subset of the pairs.
const ProjectCatalog = `models:
  - id: "1234"
    name: abcd
    tags: [int8]
    source_type: exported_tflite
    source_url: https://storage.example.com/abcd.tflite
    entry_function: main
  - id: "5678"
    name: efgh
    source_type: exported_tf
    source_url: https://storage.example.com/efgh.tar.gz
    entry_function: predict
  - id: "42"
    name: linear
    source_type: exported_linalg_mlir
    source_url: https://storage.example.com/linear.mlir
compile_configs:
  - id: compa
    compile_targets:
      - target_architecture: x86_64-cascadelake
        target_platform: linux-gnu
        target_backend: llvm-cpu
  - id: compb
    compile_targets:
      - target_architecture: ampere-nvidia
        target_platform: linux-gnu
        target_backend: cuda
    extra_flags:
      - --iree-flow-demote-f32-to-f16
benchmarks:
  - model: "1234"
    compile_config: compa
  - model: "5678"
    compile_config: compa
  - model: "42"
    compile_config: compb
`

// SetupTestProject creates a temporary project with a config file and one
// catalog, and returns its root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "catalogs"), 0750); err != nil {
		t.Fatalf("failed to create catalogs directory: %v", err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "catalogs", "suite.yaml"),
		[]byte(ProjectCatalog), 0600); err != nil {
		t.Fatalf("failed to create suite.yaml: %v", err)
	}

	cfg := `catalogs:
  - catalogs/suite.yaml
models_dir: "${ROOT_ARTIFACTS_DIR}/models"
iree_dir: "${ROOT_ARTIFACTS_DIR}/iree"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "benchrules.yaml"), []byte(cfg), 0600); err != nil {
		t.Fatalf("failed to create benchrules.yaml: %v", err)
	}

	return tmpDir
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
