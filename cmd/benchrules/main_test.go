// Package main provides tests for the benchrules CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/benchrules/internal/cli"
	"github.com/leapstack-labs/benchrules/internal/cli/commands"
	"github.com/leapstack-labs/benchrules/internal/cli/config"
	"github.com/leapstack-labs/benchrules/internal/cli/output"
	"github.com/leapstack-labs/benchrules/internal/cli/testutil"
)

// runCLI executes the root command from dir and returns stdout and stderr.
func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	if dir != "" {
		t.Chdir(dir)
	}

	cmd := cli.NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.Contains(stdout, "benchrules v") {
		t.Errorf("version output should contain 'benchrules v', got: %s", stdout)
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir(), "--version")
	if err != nil {
		t.Fatalf("--version error = %v", err)
	}
	want := "benchrules " + cli.Version + "\n" + commands.Description + "\n"
	if stdout != want {
		t.Errorf("--version output = %q, want %q", stdout, want)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--help")
	if err != nil {
		t.Fatalf("help command error = %v", err)
	}

	for _, expected := range []string{"generate", "list", "graph", "version", "completion"} {
		if !strings.Contains(stdout, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, stdout)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	project := testutil.SetupTestProject(t)

	stdout, _, err := runCLI(t, project, "generate")
	if err != nil {
		t.Fatalf("generate command error = %v", err)
	}

	for _, want := range []string{
		"# Generated by benchrules. Do not edit.",
		`"${ROOT_ARTIFACTS_DIR}/models/1234_abcd.tflite"`,
		`"${ROOT_ARTIFACTS_DIR}/models/5678_efgh.saved_model"`,
		"iree_import_tf_model(",
		`"predict"`,
		`"--iree-hal-cuda-llvm-target-arch=sm_80"`,
		`"--iree-flow-demote-f32-to-f16"`,
		`"${ROOT_ARTIFACTS_DIR}/iree/42_linear/compb.vmfb"`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("generate output should contain %s, got:\n%s", want, stdout)
		}
	}

	// The mlir model is compiled straight from the fetched file.
	if strings.Contains(stdout, "iree-import-model-42") {
		t.Error("mlir model should not get an import rule")
	}
}

func TestGenerateCommand_OutputFlag(t *testing.T) {
	project := testutil.SetupTestProject(t)

	_, stderr, err := runCLI(t, project, "generate", "-o", "build/benchmarks.cmake")
	if err != nil {
		t.Fatalf("generate command error = %v", err)
	}
	if !strings.Contains(stderr, "wrote 8 rules for 3 benchmarks") {
		t.Errorf("unexpected status: %s", stderr)
	}

	data, err := os.ReadFile(filepath.Join(project, "build", "benchmarks.cmake"))
	if err != nil {
		t.Fatalf("generated file missing: %v", err)
	}
	if strings.Count(string(data), "iree_bytecode_module(") != 3 {
		t.Errorf("expected 3 modules, got:\n%s", data)
	}
}

func TestGenerateCommand_Deterministic(t *testing.T) {
	project := testutil.SetupTestProject(t)

	first, _, err := runCLI(t, project, "generate")
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	second, _, err := runCLI(t, project, "generate")
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if first != second {
		t.Error("generate output should be identical across runs")
	}
}

func TestListCommandJSON(t *testing.T) {
	project := testutil.SetupTestProject(t)

	stdout, _, err := runCLI(t, project, "list", "--format", "json")
	if err != nil {
		t.Fatalf("list command error = %v", err)
	}

	var infos []output.RuleInfo
	if err := json.Unmarshal([]byte(stdout), &infos); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, stdout)
	}
	// 3 fetches, 3 imports (one forwarded), 3 modules
	if len(infos) != 9 {
		t.Errorf("expected 9 rules, got %d", len(infos))
	}
}

func TestListCommandMarkdown(t *testing.T) {
	project := testutil.SetupTestProject(t)

	stdout, _, err := runCLI(t, project, "list")
	if err != nil {
		t.Fatalf("list command error = %v", err)
	}

	testutil.AssertNoANSI(t, stdout)
	testutil.AssertValidMarkdown(t, stdout)
	if !strings.Contains(stdout, "(forwarded)") {
		t.Errorf("list output should mark the forwarded import, got:\n%s", stdout)
	}
}

func TestGraphCommand(t *testing.T) {
	project := testutil.SetupTestProject(t)

	stdout, _, err := runCLI(t, project, "graph", "--format", "text")
	if err != nil {
		t.Fatalf("graph command error = %v", err)
	}

	testutil.AssertNoANSI(t, stdout)
	if !strings.Contains(stdout, "Total: 8 targets, 5 dependencies") {
		t.Errorf("unexpected graph summary:\n%s", stdout)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	project := testutil.SetupTestProject(t)
	t.Setenv("BENCHRULES_MODELS_DIR", "/env/models")

	stdout, _, err := runCLI(t, project, "generate")
	if err != nil {
		t.Fatalf("generate command error = %v", err)
	}
	if !strings.Contains(stdout, `"/env/models/1234_abcd.tflite"`) {
		t.Errorf("env var should override models_dir, got:\n%s", stdout)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := runCLI(t, "", "completion", shell)
			if err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
			if stdout == "" {
				t.Errorf("completion %s produced no output", shell)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := runCLI(t, "", "unknown-command")
	if err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMissingCatalogs(t *testing.T) {
	_, _, err := runCLI(t, t.TempDir(), "generate")
	if err == nil || !strings.Contains(err.Error(), "no catalogs configured") {
		t.Errorf("expected missing catalogs error, got %v", err)
	}
}
