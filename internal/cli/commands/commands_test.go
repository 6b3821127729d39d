package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/benchrules/internal/cli/config"
	"github.com/leapstack-labs/benchrules/internal/cli/output"
	"github.com/leapstack-labs/benchrules/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `models:
  - id: "1234"
    name: abcd
    source_type: exported_tflite
    source_url: https://example.com/abcd.tflite
  - id: "42"
    name: linear
    source_type: exported_linalg_mlir
    source_url: https://example.com/linear.mlir
compile_configs:
  - id: compa
    compile_targets:
      - target_architecture: x86_64-cascadelake
        target_platform: linux-gnu
        target_backend: llvm-cpu
`

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0600))
	return path
}

func testConfig(catalogs ...string) *config.Config {
	return &config.Config{
		ProjectConfig: config.ProjectConfig{
			Catalogs:  catalogs,
			ModelsDir: "root/models",
			IreeDir:   "root/iree",
			Output:    "-",
		},
		Format: "markdown",
	}
}

// executeCommand runs cmd with cfg in its context and returns stdout and stderr.
func executeCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	ctx := config.WithConfig(context.Background(), cfg)
	ctx = context.WithValue(ctx, config.LoggerKey(), testutil.NewTestLogger(t))
	cmd.SetContext(ctx)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewGenerateCommand(), "generate", []string{"watch"}},
		{NewListCommand(), "list", []string{"kind"}},
		{NewGraphCommand(), "graph", []string{"target"}},
		{NewVersionCommand("test"), "version", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}

	assert.Equal(t, []string{"gen"}, NewGenerateCommand().Aliases)
}

func TestGenerate_Stdout(t *testing.T) {
	stdout, _, err := executeCommand(t, NewGenerateCommand(), testConfig(writeTestCatalog(t)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "# Generated by benchrules. Do not edit.\n"))
	assert.Equal(t, 2, strings.Count(stdout, "iree_fetch_artifact("))
	assert.Equal(t, 1, strings.Count(stdout, "iree_import_tflite_model("), "the mlir model is forwarded")
	assert.Equal(t, 2, strings.Count(stdout, "iree_bytecode_module("))
	assert.Contains(t, stdout, `"root/iree/1234_abcd/compa.vmfb"`)
}

func TestGenerate_File(t *testing.T) {
	cfg := testConfig(writeTestCatalog(t))
	cfg.Output = filepath.Join(t.TempDir(), "build", "benchmarks.cmake")

	_, stderr, err := executeCommand(t, NewGenerateCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote 5 rules for 2 benchmarks")

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "iree-module-42-compa")

	_, stderr, err = executeCommand(t, NewGenerateCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, stderr, "is up to date")
}

func TestGenerate_FileJSON(t *testing.T) {
	cfg := testConfig(writeTestCatalog(t))
	cfg.Output = filepath.Join(t.TempDir(), "benchmarks.cmake")
	cfg.Format = "json"

	stdout, _, err := executeCommand(t, NewGenerateCommand(), cfg)
	require.NoError(t, err)

	var summary output.GenerateSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, 2, summary.Pairs)
	assert.Equal(t, 2, summary.CommonFragments)
	assert.Equal(t, 3, summary.IreeFragments)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		args      []string
		errSubstr string
	}{
		{
			name:      "no catalogs",
			cfg:       testConfig(),
			errSubstr: "no catalogs configured",
		},
		{
			name:      "missing catalog",
			cfg:       testConfig(filepath.Join(t.TempDir(), "missing.yaml")),
			errSubstr: "failed to load catalogs",
		},
		{
			name: "bad format",
			cfg: func() *config.Config {
				cfg := testConfig(writeTestCatalog(t))
				cfg.Format = "yaml"
				return cfg
			}(),
			errSubstr: "unknown output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, NewGenerateCommand(), tt.cfg, tt.args...)
			assert.ErrorContains(t, err, tt.errSubstr)
		})
	}
}

func TestGenerate_WatchNeedsFile(t *testing.T) {
	stdout, _, err := executeCommand(t, NewGenerateCommand(), testConfig(writeTestCatalog(t)), "--watch")
	assert.ErrorContains(t, err, "--watch requires --output")
	assert.Empty(t, stdout, "nothing is generated before the flag check")
}

func TestList_JSON(t *testing.T) {
	cfg := testConfig(writeTestCatalog(t))
	cfg.Format = "json"

	stdout, _, err := executeCommand(t, NewListCommand(), cfg)
	require.NoError(t, err)

	var infos []output.RuleInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 6, "two fetches, two imports, two modules")

	assert.Equal(t, "model", infos[0].Kind)
	assert.Equal(t, "model-1234", infos[0].Target)

	var forwarded []string
	for _, info := range infos {
		if info.Forwarded {
			forwarded = append(forwarded, info.Target)
		}
	}
	assert.Equal(t, []string{"model-42"}, forwarded)
}

func TestList_Markdown(t *testing.T) {
	stdout, _, err := executeCommand(t, NewListCommand(), testConfig(writeTestCatalog(t)), "--kind", "compile")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Rules")
	assert.Contains(t, stdout, "| Compile |")
	assert.Contains(t, stdout, "iree-module-1234-compa")
	assert.NotContains(t, stdout, "| Model |")
	assert.Contains(t, stdout, "2 rules for 2 benchmarks")
}

func TestList_UnknownKind(t *testing.T) {
	_, _, err := executeCommand(t, NewListCommand(), testConfig(writeTestCatalog(t)), "--kind", "link")
	assert.ErrorContains(t, err, `unknown rule kind "link"`)
}

func TestGraph_Markdown(t *testing.T) {
	stdout, _, err := executeCommand(t, NewGraphCommand(), testConfig(writeTestCatalog(t)))
	require.NoError(t, err)

	assert.Contains(t, stdout, "## Level 0")
	assert.Contains(t, stdout, "## Level 2")
	assert.Contains(t, stdout, "- **Total Targets:** 5")
	assert.Contains(t, stdout, "- **Total Dependencies:** 3")
}

func TestGraph_Target(t *testing.T) {
	cfg := testConfig(writeTestCatalog(t))
	cfg.Format = "json"

	stdout, _, err := executeCommand(t, NewGraphCommand(), cfg, "--target", "iree-module-42-compa")
	require.NoError(t, err)

	var graph output.GraphOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &graph))
	require.Len(t, graph.Levels, 2, "forwarded import leaves fetch and module")
	assert.Equal(t, "model-42", graph.Levels[0].Targets[0].Target)
	assert.Equal(t, "iree-module-42-compa", graph.Levels[1].Targets[0].Target)

	_, _, err = executeCommand(t, NewGraphCommand(), testConfig(writeTestCatalog(t)), "--target", "nope")
	assert.ErrorContains(t, err, "target not found: nope")
}

func TestFilterLevels(t *testing.T) {
	levels := [][]string{{"a", "b"}, {"c"}, {"d", "e"}}
	assert.Equal(t, [][]string{{"b"}, {"e"}}, filterLevels(levels, []string{"e", "b"}))
	assert.Nil(t, filterLevels(levels, nil))
}

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.cmake")

	written, err := writeIfChanged(path, []byte("a"))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = writeIfChanged(path, []byte("a"))
	require.NoError(t, err)
	assert.False(t, written, "identical content is not rewritten")

	written, err = writeIfChanged(path, []byte("b"))
	require.NoError(t, err)
	assert.True(t, written)
}

func TestWatchCatalogs(t *testing.T) {
	path := writeTestCatalog(t)
	other := filepath.Join(filepath.Dir(path), "notes.txt")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchCatalogs(ctx, []string{path}, 10*time.Millisecond, testutil.NewTestLogger(t), func() {
			calls.Add(1)
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0600))
	require.NoError(t, os.WriteFile(path, []byte(testCatalog+"\n"), 0600))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchCatalogs_NoCallbackAfterCancel(t *testing.T) {
	path := writeTestCatalog(t)
	logger, logs := testutil.NewCaptureLogger()
	const debounce = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchCatalogs(ctx, []string{path}, debounce, logger, func() {
			calls.Add(1)
		})
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(testCatalog+"\n"), 0600))

	// Cancel while the change is still pending in the debounce window.
	require.Eventually(t, func() bool { return logs.Contains("catalog changed") }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	time.Sleep(2 * debounce)
	assert.Equal(t, int32(0), calls.Load(), "pending change must not fire after cancel")
}
