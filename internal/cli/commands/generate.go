package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/benchrules/internal/cli/output"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// watchDebounce coalesces bursts of editor writes into one regeneration.
const watchDebounce = 100 * time.Millisecond

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate CMake benchmark rules",
		Long: `Generate the CMake rules fetching, importing, and compiling every benchmark
defined by the configured catalogs.

Fetch rules come first, followed by import and compile rules, each in the order
the benchmarks are listed. The output is deterministic: the same catalogs always
produce the same file, and an unchanged file is not rewritten.`,
		Example: `  # Print rules for the catalogs listed in benchrules.yaml
  benchrules generate

  # Write rules for specific catalogs to a file
  benchrules generate -c catalogs/x86.yaml -o build/benchmarks.cmake

  # Regenerate whenever a catalog changes
  benchrules generate -o build/benchmarks.cmake --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate when a catalog file changes")

	return cmd
}

func runGenerate(cmd *cobra.Command, watch bool) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if watch && cmdCtx.Cfg.WritesToStdout() {
		return fmt.Errorf("--watch requires --output to name a file")
	}

	if err := generateOnce(cmd, cmdCtx); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	regenerate := func() {
		if err := generateOnce(cmd, cmdCtx); err != nil {
			cmdCtx.Renderer.Error(err.Error())
		}
	}

	cmdCtx.Renderer.Success("watching catalogs for changes (Ctrl+C to stop)")
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return watchCatalogs(egctx, cmdCtx.Cfg.Catalogs, watchDebounce, cmdCtx.Logger, regenerate)
	})
	return eg.Wait()
}

func generateOnce(cmd *cobra.Command, cmdCtx *CommandContext) error {
	gen, err := cmdCtx.Generate(cmd.Context())
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	cfg := cmdCtx.Cfg

	if cfg.WritesToStdout() {
		_, err := gen.Result.WriteTo(r.Writer())
		return err
	}

	written, err := writeIfChanged(cfg.Output, []byte(gen.Result.Render()))
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("generated file", "path", cfg.Output, "written", written)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.GenerateSummary{
			Output:          cfg.Output,
			Pairs:           gen.Pairs,
			CommonFragments: len(gen.Result.CommonFragments),
			IreeFragments:   len(gen.Result.IreeFragments),
		})
	}

	total := len(gen.Result.CommonFragments) + len(gen.Result.IreeFragments)
	if written {
		r.Success(fmt.Sprintf("wrote %d rules for %d benchmarks to %s", total, gen.Pairs, cfg.Output))
	} else {
		r.Success(fmt.Sprintf("%s is up to date (%d rules)", cfg.Output, total))
	}
	return nil
}

// writeIfChanged writes data to path unless the file already holds it, so
// build systems watching the file only rerun on real changes.
func writeIfChanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path) //nolint:gosec // output path comes from user config
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return false, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // generated build files are world-readable
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// watchCatalogs calls onChange after any catalog file is written, created, or
// replaced, until ctx is cancelled. Parent directories are watched so editors
// that save by rename are still seen. onChange runs on the calling goroutine,
// never after ctx is done, and has returned by the time watchCatalogs does.
func watchCatalogs(ctx context.Context, catalogs []string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(catalogs))
	dirs := make(map[string]bool)
	for _, path := range catalogs {
		watched[filepath.Clean(path)] = true
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	var debounceTimer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-fire:
			fire = nil
			if ctx.Err() != nil {
				return nil
			}
			onChange()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			logger.Debug("catalog changed", "file", event.Name, "op", event.Op.String())
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(debounce)
			} else {
				debounceTimer.Reset(debounce)
			}
			fire = debounceTimer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
