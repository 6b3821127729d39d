// Package catalog loads benchmark catalogs from YAML files.
//
// A catalog document lists models, compile configs, and the benchmarks pairing
// them:
//
//	models:
//	  - id: "1234"
//	    name: mobilenet_v2
//	    source_type: exported_tflite
//	    source_url: https://example.com/mobilenet_v2.tflite
//	    entry_function: main
//	    input_types: ["1x224x224x3xf32"]
//	compile_configs:
//	  - id: x86_64-default
//	    compile_targets:
//	      - target_architecture: x86_64-cascadelake
//	        target_platform: linux-gnu
//	        target_backend: llvm-cpu
//	benchmarks:
//	  - model: "1234"
//	    compile_config: x86_64-default
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/benchrules/pkg/core"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Benchmark pairs a model with a compile config by ID.
type Benchmark struct {
	Model         string `yaml:"model"`
	CompileConfig string `yaml:"compile_config"`
}

// Document is one parsed catalog file.
type Document struct {
	// Source is the file the document was read from (for error messages)
	Source         string               `yaml:"-"`
	Models         []core.Model         `yaml:"models"`
	CompileConfigs []core.CompileConfig `yaml:"compile_configs"`
	Benchmarks     []Benchmark          `yaml:"benchmarks"`
}

// Parse decodes and validates a catalog file. A file may hold several YAML
// documents separated by "---"; their entries are merged in order. Unknown
// keys are rejected.
func Parse(data []byte, source string) (*Document, error) {
	doc := &Document{Source: source}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for i := 0; ; i++ {
		var part Document
		err := dec.Decode(&part)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: document %d: %w", source, i, err)
		}
		doc.Models = append(doc.Models, part.Models...)
		doc.CompileConfigs = append(doc.CompileConfigs, part.CompileConfigs...)
		doc.Benchmarks = append(doc.Benchmarks, part.Benchmarks...)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadFile reads and parses one catalog file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // catalog paths come from user config
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data, path)
}

// LoadFiles reads catalog files concurrently. Documents are returned in the
// order of paths regardless of completion order.
func LoadFiles(ctx context.Context, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, path := range paths {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			doc, err := LoadFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Validate checks required fields and enum values. All problems are reported
// together.
func (d *Document) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]any{d.Source}, args...)...))
	}

	for i, m := range d.Models {
		if m.ID == "" {
			fail("models[%d]: id is required", i)
		}
		if m.Name == "" {
			fail("models[%d]: name is required", i)
		}
		if !m.SourceType.IsValid() {
			fail("model %q: unknown source_type %q (valid: %v)", m.ID, m.SourceType, core.ModelSourceTypes())
		}
	}

	for i, c := range d.CompileConfigs {
		if c.ID == "" {
			fail("compile_configs[%d]: id is required", i)
		}
		if len(c.CompileTargets) == 0 {
			fail("compile config %q: at least one compile target is required", c.ID)
		}
		for j, ct := range c.CompileTargets {
			if !ct.TargetArchitecture.IsValid() {
				fail("compile config %q target %d: unknown target_architecture %q", c.ID, j, ct.TargetArchitecture)
			}
			if !ct.TargetPlatform.IsValid() {
				fail("compile config %q target %d: unknown target_platform %q", c.ID, j, ct.TargetPlatform)
			}
			if !ct.TargetBackend.IsValid() {
				fail("compile config %q target %d: unknown target_backend %q (valid: %v)", c.ID, j, ct.TargetBackend, core.TargetBackends())
			}
		}
	}

	for i, b := range d.Benchmarks {
		if b.Model == "" || b.CompileConfig == "" {
			fail("benchmarks[%d]: model and compile_config are required", i)
		}
	}

	return errors.Join(errs...)
}
