// Package registry indexes catalog models and compile configs by ID and resolves
// benchmark pairs against them.
package registry

import (
	"fmt"
	"sync"

	"github.com/leapstack-labs/benchrules/internal/catalog"
	"github.com/leapstack-labs/benchrules/pkg/core"
)

// Pair is a resolved benchmark: one model compiled with one compile config.
type Pair struct {
	Model         core.Model
	CompileConfig core.CompileConfig
}

// Registry holds models and compile configs in registration order.
type Registry struct {
	mu sync.RWMutex

	models      map[string]core.Model
	modelOrder  []string
	configs     map[string]core.CompileConfig
	configOrder []string

	// benchmarks are the requested pairs, by ID, in registration order
	benchmarks []catalog.Benchmark
	// sources records which catalog file defined each ID, for error messages
	sources map[string]string
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		models:  make(map[string]core.Model),
		configs: make(map[string]core.CompileConfig),
		sources: make(map[string]string),
	}
}

// FromDocuments builds a registry from catalog documents in order.
func FromDocuments(docs ...*catalog.Document) (*Registry, error) {
	r := New()
	for _, doc := range docs {
		if err := r.Load(doc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Load registers every model, compile config, and benchmark of a document.
// Registering an ID twice, in the same or another document, is an error.
func (r *Registry) Load(doc *catalog.Document) error {
	for _, m := range doc.Models {
		if err := r.registerModel(m, doc.Source); err != nil {
			return err
		}
	}
	for _, c := range doc.CompileConfigs {
		if err := r.registerCompileConfig(c, doc.Source); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.benchmarks = append(r.benchmarks, doc.Benchmarks...)
	r.mu.Unlock()
	return nil
}

func (r *Registry) registerModel(m core.Model, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := "model:" + m.ID
	if _, exists := r.models[m.ID]; exists {
		return &DuplicateIDError{Kind: "model", ID: m.ID, First: r.sources[key], Second: source}
	}
	r.models[m.ID] = m
	r.modelOrder = append(r.modelOrder, m.ID)
	r.sources[key] = source
	return nil
}

func (r *Registry) registerCompileConfig(c core.CompileConfig, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := "compile_config:" + c.ID
	if _, exists := r.configs[c.ID]; exists {
		return &DuplicateIDError{Kind: "compile config", ID: c.ID, First: r.sources[key], Second: source}
	}
	r.configs[c.ID] = c
	r.configOrder = append(r.configOrder, c.ID)
	r.sources[key] = source
	return nil
}

// GetModel returns the model with the given ID.
func (r *Registry) GetModel(id string) (core.Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	return m, ok
}

// GetCompileConfig returns the compile config with the given ID.
func (r *Registry) GetCompileConfig(id string) (core.CompileConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.configs[id]
	return c, ok
}

// Models returns all models in registration order.
func (r *Registry) Models() []core.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]core.Model, 0, len(r.modelOrder))
	for _, id := range r.modelOrder {
		models = append(models, r.models[id])
	}
	return models
}

// CompileConfigs returns all compile configs in registration order.
func (r *Registry) CompileConfigs() []core.CompileConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]core.CompileConfig, 0, len(r.configOrder))
	for _, id := range r.configOrder {
		configs = append(configs, r.configs[id])
	}
	return configs
}

// Count returns the number of registered models and compile configs.
func (r *Registry) Count() (models, compileConfigs int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models), len(r.configs)
}

// ResolveBenchmarks returns the requested pairs in request order with duplicates
// removed. Without any requested benchmark every model is paired with every
// compile config, models outermost.
func (r *Registry) ResolveBenchmarks() ([]Pair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.benchmarks) == 0 {
		pairs := make([]Pair, 0, len(r.modelOrder)*len(r.configOrder))
		for _, modelID := range r.modelOrder {
			for _, configID := range r.configOrder {
				pairs = append(pairs, Pair{Model: r.models[modelID], CompileConfig: r.configs[configID]})
			}
		}
		return pairs, nil
	}

	seen := make(map[catalog.Benchmark]struct{})
	pairs := make([]Pair, 0, len(r.benchmarks))
	for _, b := range r.benchmarks {
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}

		m, ok := r.models[b.Model]
		if !ok {
			return nil, fmt.Errorf("benchmark references unknown model %q", b.Model)
		}
		c, ok := r.configs[b.CompileConfig]
		if !ok {
			return nil, fmt.Errorf("benchmark references unknown compile config %q", b.CompileConfig)
		}
		pairs = append(pairs, Pair{Model: m, CompileConfig: c})
	}
	return pairs, nil
}

// DuplicateIDError is returned when an ID is registered twice.
type DuplicateIDError struct {
	Kind   string
	ID     string
	First  string
	Second string
}

func (e *DuplicateIDError) Error() string {
	if e.First != "" || e.Second != "" {
		return fmt.Sprintf("duplicate %s id %q (defined in %s and %s)", e.Kind, e.ID, e.First, e.Second)
	}
	return fmt.Sprintf("duplicate %s id %q", e.Kind, e.ID)
}
