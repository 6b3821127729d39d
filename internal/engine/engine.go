// Package engine drives rule generation for a set of benchmarks.
// It chains the fetch, import, and compile factories for every benchmark pair
// and checks that the emitted fragments respect target dependencies.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/benchrules/internal/dag"
	"github.com/leapstack-labs/benchrules/internal/registry"
	"github.com/leapstack-labs/benchrules/internal/rules"
)

// Default output roots, relative to the build directory.
const (
	DefaultModelsDir = "models"
	DefaultIreeDir   = "iree"
)

// Engine generates CMake rules for benchmark pairs.
type Engine struct {
	modelsDir string
	ireeDir   string
	logger    *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// ModelsDir is the root fetched model artifacts are written under
	ModelsDir string
	// IreeDir is the root imported MLIR and compiled modules are written under
	IreeDir string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	modelsDir := cfg.ModelsDir
	if modelsDir == "" {
		modelsDir = DefaultModelsDir
	}
	ireeDir := cfg.IreeDir
	if ireeDir == "" {
		ireeDir = DefaultIreeDir
	}

	return &Engine{
		modelsDir: modelsDir,
		ireeDir:   ireeDir,
		logger:    logger,
	}
}

// Generate produces the rules for every pair in order. Each pair adds its model
// fetch rule, the model's import rule, and the compile rule; rules shared between
// pairs are generated once.
func (e *Engine) Generate(pairs []registry.Pair) (*Result, error) {
	common := rules.NewCommonRuleFactory(e.modelsDir, rules.WithLogger(e.logger))
	iree := rules.NewIreeRuleFactory(e.ireeDir, rules.WithLogger(e.logger))

	for _, pair := range pairs {
		model, config := pair.Model, pair.CompileConfig

		modelRule, err := common.AddModelRule(model)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model.ID, err)
		}
		importRule, err := iree.AddImportModelRule(model.ID, model.Name, model.SourceType, model.EntryFunction, modelRule)
		if err != nil {
			return nil, fmt.Errorf("import model %s: %w", model.ID, err)
		}
		if _, err := iree.AddCompileModuleRule(config, importRule); err != nil {
			return nil, fmt.Errorf("compile model %s with %s: %w", model.ID, config.ID, err)
		}
	}

	result := &Result{
		CommonFragments: common.GenerateCMakeRules(),
		IreeFragments:   iree.GenerateCMakeRules(),
	}
	for _, r := range common.Rules() {
		result.Rules = append(result.Rules, r)
	}
	result.Rules = append(result.Rules, iree.Rules()...)

	graph, order, err := buildGraph(result.Rules)
	if err != nil {
		return nil, err
	}
	if err := graph.VerifyOrder(order); err != nil {
		return nil, fmt.Errorf("generated rules are out of order: %w", err)
	}
	result.Graph = graph

	e.logger.Info("generated rules",
		"pairs", len(pairs),
		"common_fragments", len(result.CommonFragments),
		"iree_fragments", len(result.IreeFragments))
	return result, nil
}

// buildGraph adds a node for every rule that emits a fragment and an edge for
// each of its dependencies. order is the emission order of those targets.
func buildGraph(all []rules.Rule) (*dag.Graph, []string, error) {
	graph := dag.NewGraph()
	var order []string

	for _, r := range all {
		if r.Fragment() == "" {
			continue
		}
		if err := graph.AddNode(r.Target(), r); err != nil {
			return nil, nil, err
		}
		order = append(order, r.Target())
	}
	for _, r := range all {
		if r.Fragment() == "" {
			continue
		}
		for _, dep := range r.Dependencies() {
			if err := graph.AddEdge(dep, r.Target()); err != nil {
				return nil, nil, err
			}
		}
	}
	return graph, order, nil
}
