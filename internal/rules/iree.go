package rules

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/benchrules/internal/naming"
	"github.com/leapstack-labs/benchrules/pkg/core"
)

// importFunctions maps source types that need an import step to the CMake
// function performing it.
var importFunctions = map[core.ModelSourceType]string{
	core.ModelSourceExportedTFLite: "iree_import_tflite_model",
	core.ModelSourceExportedTF:     "iree_import_tf_model",
}

type ruleKey struct {
	kind            Kind
	modelID         string
	compileConfigID string
}

func (k ruleKey) String() string {
	if k.kind == KindCompile {
		return fmt.Sprintf("%s(%s, %s)", k.kind, k.modelID, k.compileConfigID)
	}
	return fmt.Sprintf("%s(%s)", k.kind, k.modelID)
}

// IreeRuleFactory accumulates the rules that import models into MLIR and
// compile them into modules. Import and compile rules share one ordered store.
type IreeRuleFactory struct {
	ireeRoot string
	logger   *slog.Logger
	rules    *orderedStore[ruleKey, Rule]
	// targets maps emitted target names to the key that owns them.
	targets map[string]ruleKey
}

// NewIreeRuleFactory creates a factory writing imported MLIR and compiled
// modules under ireeRoot.
func NewIreeRuleFactory(ireeRoot string, opts ...Option) *IreeRuleFactory {
	o := buildOptions(opts)
	return &IreeRuleFactory{
		ireeRoot: ireeRoot,
		logger:   o.logger,
		rules:    newOrderedStore[ruleKey, Rule](),
		targets:  make(map[string]ruleKey),
	}
}

// AddImportModelRule adds the rule importing a model into MLIR, keyed by model ID.
//
// Sources already in the canonical dialect are forwarded: the returned rule
// reuses the source rule's target and path and no fragment is emitted.
func (f *IreeRuleFactory) AddImportModelRule(
	modelID, modelName string,
	sourceType core.ModelSourceType,
	entryFunction string,
	source SourceRule,
) (ImportRule, error) {
	dialect, err := naming.DialectForSourceType(sourceType)
	if err != nil {
		return ImportRule{}, err
	}

	var rule ImportRule
	if dialect == naming.CanonicalDialect {
		rule = ImportRule{
			TargetName:     source.Target(),
			ModelID:        modelID,
			ModelName:      modelName,
			OutputFilePath: source.OutputPath(),
			MLIRDialect:    dialect,
			SourceTarget:   source.Target(),
		}
	} else {
		function, ok := importFunctions[sourceType]
		if !ok {
			return ImportRule{}, naming.NewUnsupportedSourceTypeError(sourceType)
		}
		targetName := naming.ImportTargetName(modelID)
		outputPath := naming.ImportOutputPath(f.ireeRoot, modelID, modelName)

		call := newCMakeCall(function).
			arg("TARGET_NAME", targetName).
			arg("SOURCE", source.OutputPath())
		if sourceType == core.ModelSourceExportedTF {
			call.arg("ENTRY_FUNCTION", entryFunction)
		}
		call.arg("OUTPUT_MLIR_FILE", outputPath).
			arg("DEPENDS", source.Target())

		rule = ImportRule{
			TargetName:     targetName,
			ModelID:        modelID,
			ModelName:      modelName,
			OutputFilePath: outputPath,
			MLIRDialect:    dialect,
			SourceTarget:   source.Target(),
			CMakeRule:      call.String(),
		}
	}

	stored, err := f.store(ruleKey{kind: KindImport, modelID: modelID}, rule)
	if err != nil {
		return ImportRule{}, err
	}
	return stored.(ImportRule), nil
}

// AddCompileModuleRule adds the rule compiling an imported model with a compile
// config, keyed by (model ID, compile config ID).
func (f *IreeRuleFactory) AddCompileModuleRule(config core.CompileConfig, importRule ImportRule) (CompileRule, error) {
	flags, err := compileFlags(config, importRule.MLIRDialect)
	if err != nil {
		return CompileRule{}, err
	}

	targetName := naming.CompileTargetName(importRule.ModelID, config.ID)
	outputPath := naming.CompileOutputPath(f.ireeRoot, importRule.ModelID, importRule.ModelName, config.ID)

	rule := CompileRule{
		TargetName:       targetName,
		ModelID:          importRule.ModelID,
		CompileConfigID:  config.ID,
		OutputModulePath: outputPath,
		ImportTarget:     importRule.TargetName,
		CMakeRule: newCMakeCall("iree_bytecode_module").
			arg("NAME", targetName).
			arg("SRC", importRule.OutputFilePath).
			arg("MODULE_FILE_NAME", outputPath).
			arg("FLAGS", flags...).
			arg("DEPENDS", importRule.TargetName).
			arg("FRIENDLY_NAME", fmt.Sprintf("%s(%s)", importRule.ModelName, config.ID)).
			option("PUBLIC").
			String(),
	}

	stored, err := f.store(ruleKey{kind: KindCompile, modelID: importRule.ModelID, compileConfigID: config.ID}, rule)
	if err != nil {
		return CompileRule{}, err
	}
	return stored.(CompileRule), nil
}

// store memoizes rule under key. An existing equal rule is returned as is; a
// divergent one, or a target name owned by another key, is an error and leaves
// the factory unchanged.
func (f *IreeRuleFactory) store(key ruleKey, rule Rule) (Rule, error) {
	if existing, ok := f.rules.get(key); ok {
		if existing != rule {
			return nil, &DuplicateKeyConflictError{Key: key.String(), Target: existing.Target()}
		}
		return existing, nil
	}

	emits := rule.Fragment() != ""
	if emits {
		if owner, taken := f.targets[rule.Target()]; taken {
			return nil, &TargetNameCollisionError{Target: rule.Target(), ExistingKey: owner.String(), Key: key.String()}
		}
		f.targets[rule.Target()] = key
	}

	f.rules.add(key, rule)
	f.logger.Debug("added iree rule", "key", key.String(), "target", rule.Target(), "forwarded", !emits)
	return rule, nil
}

// Rules returns every stored rule, forwarded imports included, in first-added
// order.
func (f *IreeRuleFactory) Rules() []Rule {
	return f.rules.values()
}

// GenerateCMakeRules renders the stored import and compile rules in first-added
// order. Forwarded imports contribute nothing.
func (f *IreeRuleFactory) GenerateCMakeRules() []string {
	fragments := make([]string, 0, f.rules.len())
	for _, rule := range f.rules.values() {
		if fragment := rule.Fragment(); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}
