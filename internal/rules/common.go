package rules

import (
	"log/slog"

	"github.com/leapstack-labs/benchrules/internal/naming"
	"github.com/leapstack-labs/benchrules/pkg/core"
)

// CommonRuleFactory accumulates the rules that fetch model artifacts.
type CommonRuleFactory struct {
	modelsRoot string
	logger     *slog.Logger
	rules      *orderedStore[string, ModelRule]
}

// NewCommonRuleFactory creates a factory writing fetched models under modelsRoot.
func NewCommonRuleFactory(modelsRoot string, opts ...Option) *CommonRuleFactory {
	o := buildOptions(opts)
	return &CommonRuleFactory{
		modelsRoot: modelsRoot,
		logger:     o.logger,
		rules:      newOrderedStore[string, ModelRule](),
	}
}

// AddModelRule adds the fetch rule for a model, keyed by model ID.
// Adding the same model again returns the stored rule.
func (f *CommonRuleFactory) AddModelRule(model core.Model) (ModelRule, error) {
	filePath, err := naming.ModelFilePath(f.modelsRoot, model.ID, model.Name, model.SourceType)
	if err != nil {
		return ModelRule{}, err
	}

	targetName := naming.ModelTargetName(model.ID)
	rule := ModelRule{
		TargetName: targetName,
		FilePath:   filePath,
		CMakeRule: newCMakeCall("iree_fetch_artifact").
			arg("NAME", targetName).
			arg("SOURCE_URL", model.SourceURL).
			arg("OUTPUT", filePath).
			option("UNPACK").
			String(),
	}

	if existing, ok := f.rules.get(model.ID); ok {
		if existing != rule {
			return ModelRule{}, &DuplicateKeyConflictError{Key: "model(" + model.ID + ")", Target: existing.TargetName}
		}
		return existing, nil
	}

	f.rules.add(model.ID, rule)
	f.logger.Debug("added model rule", "target", rule.TargetName, "file", rule.FilePath)
	return rule, nil
}

// Rules returns the stored rules in first-added order.
func (f *CommonRuleFactory) Rules() []ModelRule {
	return f.rules.values()
}

// GenerateCMakeRules renders one fragment per stored rule in first-added order.
func (f *CommonRuleFactory) GenerateCMakeRules() []string {
	fragments := make([]string, 0, f.rules.len())
	for _, rule := range f.rules.values() {
		fragments = append(fragments, rule.CMakeRule)
	}
	return fragments
}
