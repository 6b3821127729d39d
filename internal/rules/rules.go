// Package rules accumulates build rules for benchmark suites and renders them as
// CMake fragments.
//
// Two factories exist. CommonRuleFactory produces the rules that fetch model
// artifacts; IreeRuleFactory produces the rules that import those artifacts into
// MLIR and compile them into modules. Add* calls are idempotent per key and
// return the stored record so later calls can reference its target and output
// path. GenerateCMakeRules renders records in the order they were first added.
//
// Factories are not safe for concurrent use.
package rules

import "github.com/leapstack-labs/benchrules/internal/naming"

// Kind identifies what a rule produces.
type Kind string

// Rule kinds.
const (
	KindModel   Kind = "model"
	KindImport  Kind = "import"
	KindCompile Kind = "compile"
)

// Rule is the common view of every generated rule.
type Rule interface {
	Kind() Kind
	// Target is the build target name.
	Target() string
	// OutputPath is the file the target produces.
	OutputPath() string
	// Dependencies are the targets that must be generated before this one.
	Dependencies() []string
	// Fragment is the rendered CMake text; empty when the rule emits nothing.
	Fragment() string
}

// SourceRule is an upstream rule whose output feeds an import step.
// Both ModelRule and ImportRule satisfy it.
type SourceRule interface {
	Target() string
	OutputPath() string
}

// ModelRule fetches a model artifact.
type ModelRule struct {
	TargetName string
	FilePath   string
	CMakeRule  string
}

func (r ModelRule) Kind() Kind             { return KindModel }
func (r ModelRule) Target() string         { return r.TargetName }
func (r ModelRule) OutputPath() string     { return r.FilePath }
func (r ModelRule) Dependencies() []string { return nil }
func (r ModelRule) Fragment() string       { return r.CMakeRule }

// ImportRule imports a model artifact into MLIR.
//
// When the source is already in the canonical dialect the rule is forwarded:
// TargetName and OutputFilePath alias the upstream rule and CMakeRule is empty.
type ImportRule struct {
	TargetName     string
	ModelID        string
	ModelName      string
	OutputFilePath string
	MLIRDialect    naming.Dialect
	// SourceTarget is the upstream target the import reads from.
	SourceTarget string
	CMakeRule    string
}

func (r ImportRule) Kind() Kind         { return KindImport }
func (r ImportRule) Target() string     { return r.TargetName }
func (r ImportRule) OutputPath() string { return r.OutputFilePath }
func (r ImportRule) Fragment() string   { return r.CMakeRule }

// Forwarded reports whether the rule aliases its upstream rule.
func (r ImportRule) Forwarded() bool {
	return r.CMakeRule == ""
}

func (r ImportRule) Dependencies() []string {
	if r.Forwarded() || r.SourceTarget == "" {
		return nil
	}
	return []string{r.SourceTarget}
}

// CompileRule compiles imported MLIR into a module for a compile config.
type CompileRule struct {
	TargetName       string
	ModelID          string
	CompileConfigID  string
	OutputModulePath string
	// ImportTarget is the target producing the MLIR input.
	ImportTarget string
	CMakeRule    string
}

func (r CompileRule) Kind() Kind             { return KindCompile }
func (r CompileRule) Target() string         { return r.TargetName }
func (r CompileRule) OutputPath() string     { return r.OutputModulePath }
func (r CompileRule) Dependencies() []string { return []string{r.ImportTarget} }
func (r CompileRule) Fragment() string       { return r.CMakeRule }
