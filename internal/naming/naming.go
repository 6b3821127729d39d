// Package naming derives target names, output paths and dialect tags for the
// generated build rules. Every function is pure; the source type tables are the
// only place that knows which formats exist.
package naming

import (
	"fmt"
	"path"

	"github.com/leapstack-labs/benchrules/pkg/core"
)

// Dialect is the MLIR input dialect a model is expressed in after import.
type Dialect string

// Dialect constants.
const (
	DialectTOSA   Dialect = "tosa"
	DialectLinalg Dialect = "linalg"
)

// CanonicalDialect is the dialect every imported model ends up in. Sources
// already in this dialect are forwarded without an import step.
const CanonicalDialect = DialectLinalg

var sourceExtensions = map[core.ModelSourceType]string{
	core.ModelSourceExportedLinalgMLIR: "mlir",
	core.ModelSourceExportedTFLite:     "tflite",
	core.ModelSourceExportedTF:         "saved_model",
}

var sourceDialects = map[core.ModelSourceType]Dialect{
	core.ModelSourceExportedLinalgMLIR: DialectLinalg,
	core.ModelSourceExportedTFLite:     DialectTOSA,
	core.ModelSourceExportedTF:         DialectTOSA,
}

// ModelTargetName returns the build target that fetches a model.
func ModelTargetName(id string) string {
	return "model-" + id
}

// ModelFilePath returns where a fetched model artifact is stored.
func ModelFilePath(root, id, name string, sourceType core.ModelSourceType) (string, error) {
	ext, ok := sourceExtensions[sourceType]
	if !ok {
		return "", NewUnsupportedSourceTypeError(sourceType)
	}
	return path.Join(root, fmt.Sprintf("%s_%s.%s", id, name, ext)), nil
}

// ImportTargetName returns the build target that imports a model into MLIR.
func ImportTargetName(modelID string) string {
	return "iree-import-model-" + modelID
}

// ImportOutputPath returns where the imported MLIR of a model is written.
func ImportOutputPath(root, modelID, modelName string) string {
	return path.Join(root, modelDir(modelID, modelName), modelName+".mlir")
}

// DialectForSourceType returns the dialect a source type is imported into.
func DialectForSourceType(sourceType core.ModelSourceType) (Dialect, error) {
	dialect, ok := sourceDialects[sourceType]
	if !ok {
		return "", NewUnsupportedSourceTypeError(sourceType)
	}
	return dialect, nil
}

// IsForwarded reports whether models of the given source type skip the import
// step because they are already in the canonical dialect.
func IsForwarded(sourceType core.ModelSourceType) (bool, error) {
	dialect, err := DialectForSourceType(sourceType)
	if err != nil {
		return false, err
	}
	return dialect == CanonicalDialect, nil
}

// CompileTargetName returns the build target that compiles a model with a
// compile config.
func CompileTargetName(modelID, compileConfigID string) string {
	return fmt.Sprintf("iree-module-%s-%s", modelID, compileConfigID)
}

// CompileOutputPath returns where a compiled module is written.
func CompileOutputPath(root, modelID, modelName, compileConfigID string) string {
	return path.Join(root, modelDir(modelID, modelName), compileConfigID+".vmfb")
}

func modelDir(modelID, modelName string) string {
	return modelID + "_" + modelName
}
