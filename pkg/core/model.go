package core

import "slices"

// ModelSourceType identifies the format a model artifact is published in.
type ModelSourceType string

// Model source type constants.
const (
	// ModelSourceExportedLinalgMLIR is an MLIR file already lowered to linalg.
	ModelSourceExportedLinalgMLIR ModelSourceType = "exported_linalg_mlir"
	// ModelSourceExportedTFLite is a TFLite flatbuffer.
	ModelSourceExportedTFLite ModelSourceType = "exported_tflite"
	// ModelSourceExportedTF is a TensorFlow SavedModel archive.
	ModelSourceExportedTF ModelSourceType = "exported_tf"
)

// ModelSourceTypes returns every known source type in declaration order.
func ModelSourceTypes() []ModelSourceType {
	return []ModelSourceType{
		ModelSourceExportedLinalgMLIR,
		ModelSourceExportedTFLite,
		ModelSourceExportedTF,
	}
}

// IsValid reports whether t is a known source type.
func (t ModelSourceType) IsValid() bool {
	return slices.Contains(ModelSourceTypes(), t)
}

// Model describes a benchmarked model artifact.
// Values are provided by a catalog and never mutated after construction.
type Model struct {
	// ID is the stable identifier used in every derived target name
	ID string `yaml:"id"`
	// Name is a short human-readable name, also used in derived file names
	Name string `yaml:"name"`
	// Tags are unordered labels (e.g., "fp32", "batch-1")
	Tags []string `yaml:"tags,omitempty"`
	// SourceType is the format of the artifact at SourceURL
	SourceType ModelSourceType `yaml:"source_type"`
	// SourceURL is where the artifact is fetched from
	SourceURL string `yaml:"source_url"`
	// EntryFunction is the function the importer exposes
	EntryFunction string `yaml:"entry_function"`
	// InputTypes are the shape/type strings of the entry function inputs, in order
	InputTypes []string `yaml:"input_types,omitempty"`
}
