package naming

import (
	"fmt"
	"maps"
	"slices"

	"github.com/leapstack-labs/benchrules/pkg/core"
)

// UnsupportedSourceTypeError is returned when a source type has no entry in the
// extension or dialect tables. It signals a catalog data bug and is not retryable.
type UnsupportedSourceTypeError struct {
	SourceType core.ModelSourceType
	Supported  []core.ModelSourceType
}

// NewUnsupportedSourceTypeError reports a source type missing from the lookup tables.
func NewUnsupportedSourceTypeError(sourceType core.ModelSourceType) *UnsupportedSourceTypeError {
	return &UnsupportedSourceTypeError{
		SourceType: sourceType,
		Supported:  slices.Sorted(maps.Keys(sourceExtensions)),
	}
}

func (e *UnsupportedSourceTypeError) Error() string {
	return fmt.Sprintf("unsupported model source type %q (supported: %v)", e.SourceType, e.Supported)
}
