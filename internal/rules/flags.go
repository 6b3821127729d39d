package rules

import (
	"fmt"

	"github.com/leapstack-labs/benchrules/internal/naming"
	"github.com/leapstack-labs/benchrules/pkg/core"
)

// inputTypes maps an imported dialect to the compiler's --iree-input-type value.
var inputTypes = map[naming.Dialect]string{
	naming.DialectTOSA:   "tosa",
	naming.DialectLinalg: "none",
}

// compileFlags derives the compiler flags for a compile config applied to MLIR
// in the given dialect. Per-target flags come first, in target order, then the
// input type, then the config's extra flags verbatim.
func compileFlags(config core.CompileConfig, dialect naming.Dialect) ([]string, error) {
	if len(config.CompileTargets) == 0 {
		return nil, fmt.Errorf("compile config %q has no compile targets", config.ID)
	}

	var flags []string
	for _, target := range config.CompileTargets {
		perTarget, err := targetFlags(target)
		if err != nil {
			return nil, fmt.Errorf("compile config %q: %w", config.ID, err)
		}
		flags = append(flags, perTarget...)
	}

	inputType, ok := inputTypes[dialect]
	if !ok {
		return nil, &UnsupportedTargetError{Field: "mlir dialect", Value: string(dialect)}
	}
	flags = append(flags, "--iree-input-type="+inputType)

	return append(flags, config.ExtraFlags...), nil
}

func targetFlags(target core.CompileTarget) ([]string, error) {
	if !target.TargetBackend.IsValid() {
		return nil, &UnsupportedTargetError{Field: "target backend", Value: string(target.TargetBackend)}
	}
	arch, ok := target.TargetArchitecture.Info()
	if !ok {
		return nil, &UnsupportedTargetError{Field: "target architecture", Value: string(target.TargetArchitecture)}
	}

	flags := []string{"--iree-hal-target-backends=" + string(target.TargetBackend)}

	switch target.TargetBackend {
	case core.TargetBackendLLVMCPU:
		if arch.Architecture == "" {
			return nil, &UnsupportedTargetError{Field: "llvm-cpu architecture", Value: string(target.TargetArchitecture)}
		}
		suffix, ok := target.TargetPlatform.TripleSuffix()
		if !ok {
			return nil, &UnsupportedTargetError{Field: "target platform", Value: string(target.TargetPlatform)}
		}
		flags = append(flags, fmt.Sprintf("--iree-llvm-target-triple=%s-unknown-%s", arch.Architecture, suffix))
		if arch.Microarchitecture != "" {
			flags = append(flags, "--iree-llvm-target-cpu="+arch.Microarchitecture)
		}
	case core.TargetBackendCUDA:
		if arch.Microarchitecture != "" {
			flags = append(flags, "--iree-hal-cuda-llvm-target-arch="+arch.Microarchitecture)
		}
	}

	return flags, nil
}
