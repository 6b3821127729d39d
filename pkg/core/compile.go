package core

import "slices"

// TargetBackend is an IREE HAL target backend.
type TargetBackend string

// Target backend constants.
const (
	TargetBackendLLVMCPU     TargetBackend = "llvm-cpu"
	TargetBackendCUDA        TargetBackend = "cuda"
	TargetBackendVulkanSPIRV TargetBackend = "vulkan-spirv"
	TargetBackendVMVX        TargetBackend = "vmvx"
)

// TargetBackends returns every known backend in declaration order.
func TargetBackends() []TargetBackend {
	return []TargetBackend{
		TargetBackendLLVMCPU,
		TargetBackendCUDA,
		TargetBackendVulkanSPIRV,
		TargetBackendVMVX,
	}
}

// IsValid reports whether b is a known backend.
func (b TargetBackend) IsValid() bool {
	return slices.Contains(TargetBackends(), b)
}

// CompileTarget identifies one (architecture, platform, backend) triple a module
// is compiled for.
type CompileTarget struct {
	TargetArchitecture DeviceArchitecture `yaml:"target_architecture"`
	TargetPlatform     DevicePlatform     `yaml:"target_platform"`
	TargetBackend      TargetBackend      `yaml:"target_backend"`
}

// CompileConfig describes how imported models are compiled into modules.
type CompileConfig struct {
	// ID is the stable identifier used in module target names and file names
	ID string `yaml:"id"`
	// Tags are unordered labels (e.g., "default", "experimental")
	Tags []string `yaml:"tags,omitempty"`
	// CompileTargets are the targets a module is built for, in order
	CompileTargets []CompileTarget `yaml:"compile_targets"`
	// ExtraFlags are appended verbatim to the compiler flags
	ExtraFlags []string `yaml:"extra_flags,omitempty"`
}
