package core

import (
	"maps"
	"slices"
)

// DeviceArchitecture identifies a processor family and, when it matters for
// code generation, its microarchitecture.
type DeviceArchitecture string

// Device architecture constants.
const (
	ArchX86_64Cascadelake DeviceArchitecture = "x86_64-cascadelake"
	ArchARMv8_2AGeneric   DeviceArchitecture = "armv8.2-a-generic"
	ArchARMv9AGeneric     DeviceArchitecture = "armv9-a-generic"
	ArchRV64Generic       DeviceArchitecture = "riscv_64-generic"
	ArchRV32Generic       DeviceArchitecture = "riscv_32-generic"
	ArchVMVXGeneric       DeviceArchitecture = "vmvx-generic"
	ArchMaliValhall       DeviceArchitecture = "valhall-mali"
	ArchAdrenoGeneric     DeviceArchitecture = "adreno-generic"
	ArchNvidiaAmpere      DeviceArchitecture = "ampere-nvidia"
	ArchNvidiaPascal      DeviceArchitecture = "pascal-nvidia"
)

// ArchitectureInfo is the code generation view of a DeviceArchitecture.
type ArchitectureInfo struct {
	// Architecture is the LLVM triple architecture component (e.g., "x86_64").
	// Empty for non-CPU devices.
	Architecture string
	// Microarchitecture is the CPU name passed to codegen; empty means generic.
	Microarchitecture string
}

var architectures = map[DeviceArchitecture]ArchitectureInfo{
	ArchX86_64Cascadelake: {Architecture: "x86_64", Microarchitecture: "cascadelake"},
	ArchARMv8_2AGeneric:   {Architecture: "aarch64"},
	ArchARMv9AGeneric:     {Architecture: "aarch64"},
	ArchRV64Generic:       {Architecture: "riscv64"},
	ArchRV32Generic:       {Architecture: "riscv32"},
	ArchVMVXGeneric:       {},
	ArchMaliValhall:       {},
	ArchAdrenoGeneric:     {},
	ArchNvidiaAmpere:      {Microarchitecture: "sm_80"},
	ArchNvidiaPascal:      {Microarchitecture: "sm_60"},
}

// Info returns the code generation view of the architecture.
// The boolean is false for unknown architectures.
func (a DeviceArchitecture) Info() (ArchitectureInfo, bool) {
	info, ok := architectures[a]
	return info, ok
}

// IsValid reports whether a is a known architecture.
func (a DeviceArchitecture) IsValid() bool {
	_, ok := architectures[a]
	return ok
}

// DeviceArchitectures returns every known architecture, sorted.
func DeviceArchitectures() []DeviceArchitecture {
	return slices.Sorted(maps.Keys(architectures))
}

// DevicePlatform identifies the operating system and ABI a module runs on.
type DevicePlatform string

// Device platform constants.
const (
	PlatformLinuxGNU  DevicePlatform = "linux-gnu"
	PlatformAndroid29 DevicePlatform = "android-29"
)

// tripleSuffixes maps platforms to the OS/ABI part of an LLVM target triple.
var tripleSuffixes = map[DevicePlatform]string{
	PlatformLinuxGNU:  "linux-gnu",
	PlatformAndroid29: "linux-android29",
}

// TripleSuffix returns the OS/ABI part of an LLVM target triple.
// The boolean is false for unknown platforms.
func (p DevicePlatform) TripleSuffix() (string, bool) {
	s, ok := tripleSuffixes[p]
	return s, ok
}

// IsValid reports whether p is a known platform.
func (p DevicePlatform) IsValid() bool {
	_, ok := tripleSuffixes[p]
	return ok
}

// DevicePlatforms returns every known platform, sorted.
func DevicePlatforms() []DevicePlatform {
	return slices.Sorted(maps.Keys(tripleSuffixes))
}
