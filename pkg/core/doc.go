// Package core defines the shared language of the benchrules system.
//
// This package contains:
//   - Model descriptions (Model, ModelSourceType)
//   - Compilation descriptions (CompileConfig, CompileTarget, TargetBackend)
//   - Device descriptions (DeviceArchitecture, DevicePlatform)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
