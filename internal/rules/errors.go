package rules

import "fmt"

// DuplicateKeyConflictError is returned when an Add call reuses a key with inputs
// that derive a different record than the one already stored. The stored record
// is left untouched.
type DuplicateKeyConflictError struct {
	Key    string
	Target string
}

func (e *DuplicateKeyConflictError) Error() string {
	return fmt.Sprintf("rule %s already exists as target %q with different inputs", e.Key, e.Target)
}

// TargetNameCollisionError is returned when two distinct keys derive the same
// target name.
type TargetNameCollisionError struct {
	Target      string
	ExistingKey string
	Key         string
}

func (e *TargetNameCollisionError) Error() string {
	return fmt.Sprintf("target %q derived by %s is already owned by %s", e.Target, e.Key, e.ExistingKey)
}

// UnsupportedTargetError is returned when a compile target or dialect has no
// flag mapping.
type UnsupportedTargetError struct {
	Field string
	Value string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.Field, e.Value)
}
