package template

import (
	"fmt"
)

// Scope names where a required value was looked up.
type Scope string

const (
	ScopeProperties Scope = "properties"
	ScopeEnv        Scope = "env"
)

// MissingPropertyError reports a required value that is absent or empty.
type MissingPropertyError struct {
	Property string
	Scope    Scope
}

func (e *MissingPropertyError) Error() string {
	scope := e.Scope
	if scope == "" {
		scope = ScopeProperties
	}
	return fmt.Sprintf("missing required %s value %q", scope, e.Property)
}

// MissingImportError reports a containerManifest key with no matching import.
type MissingImportError struct {
	Key string
}

func (e *MissingImportError) Error() string {
	return fmt.Sprintf("import %q referenced by containerManifest was not resolved", e.Key)
}

// InvalidPropertyError reports a property that is present but not acceptable.
type InvalidPropertyError struct {
	Property string
	Value    interface{}
	Reason   string
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("invalid value %v for property %q: %s", e.Value, e.Property, e.Reason)
}
