package models

import (
	"fmt"
	"strings"
)

// LoadError means the uploaded file could not be read at all.
type LoadError struct {
	Name   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Name, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError lists required columns that stayed unresolved after
// alias and manual mapping.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ",")
}

// MappingError is returned when a manual mapping points at a column the
// upload does not have, or names a field that is not a canonical column.
type MappingError struct {
	Field        string
	Column       string
	UnknownField bool
}

func (e *MappingError) Error() string {
	if e.UnknownField {
		return fmt.Sprintf("mapping %s: not a canonical column", e.Field)
	}
	return fmt.Sprintf("mapping %s: no column %q in upload", e.Field, e.Column)
}
