package types

import "fmt"

// FetchMode selects the shape in which result rows are materialized.
type FetchMode int

const (
	// FetchNum materializes each row as []any in column order.
	FetchNum FetchMode = iota
	// FetchAssoc materializes each row as map[string]any keyed by
	// column name.
	FetchAssoc
	// FetchArray is the legacy combined shape: one map carrying both
	// column-name keys and decimal string index keys ("0", "1", ...).
	// The upstream behavior it descends from was ambiguous; this is the
	// well-defined reading of it.
	FetchArray
	// FetchObject materializes each row as *Record.
	FetchObject
)

// String returns the mode name for diagnostics.
func (m FetchMode) String() string {
	switch m {
	case FetchNum:
		return "num"
	case FetchAssoc:
		return "assoc"
	case FetchArray:
		return "array"
	case FetchObject:
		return "object"
	default:
		return fmt.Sprintf("fetchmode(%d)", int(m))
	}
}

// Operation classifies an executed statement. Fetching is valid only
// after a Select-class statement.
type Operation int

const (
	OpSelect Operation = iota
	OpInsert
	OpUpdate
	OpDelete
)

// String returns the operation name for diagnostics.
func (o Operation) String() string {
	switch o {
	case OpSelect:
		return "select"
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Record is the FetchObject row shape: named field values plus the
// column order of the originating statement.
type Record struct {
	Columns []string
	Values  map[string]any
}

// Get returns the named field value, nil when absent.
func (r *Record) Get(name string) any {
	return r.Values[name]
}

// FieldValue is one column/value pair in an ordered write payload.
// Order matters: generated INSERT and UPDATE statements list columns in
// payload order.
type FieldValue struct {
	Column string
	Value  any
}

// SelectField names one projected column, optionally aliased. An empty
// Alias projects the bare column; otherwise "col AS alias" is generated.
type SelectField struct {
	Column string
	Alias  string
}
