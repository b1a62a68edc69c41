package types

import (
	"fmt"
	"strings"
)

// Error taxonomy for the data-access core. All failures propagate
// synchronously to the immediate caller; nothing here retries or
// recovers silently. Callers match with errors.As.

// SchemaError reports a schema discovery or key-shape mismatch. For an
// empty discovery result only Table is set; for a key mapping mismatch
// Expected and Supplied list the column names involved.
type SchemaError struct {
	Table    string
	Expected []string
	Supplied []string
}

func (e *SchemaError) Error() string {
	if len(e.Expected) == 0 && len(e.Supplied) == 0 {
		return fmt.Sprintf("table %q: no schema information", e.Table)
	}
	return fmt.Sprintf("table %q: key columns %s expected, %s supplied",
		e.Table, strings.Join(e.Expected, ","), strings.Join(e.Supplied, ","))
}

// StatementError reports a statement that failed to prepare.
type StatementError struct {
	Query string
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("preparing %q: %v", e.Query, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// ExecutionError reports a prepared statement that failed to execute.
// Err carries the engine's code and message.
type ExecutionError struct {
	Query string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing %q: %v", e.Query, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ProtocolError reports an operation issued in the wrong statement
// context, e.g. fetching after a non-select statement.
type ProtocolError struct {
	Op   string
	Want Operation
	Have Operation
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s requires a %s statement, last statement was %s",
		e.Op, e.Want, e.Have)
}

// UnknownColumnError reports access to a column outside a row's fixed
// field set.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("table %q has no column %q", e.Table, e.Column)
}

// ImmutabilityError reports a mutation attempted on a read-only row.
type ImmutabilityError struct {
	Table string
}

func (e *ImmutabilityError) Error() string {
	return fmt.Sprintf("row of table %q is read-only", e.Table)
}

// MissingKeyError reports a persistence operation whose primary key
// could not be resolved from the relevant row view.
type MissingKeyError struct {
	Table   string
	Columns []string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("table %q: primary key (%s) not resolvable",
		e.Table, strings.Join(e.Columns, ","))
}

// ArityError reports a keyed lookup with the wrong number of key values.
type ArityError struct {
	Table    string
	Expected int
	Supplied int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("table %q: %d key value(s) expected, %d supplied",
		e.Table, e.Expected, e.Supplied)
}

// RefreshError reports a post-write re-read that found no row under the
// row's primary key.
type RefreshError struct {
	Table string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("table %q: row vanished during refresh", e.Table)
}
