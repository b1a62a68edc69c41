// Package driver executes parameterized statements against a
// types.Conn session and performs schema discovery. It owns at most one
// in-flight statement; operations on one Driver must not interleave.
package driver

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/rowgate/pkg/types"
)

// Driver executes statements on a single session and materializes
// result rows into the configured fetch shape.
type Driver struct {
	conn types.Conn
	mode types.FetchMode

	// Last statement state. rows is non-nil only while a select-class
	// cursor is open.
	stmt  types.Stmt
	rows  types.Rows
	op    types.Operation
	ran   bool
	query string
}

// New creates a Driver over the given session. The default fetch mode
// is FetchAssoc.
func New(conn types.Conn) *Driver {
	return &Driver{conn: conn, mode: types.FetchAssoc}
}

// SetFetchMode selects the shape of subsequently fetched rows.
func (d *Driver) SetFetchMode(mode types.FetchMode) { d.mode = mode }

// FetchMode returns the current fetch mode.
func (d *Driver) FetchMode() types.FetchMode { return d.mode }

// Insert executes INSERT INTO table(cols) VALUES (placeholders) with
// columns in payload order and returns the affected row count.
func (d *Driver) Insert(table string, fields []types.FieldValue) (int64, error) {
	cols := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
		args[i] = f.Value
	}
	query := fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))
	return d.execute(query, types.OpInsert, args)
}

// Update executes UPDATE table SET col=?,... WHERE where. The where
// clause is appended verbatim; its placeholder count is the caller's
// responsibility. Field values are bound first, then whereArgs.
func (d *Driver) Update(table string, fields []types.FieldValue, where string, whereArgs ...any) (int64, error) {
	sets := make([]string, len(fields))
	args := make([]any, 0, len(fields)+len(whereArgs))
	for i, f := range fields {
		sets[i] = f.Column + "=?"
		args = append(args, f.Value)
	}
	args = append(args, whereArgs...)
	query := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(sets, ","))
	if where != "" {
		query += " WHERE " + where
	}
	return d.execute(query, types.OpUpdate, args)
}

// Delete executes DELETE FROM table WHERE where and returns the
// affected row count.
func (d *Driver) Delete(table string, where string, whereArgs ...any) (int64, error) {
	query := "DELETE FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	return d.execute(query, types.OpDelete, whereArgs)
}

// Select opens a cursor over SELECT fields FROM table with optional
// ORDER BY and LIMIT/OFFSET. An unset limit with a set offset selects
// the maximum representable count (skip-only); a set limit with an
// unset offset starts at 0. Rows are retrieved with FetchAll/FetchOne.
func (d *Driver) Select(table string, order []string, limit, offset int64, fields []types.SelectField) error {
	projection := "*"
	if len(fields) > 0 {
		parts := make([]string, len(fields))
		for i, f := range fields {
			if f.Alias != "" {
				parts[i] = f.Column + " AS " + f.Alias
			} else {
				parts[i] = f.Column
			}
		}
		projection = strings.Join(parts, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", projection, table)
	if len(order) > 0 {
		query += " ORDER BY " + strings.Join(order, ", ")
	}
	if limit <= 0 && offset > 0 {
		limit = math.MaxInt64
	}
	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}
	return d.open(query, types.OpSelect, nil)
}

// RawQuery executes an arbitrary statement. The leading keyword
// classifies it (select/describe open a cursor; insert/update/delete
// execute directly); classification only gates fetch validity.
func (d *Driver) RawQuery(query string, args ...any) error {
	switch Classify(query) {
	case types.OpSelect:
		return d.open(query, types.OpSelect, args)
	case types.OpInsert:
		_, err := d.execute(query, types.OpInsert, args)
		return err
	case types.OpUpdate:
		_, err := d.execute(query, types.OpUpdate, args)
		return err
	default:
		_, err := d.execute(query, types.OpDelete, args)
		return err
	}
}

// Classify maps a statement to its operation class by leading keyword:
// select and describe are select-class, insert and update theirs, and
// everything else delete-class.
func Classify(query string) types.Operation {
	word := strings.ToLower(strings.TrimSpace(query))
	if i := strings.IndexAny(word, " \t\r\n("); i >= 0 {
		word = word[:i]
	}
	switch word {
	case "select", "describe":
		return types.OpSelect
	case "insert":
		return types.OpInsert
	case "update":
		return types.OpUpdate
	default:
		return types.OpDelete
	}
}

// FetchAll drains the open cursor into shaped rows and closes it; the
// sequence is finite and non-restartable. Fails with ProtocolError when
// the last statement was not select-class.
func (d *Driver) FetchAll() ([]any, error) {
	cols, raw, err := d.fetchRaw(-1)
	if err != nil {
		return nil, err
	}
	d.finish()
	out := make([]any, len(raw))
	for i, r := range raw {
		out[i] = d.shape(cols, r)
	}
	return out, nil
}

// FetchOne returns the next shaped row, or nil when the cursor is
// exhausted. The cursor stays open until exhausted or replaced.
func (d *Driver) FetchOne() (any, error) {
	cols, raw, err := d.fetchRaw(1)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return d.shape(cols, raw[0]), nil
}

// LastInsertID returns the session's most recent generated identity.
func (d *Driver) LastInsertID() (int64, error) {
	return d.conn.LastInsertID()
}

// Begin starts a transaction on the session.
func (d *Driver) Begin() error {
	if err := d.conn.Begin(); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	return nil
}

// Commit commits the open transaction.
func (d *Driver) Commit() error {
	if err := d.conn.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback aborts the open transaction.
func (d *Driver) Rollback() error {
	if err := d.conn.Rollback(); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Close releases the open statement, if any, and the session.
func (d *Driver) Close() error {
	d.finish()
	return d.conn.Close()
}

// execute prepares and runs a non-cursor statement.
func (d *Driver) execute(query string, op types.Operation, args []any) (int64, error) {
	d.finish()
	stmt, err := d.conn.Prepare(query)
	if err != nil {
		return 0, &types.StatementError{Query: query, Err: err}
	}
	defer stmt.Close()
	affected, err := stmt.Exec(bindArgs(args)...)
	if err != nil {
		return 0, &types.ExecutionError{Query: query, Err: err}
	}
	d.op = op
	d.ran = true
	d.query = query
	return affected, nil
}

// open prepares and runs a cursor statement, leaving the cursor open
// for FetchAll/FetchOne.
func (d *Driver) open(query string, op types.Operation, args []any) error {
	d.finish()
	stmt, err := d.conn.Prepare(query)
	if err != nil {
		return &types.StatementError{Query: query, Err: err}
	}
	rows, err := stmt.Query(bindArgs(args)...)
	if err != nil {
		stmt.Close()
		return &types.ExecutionError{Query: query, Err: err}
	}
	d.stmt = stmt
	d.rows = rows
	d.op = op
	d.ran = true
	d.query = query
	return nil
}

// fetchRaw reads up to n rows (n < 0 drains the cursor), deep-copying
// each into a private buffer so successive fetches never alias one
// engine-internal buffer.
func (d *Driver) fetchRaw(n int) ([]string, [][]any, error) {
	if !d.ran || d.op != types.OpSelect {
		return nil, nil, &types.ProtocolError{Op: "fetch", Want: types.OpSelect, Have: d.op}
	}
	if d.rows == nil {
		// Cursor already exhausted; absence, not an error.
		return nil, nil, nil
	}
	cols := d.rows.Columns()
	var out [][]any
	for n < 0 || len(out) < n {
		row, err := d.rows.Next()
		if err != nil {
			return nil, nil, &types.ExecutionError{Query: d.query, Err: err}
		}
		if row == nil {
			if n > 0 {
				d.finish()
			}
			break
		}
		out = append(out, copyRow(row))
	}
	return cols, out, nil
}

// shape materializes one copied row into the configured fetch shape.
func (d *Driver) shape(cols []string, row []any) any {
	switch d.mode {
	case types.FetchNum:
		return row
	case types.FetchObject:
		return &types.Record{Columns: cols, Values: zip(cols, row)}
	case types.FetchArray:
		m := zip(cols, row)
		for i, v := range row {
			m[strconv.Itoa(i)] = v
		}
		return m
	default:
		return zip(cols, row)
	}
}

// finish closes the open cursor and statement, if any.
func (d *Driver) finish() {
	if d.rows != nil {
		d.rows.Close()
		d.rows = nil
	}
	if d.stmt != nil {
		d.stmt.Close()
		d.stmt = nil
	}
}

func zip(cols []string, row []any) map[string]any {
	m := make(map[string]any, len(cols))
	for i, c := range cols {
		if i < len(row) {
			m[c] = row[i]
		}
	}
	return m
}

// copyRow clones a fetched row into an independently owned buffer.
// Byte slices are the aliasing hazard: engines reuse them between rows.
func copyRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if b, ok := v.([]byte); ok {
			out[i] = append([]byte(nil), b...)
			continue
		}
		out[i] = v
	}
	return out
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
