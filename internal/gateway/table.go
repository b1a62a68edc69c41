// Package gateway implements the per-table and per-record gateways of
// the rowgate data-access core. A Table caches schema discovery and
// delegates CRUD to its Driver; a Row carries clean/dirty record state
// and persists through its Table.
package gateway

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/rowgate/internal/driver"
	"github.com/mesh-intelligence/rowgate/pkg/types"
)

// Table is the gateway for one database table. The driver is injected
// at construction; there is no process-wide default.
//
// Schema and primary-key discovery happen lazily on first use and are
// memoized for the instance's lifetime.
type Table struct {
	drv       *driver.Driver
	name      string
	schema    *types.TableSchema
	integrity bool
}

// New creates a gateway for the named table on the given driver.
// Integrity checking starts enabled.
func New(drv *driver.Driver, name string) *Table {
	return &Table{drv: drv, name: name, integrity: true}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Schema returns the discovered table schema, triggering discovery on
// first call.
func (t *Table) Schema() (*types.TableSchema, error) {
	if t.schema == nil {
		s, err := t.drv.DescribeTable(t.name)
		if err != nil {
			return nil, err
		}
		t.schema = s
	}
	return t.schema, nil
}

// PrimaryKey returns the key column names in declared order.
func (t *Table) PrimaryKey() ([]string, error) {
	s, err := t.Schema()
	if err != nil {
		return nil, err
	}
	return s.PrimaryKey(), nil
}

// Identity returns the table's auto-increment key column, if any.
func (t *Table) Identity() (string, bool, error) {
	s, err := t.Schema()
	if err != nil {
		return "", false, err
	}
	name, ok := s.Identity()
	return name, ok, nil
}

// SetIntegrityCheck controls row construction. Enabled (the default),
// created rows carry exactly the table's columns: unknown supplied
// fields are dropped and missing ones default to absence. Disabled,
// created rows carry exactly the supplied fields and are read-only,
// which admits joined or denormalized shapes that could not be written
// back correctly.
func (t *Table) SetIntegrityCheck(enabled bool) { t.integrity = enabled }

// Insert writes one record. Unknown field keys are silently dropped;
// remaining fields are ordered by column declaration.
func (t *Table) Insert(fields map[string]any) (int64, error) {
	fv, err := t.filterFields(fields)
	if err != nil {
		return 0, err
	}
	return t.drv.Insert(t.name, fv)
}

// Update writes the given fields to all records matching cond. Unknown
// field keys are silently dropped.
func (t *Table) Update(fields map[string]any, cond string, condArgs ...any) (int64, error) {
	fv, err := t.filterFields(fields)
	if err != nil {
		return 0, err
	}
	return t.drv.Update(t.name, fv, cond, condArgs...)
}

// Delete removes all records matching cond.
func (t *Table) Delete(cond string, condArgs ...any) (int64, error) {
	return t.drv.Delete(t.name, cond, condArgs...)
}

// GetByID retrieves one record by primary key. id may be a scalar for a
// single-column key, a []any in key declaration order, or a
// map[string]any keyed by column name. A wrong value count is an
// ArityError; a mapping missing key columns is a SchemaError. Absence
// of a match returns (nil, nil).
func (t *Table) GetByID(id any) (*Row, error) {
	pk, err := t.PrimaryKey()
	if err != nil {
		return nil, err
	}
	if len(pk) == 0 {
		return nil, &types.MissingKeyError{Table: t.name}
	}

	args := make([]any, 0, len(pk))
	switch v := id.(type) {
	case map[string]any:
		supplied := make([]string, 0, len(v))
		for k := range v {
			supplied = append(supplied, k)
		}
		sort.Strings(supplied)
		for _, col := range pk {
			val, ok := v[col]
			if !ok {
				return nil, &types.SchemaError{Table: t.name, Expected: pk, Supplied: supplied}
			}
			args = append(args, val)
		}
	case []any:
		if len(v) != len(pk) {
			return nil, &types.ArityError{Table: t.name, Expected: len(pk), Supplied: len(v)}
		}
		args = append(args, v...)
	default:
		if len(pk) != 1 {
			return nil, &types.ArityError{Table: t.name, Expected: len(pk), Supplied: 1}
		}
		args = append(args, id)
	}

	maps, err := t.selectWhere(pkCondition(pk), args)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, nil
	}
	return t.storedRow(maps[0])
}

// GetAll retrieves records as rows. A nil fields slice selects every
// column and yields mutable rows. A restricted field list yields rows
// forced read-only for this call only: such rows lack the data a
// correct update would need.
func (t *Table) GetAll(fields, order []string, limit, offset int64) ([]*Row, error) {
	schema, err := t.Schema()
	if err != nil {
		return nil, err
	}

	restricted := len(fields) > 0
	var sel []types.SelectField
	var cols []string
	for _, f := range fields {
		if _, ok := schema.Column(f); ok {
			sel = append(sel, types.SelectField{Column: f})
			cols = append(cols, f)
		}
	}
	if err := t.drv.Select(t.name, order, limit, offset, sel); err != nil {
		return nil, err
	}
	maps, err := t.fetchMaps()
	if err != nil {
		return nil, err
	}

	rows := make([]*Row, 0, len(maps))
	for _, m := range maps {
		if restricted {
			rows = append(rows, newRow(t, cols, m, true, true, nil))
			continue
		}
		row, err := t.storedRow(m)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CreateRow builds an unstored row from externally supplied data; every
// supplied field starts dirty. The current integrity policy applies.
func (t *Table) CreateRow(fields map[string]any) (*Row, error) {
	if !t.integrity {
		cols := make([]string, 0, len(fields))
		for k := range fields {
			cols = append(cols, k)
		}
		sort.Strings(cols)
		return newRow(t, cols, fields, false, true, cols), nil
	}

	schema, err := t.Schema()
	if err != nil {
		return nil, err
	}
	cols := schema.ColumnNames()
	data := make(map[string]any, len(cols))
	var dirty []string
	for _, c := range cols {
		v, ok := fields[c]
		if !ok {
			data[c] = nil
			continue
		}
		data[c] = v
		dirty = append(dirty, c)
	}
	return newRow(t, cols, data, false, false, dirty), nil
}

// storedRow builds a mutable stored row whose field set is the table's
// column set.
func (t *Table) storedRow(m map[string]any) (*Row, error) {
	schema, err := t.Schema()
	if err != nil {
		return nil, err
	}
	return newRow(t, schema.ColumnNames(), m, true, false, nil), nil
}

// selectWhere issues a keyed equality select and returns the result as
// name-keyed maps.
func (t *Table) selectWhere(cond string, args []any) ([]map[string]any, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s", t.name, cond)
	if err := t.drv.RawQuery(query, args...); err != nil {
		return nil, err
	}
	return t.fetchMaps()
}

// fetchMaps drains the driver's cursor in assoc shape, restoring the
// caller-visible fetch mode afterwards.
func (t *Table) fetchMaps() ([]map[string]any, error) {
	prev := t.drv.FetchMode()
	t.drv.SetFetchMode(types.FetchAssoc)
	defer t.drv.SetFetchMode(prev)

	shaped, err := t.drv.FetchAll()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(shaped))
	for _, s := range shaped {
		m, ok := s.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("table %q: unexpected row shape %T", t.name, s)
		}
		out = append(out, m)
	}
	return out, nil
}

// filterFields keeps only known columns, ordered by declaration.
func (t *Table) filterFields(fields map[string]any) ([]types.FieldValue, error) {
	schema, err := t.Schema()
	if err != nil {
		return nil, err
	}
	var fv []types.FieldValue
	for _, c := range schema.Columns {
		if v, ok := fields[c.Name]; ok {
			fv = append(fv, types.FieldValue{Column: c.Name, Value: v})
		}
	}
	return fv, nil
}

// pkCondition renders "a=? AND b=?" over the key columns.
func pkCondition(pk []string) string {
	parts := make([]string, len(pk))
	for i, col := range pk {
		parts[i] = col + "=?"
	}
	return strings.Join(parts, " AND ")
}
