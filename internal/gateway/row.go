package gateway

import (
	"reflect"

	"github.com/mesh-intelligence/rowgate/pkg/types"
)

// Row is the gateway for one record. It tracks a clean snapshot (the
// last state known persisted) and the set of dirty fields, so updates
// carry only what changed. A row is created either stored (from a query
// result) or unstored (externally supplied data, every field dirty).
type Row struct {
	table   *Table
	columns []string
	data    map[string]any
	clean   map[string]any // nil until the row is known stored
	dirty   map[string]struct{}
	ro      bool
}

// newRow builds a row with the given fixed field set. Missing data
// values default to absence. stored populates the clean snapshot;
// dirty lists the initially dirty columns for unstored rows.
func newRow(t *Table, columns []string, data map[string]any, stored, readOnly bool, dirty []string) *Row {
	r := &Row{
		table:   t,
		columns: columns,
		data:    make(map[string]any, len(columns)),
		dirty:   make(map[string]struct{}),
		ro:      readOnly,
	}
	for _, c := range columns {
		r.data[c] = data[c]
	}
	if stored {
		r.clean = snapshot(r.data)
	} else {
		for _, c := range dirty {
			r.dirty[c] = struct{}{}
		}
	}
	return r
}

// Table returns the owning gateway.
func (r *Row) Table() *Table { return r.table }

// Columns returns the row's fixed field set in order.
func (r *Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// ReadOnly reports whether mutators are rejected.
func (r *Row) ReadOnly() bool { return r.ro }

// Has reports field-set membership. It never fails.
func (r *Row) Has(col string) bool {
	_, ok := r.data[col]
	return ok
}

// Get returns the field's current value.
func (r *Row) Get(col string) (any, error) {
	v, ok := r.data[col]
	if !ok {
		return nil, &types.UnknownColumnError{Table: r.table.name, Column: col}
	}
	return v, nil
}

// Set assigns a field value and marks it dirty. Assigning the current
// value is a no-op with no state change.
func (r *Row) Set(col string, val any) error {
	if r.ro {
		return &types.ImmutabilityError{Table: r.table.name}
	}
	cur, ok := r.data[col]
	if !ok {
		return &types.UnknownColumnError{Table: r.table.name, Column: col}
	}
	if reflect.DeepEqual(cur, val) {
		return nil
	}
	r.data[col] = val
	r.dirty[col] = struct{}{}
	return nil
}

// Save persists the dirty fields. An unstored row inserts exactly its
// dirty fields, adopting the session's generated identity when the
// table has a single-column identity absent from the payload. A stored
// row with nothing dirty is a no-op returning 0; otherwise it updates
// exactly the dirty fields keyed by the primary key resolved from the
// current (dirty) view. Both paths refresh on success.
func (r *Row) Save() (int64, error) {
	if r.ro {
		return 0, &types.ImmutabilityError{Table: r.table.name}
	}
	if len(r.dirty) == 0 {
		return 0, nil
	}
	if r.clean == nil {
		return r.saveInsert()
	}
	return r.saveUpdate()
}

func (r *Row) saveInsert() (int64, error) {
	affected, err := r.table.drv.Insert(r.table.name, r.dirtyFields())
	if err != nil {
		return 0, err
	}

	// Adopt the generated identity when the key column was not part of
	// the inserted data.
	idCol, hasIdentity, err := r.table.Identity()
	if err != nil {
		return 0, err
	}
	if hasIdentity {
		if _, supplied := r.dirty[idCol]; !supplied || r.data[idCol] == nil {
			id, err := r.table.drv.LastInsertID()
			if err != nil {
				return 0, err
			}
			r.data[idCol] = id
		}
	}

	if err := r.Refresh(); err != nil {
		return 0, err
	}
	return affected, nil
}

func (r *Row) saveUpdate() (int64, error) {
	cond, args, err := r.pkWhere(true)
	if err != nil {
		return 0, err
	}
	affected, err := r.table.drv.Update(r.table.name, r.dirtyFields(), cond, args...)
	if err != nil {
		return 0, err
	}
	if err := r.Refresh(); err != nil {
		return 0, err
	}
	return affected, nil
}

// Delete removes the record, keyed by the primary key resolved from the
// clean snapshot. An unresolvable key fails before any database call.
// On success the row becomes a tombstone: every field reset to absence,
// usable only for inspection.
func (r *Row) Delete() (int64, error) {
	if r.ro {
		return 0, &types.ImmutabilityError{Table: r.table.name}
	}
	cond, args, err := r.pkWhere(false)
	if err != nil {
		return 0, err
	}
	affected, err := r.table.drv.Delete(r.table.name, cond, args...)
	if err != nil {
		return 0, err
	}
	for _, c := range r.columns {
		r.data[c] = nil
	}
	r.clean = nil
	r.dirty = make(map[string]struct{})
	r.ro = true
	return affected, nil
}

// Refresh re-reads the record by its primary key from the current view
// and replaces both the data and the clean snapshot, clearing dirty
// state. A vanished record is a RefreshError.
func (r *Row) Refresh() error {
	cond, args, err := r.pkWhere(true)
	if err != nil {
		return err
	}
	maps, err := r.table.selectWhere(cond, args)
	if err != nil {
		return err
	}
	if len(maps) == 0 {
		return &types.RefreshError{Table: r.table.name}
	}
	for _, c := range r.columns {
		r.data[c] = maps[0][c]
	}
	r.clean = snapshot(r.data)
	r.dirty = make(map[string]struct{})
	return nil
}

// PK resolves the primary key from the current data (useDirty) or the
// clean snapshot. Composite keys yield a name-keyed map; single-column
// keys yield the scalar, nil when missing.
func (r *Row) PK(useDirty bool) (any, error) {
	pk, err := r.table.PrimaryKey()
	if err != nil {
		return nil, err
	}
	view := r.clean
	if useDirty {
		view = r.data
	}
	if len(pk) == 1 {
		if view == nil {
			return nil, nil
		}
		return view[pk[0]], nil
	}
	m := make(map[string]any, len(pk))
	for _, col := range pk {
		if view != nil {
			m[col] = view[col]
		} else {
			m[col] = nil
		}
	}
	return m, nil
}

// pkWhere renders the keyed equality condition with its values from the
// chosen view. A missing or nil key value is a MissingKeyError.
func (r *Row) pkWhere(useDirty bool) (string, []any, error) {
	pk, err := r.table.PrimaryKey()
	if err != nil {
		return "", nil, err
	}
	if len(pk) == 0 {
		return "", nil, &types.MissingKeyError{Table: r.table.name}
	}
	view := r.clean
	if useDirty {
		view = r.data
	}
	args := make([]any, 0, len(pk))
	for _, col := range pk {
		var v any
		if view != nil {
			v = view[col]
		}
		if v == nil {
			return "", nil, &types.MissingKeyError{Table: r.table.name, Columns: pk}
		}
		args = append(args, v)
	}
	return pkCondition(pk), args, nil
}

// dirtyFields returns the dirty columns in declaration order.
func (r *Row) dirtyFields() []types.FieldValue {
	var fv []types.FieldValue
	for _, c := range r.columns {
		if _, ok := r.dirty[c]; ok {
			fv = append(fv, types.FieldValue{Column: c, Value: r.data[c]})
		}
	}
	return fv
}

func snapshot(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
