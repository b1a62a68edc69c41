// Package sqlite adapts database/sql with the modernc.org/sqlite engine
// to the types.Conn collaborator. DESCRIBE statements are translated to
// pragma_table_info so schema discovery sees the Field/Type/Null/Key/
// Default/Extra shape a MySQL-compatible engine reports; declared type
// strings such as "char(11)" or "int(11) unsigned" pass through
// verbatim because SQLite preserves them.
package sqlite

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/rowgate/pkg/types"
)

// Conn is one SQLite session.
type Conn struct {
	db     *sql.DB
	tx     *sql.Tx
	lastID int64
}

var _ types.Conn = (*Conn)(nil)

// Open opens (creating if needed) the database file at path.
func Open(path string) (*Conn, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One underlying connection keeps transactions and last-insert-id
	// session-scoped.
	db.SetMaxOpenConns(1)
	return &Conn{db: db}, nil
}

var describeRe = regexp.MustCompile(`(?i)^\s*describe\s+([A-Za-z_][A-Za-z0-9_]*)\s*;?\s*$`)

// Prepare compiles a statement. DESCRIBE <table> is answered from
// pragma_table_info instead of the SQL engine.
func (c *Conn) Prepare(query string) (types.Stmt, error) {
	if m := describeRe.FindStringSubmatch(query); m != nil {
		return &describeStmt{conn: c, table: m[1]}, nil
	}
	if c.tx != nil {
		st, err := c.tx.Prepare(query)
		if err != nil {
			return nil, err
		}
		return &stmt{conn: c, st: st}, nil
	}
	st, err := c.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &stmt{conn: c, st: st}, nil
}

// LastInsertID returns the rowid generated by the session's most recent
// insert.
func (c *Conn) LastInsertID() (int64, error) { return c.lastID, nil }

// Begin starts a transaction.
func (c *Conn) Begin() error {
	if c.tx != nil {
		return fmt.Errorf("transaction already open")
	}
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

// Commit commits the open transaction.
func (c *Conn) Commit() error {
	if c.tx == nil {
		return fmt.Errorf("no open transaction")
	}
	err := c.tx.Commit()
	c.tx = nil
	return err
}

// Rollback aborts the open transaction.
func (c *Conn) Rollback() error {
	if c.tx == nil {
		return fmt.Errorf("no open transaction")
	}
	err := c.tx.Rollback()
	c.tx = nil
	return err
}

// queryRows routes a query through the open transaction, if any. With a
// single underlying connection, querying db while a transaction holds it
// would block forever.
func (c *Conn) queryRows(query string, args ...any) (*sql.Rows, error) {
	if c.tx != nil {
		return c.tx.Query(query, args...)
	}
	return c.db.Query(query, args...)
}

// Close releases the session. An open transaction is rolled back.
func (c *Conn) Close() error {
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return c.db.Close()
}

type stmt struct {
	conn *Conn
	st   *sql.Stmt
}

func (s *stmt) Exec(args ...any) (int64, error) {
	res, err := s.st.Exec(args...)
	if err != nil {
		return 0, err
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		s.conn.lastID = id
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *stmt) Query(args ...any) (types.Rows, error) {
	rs, err := s.st.Query(args...)
	if err != nil {
		return nil, err
	}
	cols, err := rs.Columns()
	if err != nil {
		rs.Close()
		return nil, err
	}
	return &rows{rs: rs, cols: cols}, nil
}

func (s *stmt) Close() error { return s.st.Close() }

type rows struct {
	rs   *sql.Rows
	cols []string
}

func (r *rows) Columns() []string { return r.cols }

func (r *rows) Next() ([]any, error) {
	if !r.rs.Next() {
		if err := r.rs.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	vals := make([]any, len(r.cols))
	ptrs := make([]any, len(r.cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := r.rs.Scan(ptrs...); err != nil {
		return nil, err
	}
	return vals, nil
}

func (r *rows) Close() error { return r.rs.Close() }

// describeStmt materializes DESCRIBE results from pragma_table_info.
type describeStmt struct {
	conn  *Conn
	table string
}

func (s *describeStmt) Exec(args ...any) (int64, error) {
	return 0, fmt.Errorf("describe %s: query-only statement", s.table)
}

func (s *describeStmt) Query(args ...any) (types.Rows, error) {
	info, err := s.conn.queryRows(
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`,
		s.table)
	if err != nil {
		return nil, fmt.Errorf("describing %s: %w", s.table, err)
	}
	defer info.Close()

	type column struct {
		name, typ string
		notNull   bool
		def       sql.NullString
		pk        int
	}
	var cols []column
	pkCount := 0
	for info.Next() {
		var c column
		if err := info.Scan(&c.name, &c.typ, &c.notNull, &c.def, &c.pk); err != nil {
			return nil, fmt.Errorf("describing %s: %w", s.table, err)
		}
		if c.pk > 0 {
			pkCount++
		}
		cols = append(cols, c)
	}
	if err := info.Err(); err != nil {
		return nil, fmt.Errorf("describing %s: %w", s.table, err)
	}

	out := make([][]any, 0, len(cols))
	for _, c := range cols {
		null := "YES"
		if c.notNull || c.pk > 0 {
			null = "NO"
		}
		key := ""
		if c.pk > 0 {
			key = "PRI"
		}
		var def any
		if c.def.Valid {
			def = unquoteDefault(c.def.String)
		}
		extra := ""
		// A single-column INTEGER key is a rowid alias and auto-assigns.
		if c.pk > 0 && pkCount == 1 && strings.EqualFold(c.typ, "integer") {
			extra = "auto_increment"
		}
		out = append(out, []any{c.name, c.typ, null, key, def, extra})
	}
	return &memRows{
		cols: []string{"Field", "Type", "Null", "Key", "Default", "Extra"},
		rows: out,
	}, nil
}

func (s *describeStmt) Close() error { return nil }

// unquoteDefault strips the quoting SQLite keeps around literal text
// defaults ('x' stays x, as DESCRIBE reports it).
func unquoteDefault(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	return v
}

// memRows is an in-memory Rows over synthesized results.
type memRows struct {
	cols []string
	rows [][]any
	pos  int
}

func (m *memRows) Columns() []string { return m.cols }

func (m *memRows) Next() ([]any, error) {
	if m.pos >= len(m.rows) {
		return nil, nil
	}
	row := m.rows[m.pos]
	m.pos++
	return row, nil
}

func (m *memRows) Close() error { return nil }
