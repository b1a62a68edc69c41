package types

// Conn is one session with a database engine. It supplies statement
// preparation, the session-scoped last-insert-id, and transaction
// primitives as opaque capabilities; everything above it is
// engine-agnostic.
//
// A Conn is not safe for concurrent use. One Conn serves one
// synchronous call chain; concurrent callers need one Conn each or an
// external lock.
type Conn interface {
	// Prepare compiles a parameterized statement. Placeholders are
	// positional ("?").
	Prepare(query string) (Stmt, error)

	// LastInsertID returns the identity value generated by the most
	// recent insert on this session.
	LastInsertID() (int64, error)

	// Begin, Commit, and Rollback delimit a transaction. No nesting,
	// no savepoints.
	Begin() error
	Commit() error
	Rollback() error

	Close() error
}

// Stmt is a prepared statement bound to its Conn.
type Stmt interface {
	// Exec runs the statement and returns the affected row count.
	Exec(args ...any) (int64, error)

	// Query runs the statement and returns its result cursor.
	Query(args ...any) (Rows, error)

	Close() error
}

// Rows is a forward-only result cursor. Values returned by Next may
// alias engine-internal buffers and are only valid until the following
// Next call; the driver copies them before handing rows to callers.
type Rows interface {
	// Columns returns the result column names in projection order.
	Columns() []string

	// Next returns the next row, or (nil, nil) when the cursor is
	// exhausted.
	Next() ([]any, error)

	Close() error
}
