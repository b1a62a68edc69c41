// Package conntest provides a scripted, recording types.Conn for unit
// tests. Tests queue result sets, run the code under test, and assert
// on the exact SQL and parameters it issued.
package conntest

import (
	"errors"

	"github.com/mesh-intelligence/rowgate/pkg/types"
)

// Call records one executed statement with its bound parameters.
type Call struct {
	Query string
	Args  []any
}

// Result is one scripted result set.
type Result struct {
	Cols []string
	Rows [][]any
}

// Conn is a fake session. Zero value is ready to use.
type Conn struct {
	// Recorded activity.
	Prepared []string
	Execs    []Call
	Queries  []Call
	Begun    int
	Commits  int
	Rollbax  int
	Closed   bool

	// Scripted behavior.
	Affected   int64 // returned by every Exec
	LastID     int64
	PrepareErr error
	ExecErr    error
	QueryErr   error

	results []Result
}

var _ types.Conn = (*Conn)(nil)

// Queue appends a result set served to the next Query, in FIFO order.
// A Query with nothing queued yields an empty result.
func (c *Conn) Queue(cols []string, rows ...[]any) {
	c.results = append(c.results, Result{Cols: cols, Rows: rows})
}

// Calls returns how many statements were executed or queried.
func (c *Conn) Calls() int { return len(c.Execs) + len(c.Queries) }

func (c *Conn) Prepare(query string) (types.Stmt, error) {
	if c.PrepareErr != nil {
		return nil, c.PrepareErr
	}
	c.Prepared = append(c.Prepared, query)
	return &stmt{conn: c, query: query}, nil
}

func (c *Conn) LastInsertID() (int64, error) { return c.LastID, nil }

func (c *Conn) Begin() error    { c.Begun++; return nil }
func (c *Conn) Commit() error   { c.Commits++; return nil }
func (c *Conn) Rollback() error { c.Rollbax++; return nil }
func (c *Conn) Close() error    { c.Closed = true; return nil }

type stmt struct {
	conn  *Conn
	query string
}

func (s *stmt) Exec(args ...any) (int64, error) {
	if s.conn.ExecErr != nil {
		return 0, s.conn.ExecErr
	}
	s.conn.Execs = append(s.conn.Execs, Call{Query: s.query, Args: args})
	return s.conn.Affected, nil
}

func (s *stmt) Query(args ...any) (types.Rows, error) {
	if s.conn.QueryErr != nil {
		return nil, s.conn.QueryErr
	}
	s.conn.Queries = append(s.conn.Queries, Call{Query: s.query, Args: args})
	var res Result
	if len(s.conn.results) > 0 {
		res = s.conn.results[0]
		s.conn.results = s.conn.results[1:]
	}
	return &rows{res: res}, nil
}

func (s *stmt) Close() error { return nil }

type rows struct {
	res Result
	pos int
}

func (r *rows) Columns() []string { return r.res.Cols }

func (r *rows) Next() ([]any, error) {
	if r.pos >= len(r.res.Rows) {
		return nil, nil
	}
	row := r.res.Rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rows) Close() error { return nil }

// ErrScripted is a convenience error for scripting failures.
var ErrScripted = errors.New("scripted failure")
