package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestConn(t *testing.T) *Conn {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustExec(t *testing.T, conn *Conn, query string, args ...any) int64 {
	t.Helper()
	st, err := conn.Prepare(query)
	require.NoError(t, err)
	defer st.Close()
	n, err := st.Exec(args...)
	require.NoError(t, err)
	return n
}

func asText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return ""
	}
}

func TestDescribeTranslation(t *testing.T) {
	conn := openTestConn(t)
	mustExec(t, conn, `CREATE TABLE usuario (
		cpf char(11) NOT NULL,
		senha varchar(255) NOT NULL,
		cargo varchar(60) DEFAULT 'desenvolvedor',
		PRIMARY KEY (cpf)
	)`)

	st, err := conn.Prepare("DESCRIBE usuario")
	require.NoError(t, err)
	defer st.Close()

	rs, err := st.Query()
	require.NoError(t, err)
	defer rs.Close()

	assert.Equal(t, []string{"Field", "Type", "Null", "Key", "Default", "Extra"}, rs.Columns())

	var got [][]any
	for {
		row, err := rs.Next()
		require.NoError(t, err)
		if row == nil {
			break
		}
		got = append(got, row)
	}
	require.Len(t, got, 3)

	// Declared type strings pass through verbatim.
	assert.Equal(t, "cpf", asText(got[0][0]))
	assert.Equal(t, "char(11)", asText(got[0][1]))
	assert.Equal(t, "NO", asText(got[0][2]))
	assert.Equal(t, "PRI", asText(got[0][3]))
	assert.Equal(t, "", asText(got[0][5]))

	assert.Equal(t, "senha", asText(got[1][0]))
	assert.Equal(t, "NO", asText(got[1][2]))
	assert.Equal(t, "", asText(got[1][3]))

	assert.Equal(t, "cargo", asText(got[2][0]))
	assert.Equal(t, "YES", asText(got[2][2]))
	assert.Equal(t, "desenvolvedor", asText(got[2][4]))
}

func TestDescribeIdentity(t *testing.T) {
	conn := openTestConn(t)
	mustExec(t, conn, `CREATE TABLE pedido (id INTEGER PRIMARY KEY, valor REAL NOT NULL)`)
	mustExec(t, conn, `CREATE TABLE matricula (turma int NOT NULL, aluno int NOT NULL, PRIMARY KEY (turma, aluno))`)

	describe := func(table string) [][]any {
		st, err := conn.Prepare("DESCRIBE " + table)
		require.NoError(t, err)
		defer st.Close()
		rs, err := st.Query()
		require.NoError(t, err)
		defer rs.Close()
		var got [][]any
		for {
			row, err := rs.Next()
			require.NoError(t, err)
			if row == nil {
				return got
			}
			got = append(got, row)
		}
	}

	// A lone INTEGER key is a rowid alias and auto-assigns.
	pedido := describe("pedido")
	require.Len(t, pedido, 2)
	assert.Equal(t, "auto_increment", asText(pedido[0][5]))

	// Composite keys never do, whatever the column types.
	matricula := describe("matricula")
	require.Len(t, matricula, 3)
	assert.Equal(t, "PRI", asText(matricula[0][3]))
	assert.Equal(t, "PRI", asText(matricula[1][3]))
	assert.Equal(t, "", asText(matricula[0][5]))
	assert.Equal(t, "", asText(matricula[1][5]))
}

func TestDescribeExecRejected(t *testing.T) {
	conn := openTestConn(t)
	st, err := conn.Prepare("DESCRIBE usuario")
	require.NoError(t, err)
	_, err = st.Exec()
	assert.Error(t, err)
}

func TestLastInsertID(t *testing.T) {
	conn := openTestConn(t)
	mustExec(t, conn, `CREATE TABLE pedido (id INTEGER PRIMARY KEY, valor REAL NOT NULL)`)

	n := mustExec(t, conn, `INSERT INTO pedido(valor) VALUES (?)`, 12.5)
	assert.Equal(t, int64(1), n)

	id, err := conn.LastInsertID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	mustExec(t, conn, `INSERT INTO pedido(valor) VALUES (?)`, 20.0)
	id, err = conn.LastInsertID()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestTransactions(t *testing.T) {
	conn := openTestConn(t)
	mustExec(t, conn, `CREATE TABLE usuario (cpf char(11) PRIMARY KEY, cargo varchar(60))`)

	count := func() int64 {
		st, err := conn.Prepare(`SELECT count(*) FROM usuario`)
		require.NoError(t, err)
		defer st.Close()
		rs, err := st.Query()
		require.NoError(t, err)
		defer rs.Close()
		row, err := rs.Next()
		require.NoError(t, err)
		require.NotNil(t, row)
		return row[0].(int64)
	}

	require.NoError(t, conn.Begin())
	mustExec(t, conn, `INSERT INTO usuario(cpf, cargo) VALUES (?, ?)`, "56005094801", "desenvolvedor")
	require.NoError(t, conn.Rollback())
	assert.Equal(t, int64(0), count())

	require.NoError(t, conn.Begin())
	mustExec(t, conn, `INSERT INTO usuario(cpf, cargo) VALUES (?, ?)`, "56005094801", "desenvolvedor")
	require.NoError(t, conn.Commit())
	assert.Equal(t, int64(1), count())

	// The transaction state is strictly bracketed.
	assert.Error(t, conn.Commit())
	assert.Error(t, conn.Rollback())
	require.NoError(t, conn.Begin())
	assert.Error(t, conn.Begin())
	require.NoError(t, conn.Rollback())
}

func TestUnquoteDefault(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"'desenvolvedor'", "desenvolvedor"},
		{"'it''s'", "it's"},
		{"0", "0"},
		{"CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP"},
		{"''", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, unquoteDefault(tt.in))
		})
	}
}
