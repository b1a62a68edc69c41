package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rowgate/internal/conntest"
	"github.com/mesh-intelligence/rowgate/internal/driver"
	"github.com/mesh-intelligence/rowgate/pkg/types"
)

var describeCols = []string{"Field", "Type", "Null", "Key", "Default", "Extra"}

// queueUsuario scripts the schema discovery answer for the usuario
// table: cpf is the natural single-column key.
func queueUsuario(conn *conntest.Conn) {
	conn.Queue(describeCols,
		[]any{"cpf", "char(11)", "NO", "PRI", nil, ""},
		[]any{"senha", "varchar(255)", "NO", "", nil, ""},
		[]any{"cargo", "varchar(60)", "YES", "", nil, ""},
	)
}

// queueMatricula scripts discovery for a composite-key table.
func queueMatricula(conn *conntest.Conn) {
	conn.Queue(describeCols,
		[]any{"turma", "int(11)", "NO", "PRI", nil, ""},
		[]any{"aluno", "int(11)", "NO", "PRI", nil, ""},
		[]any{"nota", "decimal(4,2)", "YES", "", nil, ""},
	)
}

func usuarioTable(conn *conntest.Conn) *Table {
	queueUsuario(conn)
	return New(driver.New(conn), "usuario")
}

func TestSchemaMemoized(t *testing.T) {
	conn := &conntest.Conn{}
	tbl := usuarioTable(conn)

	first, err := tbl.Schema()
	require.NoError(t, err)
	second, err := tbl.Schema()
	require.NoError(t, err)

	assert.Same(t, first, second)
	require.Len(t, conn.Queries, 1)
	assert.Equal(t, "DESCRIBE usuario", conn.Queries[0].Query)
}

func TestPrimaryKeyAndIdentity(t *testing.T) {
	conn := &conntest.Conn{}
	tbl := usuarioTable(conn)

	pk, err := tbl.PrimaryKey()
	require.NoError(t, err)
	assert.Equal(t, []string{"cpf"}, pk)

	_, ok, err := tbl.Identity()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTableInsert(t *testing.T) {
	conn := &conntest.Conn{Affected: 1}
	tbl := usuarioTable(conn)

	// Unknown keys are dropped; known keys follow declaration order.
	n, err := tbl.Insert(map[string]any{
		"cargo":   "desenvolvedor",
		"cpf":     "56005094801",
		"salario": 9000,
		"senha":   "segredo",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.Len(t, conn.Execs, 1)
	assert.Equal(t, "INSERT INTO usuario(cpf, senha, cargo) VALUES (?, ?, ?)", conn.Execs[0].Query)
	assert.Equal(t, []any{"56005094801", "segredo", "desenvolvedor"}, conn.Execs[0].Args)
}

func TestTableUpdate(t *testing.T) {
	conn := &conntest.Conn{Affected: 3}
	tbl := usuarioTable(conn)

	n, err := tbl.Update(map[string]any{"cargo": "gerente", "bogus": 1}, "cargo=?", "desenvolvedor")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.Len(t, conn.Execs, 1)
	assert.Equal(t, "UPDATE usuario SET cargo=? WHERE cargo=?", conn.Execs[0].Query)
	assert.Equal(t, []any{"gerente", "desenvolvedor"}, conn.Execs[0].Args)
}

func TestTableDelete(t *testing.T) {
	conn := &conntest.Conn{Affected: 1}
	tbl := New(driver.New(conn), "usuario")

	n, err := tbl.Delete("cpf=?", "56005094801")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "DELETE FROM usuario WHERE cpf=?", conn.Execs[0].Query)
}

func TestGetByIDScalar(t *testing.T) {
	conn := &conntest.Conn{}
	tbl := usuarioTable(conn)
	conn.Queue([]string{"cpf", "senha", "cargo"},
		[]any{"56005094801", "segredo", "desenvolvedor"})

	row, err := tbl.GetByID("56005094801")
	require.NoError(t, err)
	require.NotNil(t, row)

	require.Len(t, conn.Queries, 2)
	assert.Equal(t, "SELECT * FROM usuario WHERE cpf=?", conn.Queries[1].Query)
	assert.Equal(t, []any{"56005094801"}, conn.Queries[1].Args)

	cargo, err := row.Get("cargo")
	require.NoError(t, err)
	assert.Equal(t, "desenvolvedor", cargo)
	assert.False(t, row.ReadOnly())
}

func TestGetByIDAbsent(t *testing.T) {
	conn := &conntest.Conn{}
	tbl := usuarioTable(conn)
	conn.Queue([]string{"cpf", "senha", "cargo"})

	row, err := tbl.GetByID("00000000000")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGetByIDComposite(t *testing.T) {
	t.Run("positional and mapped forms are equivalent", func(t *testing.T) {
		for _, id := range []any{
			[]any{int64(12), int64(7)},
			map[string]any{"aluno": int64(7), "turma": int64(12)},
		} {
			conn := &conntest.Conn{}
			queueMatricula(conn)
			tbl := New(driver.New(conn), "matricula")
			conn.Queue([]string{"turma", "aluno", "nota"}, []any{int64(12), int64(7), 8.5})

			row, err := tbl.GetByID(id)
			require.NoError(t, err)
			require.NotNil(t, row)
			assert.Equal(t, "SELECT * FROM matricula WHERE turma=? AND aluno=?", conn.Queries[1].Query)
			assert.Equal(t, []any{int64(12), int64(7)}, conn.Queries[1].Args)
		}
	})

	t.Run("wrong value count", func(t *testing.T) {
		conn := &conntest.Conn{}
		queueMatricula(conn)
		tbl := New(driver.New(conn), "matricula")

		_, err := tbl.GetByID([]any{int64(12)})
		var aerr *types.ArityError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, 2, aerr.Expected)
		assert.Equal(t, 1, aerr.Supplied)
	})

	t.Run("scalar against composite key", func(t *testing.T) {
		conn := &conntest.Conn{}
		queueMatricula(conn)
		tbl := New(driver.New(conn), "matricula")

		_, err := tbl.GetByID(int64(12))
		var aerr *types.ArityError
		require.ErrorAs(t, err, &aerr)
	})

	t.Run("mapping missing a key column", func(t *testing.T) {
		conn := &conntest.Conn{}
		queueMatricula(conn)
		tbl := New(driver.New(conn), "matricula")

		_, err := tbl.GetByID(map[string]any{"turma": int64(12), "nota": 8.5})
		var serr *types.SchemaError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, []string{"turma", "aluno"}, serr.Expected)
		assert.Equal(t, []string{"nota", "turma"}, serr.Supplied)
	})
}

func TestGetAll(t *testing.T) {
	t.Run("full rows are mutable", func(t *testing.T) {
		conn := &conntest.Conn{}
		tbl := usuarioTable(conn)
		conn.Queue([]string{"cpf", "senha", "cargo"},
			[]any{"56005094801", "segredo", "desenvolvedor"},
			[]any{"17331828309", "outra", "gerente"})

		rows, err := tbl.GetAll(nil, []string{"cpf"}, 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "SELECT * FROM usuario ORDER BY cpf", conn.Queries[1].Query)
		assert.False(t, rows[0].ReadOnly())
	})

	t.Run("restricted rows are read-only", func(t *testing.T) {
		conn := &conntest.Conn{}
		tbl := usuarioTable(conn)
		conn.Queue([]string{"cpf"}, []any{"56005094801"})

		rows, err := tbl.GetAll([]string{"cpf", "inexistente"}, nil, 5, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		// Unknown requested fields are dropped from the projection.
		assert.Equal(t, "SELECT cpf FROM usuario LIMIT 5 OFFSET 0", conn.Queries[1].Query)

		row := rows[0]
		assert.True(t, row.ReadOnly())
		assert.Equal(t, []string{"cpf"}, row.Columns())
		assert.False(t, row.Has("cargo"))
		err = row.Set("cpf", "x")
		var ierr *types.ImmutabilityError
		assert.ErrorAs(t, err, &ierr)
	})
}

func TestCreateRow(t *testing.T) {
	t.Run("integrity on fixes the field set to the schema", func(t *testing.T) {
		conn := &conntest.Conn{}
		tbl := usuarioTable(conn)

		row, err := tbl.CreateRow(map[string]any{"cpf": "56005094801", "bogus": 1})
		require.NoError(t, err)

		assert.Equal(t, []string{"cpf", "senha", "cargo"}, row.Columns())
		assert.False(t, row.ReadOnly())
		assert.False(t, row.Has("bogus"))

		senha, err := row.Get("senha")
		require.NoError(t, err)
		assert.Nil(t, senha)
	})

	t.Run("integrity off keeps supplied fields and locks the row", func(t *testing.T) {
		conn := &conntest.Conn{}
		tbl := New(driver.New(conn), "usuario")
		tbl.SetIntegrityCheck(false)

		row, err := tbl.CreateRow(map[string]any{"cargo": "gerente", "apelido": "ze"})
		require.NoError(t, err)

		// No discovery happens: the supplied shape is taken as-is.
		assert.Zero(t, conn.Calls())
		assert.Equal(t, []string{"apelido", "cargo"}, row.Columns())
		assert.True(t, row.ReadOnly())
	})
}
