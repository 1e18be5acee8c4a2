package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{
		"":         Postgres,
		"postgres": Postgres,
		"PGX":      Postgres,
		"mysql":    MySQL,
		"sqlite":   SQLite,
		"sqlite3":  SQLite,
	}
	for in, want := range cases {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDialect("oracle")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM routes WHERE departure = ? AND arrival = ? AND airline IN (?,?)"
	assert.Equal(t,
		"SELECT * FROM routes WHERE departure = $1 AND arrival = $2 AND airline IN ($3,$4)",
		Postgres.Rebind(q))
	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t, q, SQLite.Rebind(q))
}

func TestDSN(t *testing.T) {
	o := Options{User: "flights", Pass: "secret", Host: "db", Port: "5432", Name: "explorer"}
	assert.Equal(t, "postgres://flights:secret@db:5432/explorer?sslmode=disable", dsn(Postgres, o))

	o.Port = "3306"
	assert.Equal(t, "flights:secret@tcp(db:3306)/explorer?charset=utf8mb4&parseTime=true&loc=UTC", dsn(MySQL, o))

	o.Pass = ""
	assert.Equal(t, "flights@tcp(db:3306)/explorer?charset=utf8mb4&parseTime=true&loc=UTC", dsn(MySQL, o))

	assert.Equal(t, "explorer", dsn(SQLite, o))

	o = Options{User: "u", Pass: "p@ss:word", Host: "db", Name: "flights"}
	assert.Equal(t, "postgres://u:p%40ss%3Aword@db:5432/flights?sslmode=disable", dsn(Postgres, o))
	assert.Equal(t, "u:p@ss:word@tcp(db:3306)/flights?charset=utf8mb4&parseTime=true&loc=UTC", dsn(MySQL, o))
}

func TestOpenSQLiteMemory(t *testing.T) {
	db, d, err := Open(Options{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, SQLite, d)
}
