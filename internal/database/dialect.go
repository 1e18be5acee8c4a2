package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavour behind a *sql.DB.  Repositories write
// their queries with '?' placeholders and call Rebind before executing.
type Dialect int

const (
	Postgres Dialect = iota
	MySQL
	SQLite
)

// ParseDialect maps a DB_DRIVER value onto a Dialect.  An empty value selects
// Postgres.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Postgres, fmt.Errorf("unsupported DB_DRIVER %q (want postgres, mysql or sqlite)", s)
}

func (d Dialect) String() string {
	switch d {
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	default:
		return "postgres"
	}
}

func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return d.String()
}

// DefaultPort is the conventional server port for the dialect.
func (d Dialect) DefaultPort() string {
	switch d {
	case MySQL:
		return "3306"
	case SQLite:
		return ""
	default:
		return "5432"
	}
}

// Rebind rewrites '?' placeholders into $1..$n for Postgres and returns the
// query unchanged for the other dialects.
func (d Dialect) Rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
