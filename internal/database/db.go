package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Options describes how to reach the reference database.
type Options struct {
	Driver string // postgres | mysql | sqlite
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string // database name, or file path for sqlite
}

// Open connects to the configured database and verifies the connection.  The
// returned Dialect must be used to rebind queries written with '?' markers.
func Open(o Options) (*sql.DB, Dialect, error) {
	d, err := ParseDialect(o.Driver)
	if err != nil {
		return nil, d, err
	}

	db, err := sql.Open(d.driverName(), dsn(d, o))
	if err != nil {
		return nil, d, err
	}

	// Pool settings
	if d == SQLite {
		// a single connection keeps :memory: databases coherent
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, d, fmt.Errorf("ping %s: %w", d, err)
	}
	return db, d, nil
}

func dsn(d Dialect, o Options) string {
	if o.Port == "" {
		o.Port = d.DefaultPort()
	}
	switch d {
	case MySQL:
		auth := o.User
		if o.Pass != "" {
			auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, o.Host, o.Port, o.Name)
	case SQLite:
		return o.Name
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(o.User, o.Pass),
			Host:     net.JoinHostPort(o.Host, o.Port),
			Path:     "/" + o.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}
}
