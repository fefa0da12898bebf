package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB is the campusevents Postgres pool, opened through pgx's database/sql
// driver so the event, user and attendance repositories share one pool.
type DB struct {
	Client *sql.DB
}

// NewDB opens the database and caps the pool at maxConns (DB_MAX_CONNS).
func NewDB(connString string, maxConns int) (*DB, error) {
	if maxConns <= 0 {
		maxConns = 10
	}
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	idle := maxConns / 2
	if idle < 1 {
		idle = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(idle)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
