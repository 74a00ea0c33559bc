// Package wrds is a convenience client for the WRDS PostgreSQL data
// warehouse: connection handling, library/table/column introspection, and
// plain SQL execution with column-oriented results.
//
// Every operation takes a Target, which is either an open *Conn (the
// caller owns it and closes it) or Settings (the operation opens a
// connection, runs, and closes it again on every exit path).
package wrds

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx stdlib driver
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// SetLogger replaces the package logger. Connection and statement events
// are logged at debug level.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// Target abstracts over "an open connection or the settings to open one".
// Implemented by *Conn and Settings only.
type Target interface {
	withConn(ctx context.Context, fn func(*Conn) error) error
}

// Conn is an open session against the warehouse.
type Conn struct {
	db *sql.DB
}

// The two Target variants.
var (
	_ Target = (*Conn)(nil)
	_ Target = Settings{}
)

// Connect opens a session for the given settings. Authentication and
// network failures surface as *ConnectError wrapping the driver error.
func Connect(ctx context.Context, s Settings) (*Conn, error) {
	s = s.withDefaults()

	sqldb, err := sql.Open("pgx", s.DSN())
	if err != nil {
		return nil, &ConnectError{Host: s.Host, Err: err}
	}

	// One logical operation per connection; pooling is out of scope.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(30 * time.Minute)

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, &ConnectError{Host: s.Host, Err: err}
	}

	log.WithFields(logrus.Fields{
		"host":   s.Host,
		"port":   s.Port,
		"dbname": s.DBName,
		"user":   s.Username,
	}).Debug("wrds: connected")

	return &Conn{db: sqldb}, nil
}

// NewConn wraps an already-open database handle. The caller keeps
// ownership: closing it is the caller's job, and no operation given this
// Conn will close it.
func NewConn(db *sql.DB) *Conn {
	return &Conn{db: db}
}

func (c *Conn) Close() error {
	if c.db == nil {
		return nil
	}
	log.Debug("wrds: connection closed")
	return c.db.Close()
}

// withConn on an open connection is a pass-through; the connection stays
// open for the caller.
func (c *Conn) withConn(_ context.Context, fn func(*Conn) error) error {
	return fn(c)
}

// withConn on Settings scopes a fresh connection to the operation. The
// deferred close runs on every exit path; an operation error is returned
// unchanged in preference to any close error.
func (s Settings) withConn(ctx context.Context, fn func(*Conn) error) (err error) {
	conn, err := Connect(ctx, s)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(conn)
}

// query runs one statement and collects the full result. Server
// rejections surface as *QueryError.
func (c *Conn) query(ctx context.Context, q string, args ...any) (*QueryResult, error) {
	start := time.Now()

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &QueryError{Query: q, Err: err}
	}
	defer rows.Close()

	res, err := collectResult(rows)
	if err != nil {
		return nil, &QueryError{Query: q, Err: err}
	}

	log.WithFields(logrus.Fields{
		"rows":    res.NumRows(),
		"elapsed": time.Since(start).Truncate(time.Millisecond),
	}).Debugf("wrds: %s", q)

	return res, nil
}
