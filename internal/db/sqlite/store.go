package sqlite

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/dberror"
)

// timeFormat is the storage and wire format for all timestamps. Second
// precision keeps re-serialization byte-stable.
const timeFormat = time.RFC3339

const schema = `
CREATE TABLE IF NOT EXISTS vendors (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	secret TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS builds (
	build_id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	created_at TEXT NOT NULL,
	assets TEXT NOT NULL,
	target_vendors TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS build_events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	build_id TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	target_vendors TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS download_events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	vendor_id TEXT NOT NULL,
	build_id TEXT NOT NULL,
	watermark_id TEXT NOT NULL,
	downloaded_at TEXT NOT NULL,
	expires_at TEXT NOT NULL
);
`

// Config holds the parameters for opening the lab store.
type Config struct {
	// Path is the filesystem path to the database file. The file is
	// created if it does not exist. ":memory:" is supported for tests,
	// with a pool size of 1.
	Path string

	// PoolSize is the number of connections in the pool. Defaults to 4
	// if zero or negative.
	PoolSize int
}

// Store is the embedded SQLite implementation of db.Store. Safe for
// concurrent use; writes are serialized by SQLite, and every append
// commits before the call returns, so a collector pass never observes a
// partially written event.
type Store struct {
	pool *sqlitex.Pool
}

// Open creates the store, applying pragmas and the schema to every
// connection on first use.
func Open(cfg Config) (*Store, apperrors.Error) {
	if cfg.Path == "" {
		return nil, dberror.ErrInvalidInput.New("db path is required")
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}
	if cfg.Path == ":memory:" {
		// each in-memory connection is a separate database
		poolSize = 1
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, dberror.ErrDatabase.MsgErr("unable to open database", err)
	}
	log.Debug().Str("path", cfg.Path).Int("pool_size", poolSize).Msg("opened lab store")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool. Blocks until borrowed connections
// are returned.
func (s *Store) Close() error {
	return s.pool.Close()
}

func prepareConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return err
		}
	}
	return sqlitex.ExecuteScript(conn, schema, nil)
}

func (s *Store) conn(ctx context.Context) (*sqlite.Conn, apperrors.Error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, dberror.ErrDatabase.MsgErr("unable to take connection", err)
	}
	return conn, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}
