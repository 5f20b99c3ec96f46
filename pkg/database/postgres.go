package database

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the connection pool behind a single-writer discipline: every
// mutating operation goes through WithTx, which serializes writers so
// concurrent callers queue instead of racing. Reads hit the pool directly
// and may run concurrently; they only ever observe committed state.
type DB struct {
	Pool *pgxpool.Pool

	writeMu sync.Mutex
}

func New(connString string) (*DB, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}

	// Works behind PgBouncer transaction mode as well
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Database connection established successfully")
	return &DB{Pool: pool}, nil
}

// WithTx runs fn inside a transaction while holding the writer lock. The
// transaction fully commits or fully rolls back; callers never see partial
// state. WithTx does not retry - retry policy belongs to the caller.
func (db *DB) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
}
