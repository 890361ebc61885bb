package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gear6io/tableserve/pkg/errors"
	"github.com/gear6io/tableserve/server/config"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// Cell is one column value of one row. A NULL column maps to an invalid cell.
type Cell struct {
	Value string
	Valid bool
}

// RowSet is the ordered result of one execution of the fixed query. It is
// rebuilt on every request and never cached.
type RowSet struct {
	Columns []string
	Rows    [][]Cell
}

// Store owns the connection pool to the backing database and exposes the one
// read path the service has.
type Store struct {
	db      *sql.DB
	query   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewStore wraps an existing database handle. The fixed query is derived from
// the table name once, here, and never varies per request.
func NewStore(db *sql.DB, table string, timeout time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		db:      db,
		query:   fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(table)),
		timeout: timeout,
		logger:  logger.With().Str("component", "database").Logger(),
	}
}

// Open connects to the database described by cfg and verifies the connection
// with a bounded ping so an unreachable database fails fast instead of
// hanging.
func Open(cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name,
		cfg.Database.User, cfg.Database.Password, cfg.Database.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.New(ErrOpenFailed, "failed to open database handle", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := NewStore(db, cfg.Database.Table, time.Duration(cfg.Database.QueryTimeout), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store.logger.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Str("table", cfg.Database.Table).
		Msg("Connected to database")

	return store, nil
}

// FetchRows executes the fixed query and scans the full result into a RowSet,
// preserving query-result order. The rows handle is released on every exit
// path.
func (s *Store) FetchRows(ctx context.Context) (*RowSet, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, errors.New(ErrQueryFailed, "query execution failed", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.New(ErrQueryFailed, "failed to read result columns", err)
	}

	result := &RowSet{Columns: columns}
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		scanArgs := make([]interface{}, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, errors.New(ErrScanFailed, "failed to scan result row", err)
		}

		row := make([]Cell, len(columns))
		for i, v := range values {
			row[i] = Cell{Value: v.String, Valid: v.Valid}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(ErrQueryFailed, "result iteration failed", err)
	}

	s.logger.Debug().Int("rows", len(result.Rows)).Int("columns", len(columns)).Msg("Fetched row set")
	return result, nil
}

// Ping verifies the database is reachable and accepting connections.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.New(ErrUnreachable, "database unreachable", err)
	}
	return nil
}

// Query returns the fixed query text, for status reporting.
func (s *Store) Query() string {
	return s.query
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
