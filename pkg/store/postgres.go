package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborline/productcache/pkg/config"
	"github.com/harborline/productcache/pkg/errors"
	"github.com/harborline/productcache/pkg/product"
)

// pgPool is the subset of pgxpool.Pool the store uses.
// Narrowing the surface allows a pgxmock pool in tests.
type pgPool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore is a PostgreSQL-backed record store. It expects a table:
//
//	CREATE TABLE products (
//	    id    BIGINT PRIMARY KEY,
//	    name  TEXT NOT NULL,
//	    price DOUBLE PRECISION NOT NULL
//	)
type PostgresStore struct {
	pool         pgPool
	queryTimeout time.Duration
}

// NewPostgres creates a PostgreSQL store from the provided configuration.
// Unlike the cache, a failed store connection is fatal: there is no fallback
// below the source of truth.
func NewPostgres(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, errors.NewPermanent("failed to parse store pool config", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.NewTemporary("failed to create store connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewTemporary("failed to ping store", err)
	}

	return &PostgresStore{
		pool:         pool,
		queryTimeout: cfg.QueryTimeout,
	}, nil
}

// buildConnString constructs a PostgreSQL connection string from the config.
func buildConnString(cfg config.StoreConfig) string {
	connStr := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s",
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.User,
		cfg.Password,
	)

	if cfg.SSLMode != "" {
		connStr += fmt.Sprintf(" sslmode=%s", cfg.SSLMode)
	}
	if cfg.ConnectTimeout > 0 {
		connStr += fmt.Sprintf(" connect_timeout=%d", int(cfg.ConnectTimeout.Seconds()))
	}

	return connStr
}

// Get returns the record for id. A missing row yields a NotFoundError; any
// other failure is Temporary and propagates, never masked.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*product.Product, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	var p product.Product
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, price FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFound("product", product.FormatID(id))
		}
		return nil, errors.NewTemporary("store read failed", err)
	}
	return &p, nil
}

// Put replaces the record for p.ID wholesale via upsert.
func (s *PostgresStore) Put(ctx context.Context, p *product.Product) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO products (id, name, price) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price`,
		p.ID, p.Name, p.Price,
	)
	if err != nil {
		return errors.NewTemporary("store write failed", err)
	}
	return nil
}

// Check verifies store connectivity for readiness probes.
func (s *PostgresStore) Check(ctx context.Context) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	if err := s.pool.Ping(ctx); err != nil {
		return errors.NewTemporary("store health check failed", err)
	}
	return nil
}

// Close closes all connections in the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
