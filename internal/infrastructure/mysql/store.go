// Package mysql provides the durable implementations of the catalog and
// order repositories on top of database/sql.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/avril-io/storefront-api/internal/domain/catalog"
	"github.com/avril-io/storefront-api/internal/domain/order"
)

// duplicate primary key
const mysqlErrDuplicateEntry = 1062

// querier is satisfied by both *sql.DB and *sql.Tx so the repositories can
// run standalone or inside the fulfillment transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Store struct {
	db *sql.DB
}

func Open(cfg Config) (*Store, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			name     VARCHAR(191)   NOT NULL,
			price    DECIMAL(12, 2) NOT NULL,
			quantity INT            NOT NULL,
			PRIMARY KEY (name)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id               BIGINT       NOT NULL AUTO_INCREMENT,
			customer_name    VARCHAR(191) NOT NULL,
			customer_address VARCHAR(191) NOT NULL,
			completed        TINYINT(1)   NOT NULL DEFAULT 0,
			created_at       TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at       TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id)
		)`,
		`CREATE TABLE IF NOT EXISTS products_orders (
			order_id     BIGINT       NOT NULL,
			product_name VARCHAR(191) NOT NULL,
			quantity     INT          NOT NULL,
			PRIMARY KEY (order_id, product_name)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql: migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) Products() catalog.Repository {
	return &ProductRepository{q: s.db}
}

func (s *Store) Orders() order.Repository {
	return &OrderRepository{q: s.db}
}

// Run wraps fn in a serializable transaction. The repositories handed to fn
// lock the rows they read (SELECT ... FOR UPDATE), so concurrent fulfillments
// of overlapping product sets serialize instead of over-allocating stock.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, products catalog.Repository, orders order.Repository) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("mysql: begin: %w", err)
	}

	products := &ProductRepository{q: tx, forUpdate: true}
	orders := &OrderRepository{q: tx, forUpdate: true}

	if err := fn(ctx, products, orders); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mysql: commit: %w", err)
	}
	return nil
}

func isDuplicateEntry(err error) bool {
	var merr *mysql.MySQLError
	return errors.As(err, &merr) && merr.Number == mysqlErrDuplicateEntry
}
