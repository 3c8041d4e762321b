package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the catalog_names table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS catalog_names (
    category  TEXT NOT NULL,
    position  INT  NOT NULL,
    name      TEXT NOT NULL,
    PRIMARY KEY (category, position)
);
CREATE INDEX IF NOT EXISTS idx_catalog_names_category ON catalog_names(category);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by PostgreSQL. It lets several replicas
// share one startup-loaded catalog snapshot instead of each hitting the
// remote listing endpoints.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a [PostgresStore] over the given connection or
// pool. Call [PostgresStore.Migrate] before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("catalog: migrate: %w", err)
	}
	return nil
}

// Put implements [Store.Put]. The category's rows are replaced wholesale;
// position preserves insertion order.
func (s *PostgresStore) Put(ctx context.Context, category Category, names []string) error {
	if !category.IsValid() {
		return ErrUnknownCategory
	}

	if _, err := s.db.Exec(ctx,
		`DELETE FROM catalog_names WHERE category = $1`, string(category)); err != nil {
		return fmt.Errorf("catalog: clear %s: %w", category, err)
	}
	for i, name := range names {
		if _, err := s.db.Exec(ctx,
			`INSERT INTO catalog_names (category, position, name) VALUES ($1, $2, $3)`,
			string(category), i, name); err != nil {
			return fmt.Errorf("catalog: insert %s[%d]: %w", category, i, err)
		}
	}
	return nil
}

// Names implements [Store.Names].
func (s *PostgresStore) Names(ctx context.Context, category Category) ([]string, error) {
	if !category.IsValid() {
		return nil, ErrUnknownCategory
	}

	rows, err := s.db.Query(ctx,
		`SELECT name FROM catalog_names WHERE category = $1 ORDER BY position`,
		string(category))
	if err != nil {
		return nil, fmt.Errorf("catalog: query %s: %w", category, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("catalog: scan %s: %w", category, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate %s: %w", category, err)
	}
	return names, nil
}

// Loaded implements [Store.Loaded].
func (s *PostgresStore) Loaded(ctx context.Context) (bool, error) {
	var distinct int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT category) FROM catalog_names`).Scan(&distinct)
	if err != nil {
		return false, fmt.Errorf("catalog: count categories: %w", err)
	}
	return distinct >= len(AllCategories()), nil
}
