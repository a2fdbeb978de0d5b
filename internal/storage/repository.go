// Package storage implements the SQLite backend. Schema changes go through
// embedded migrations, amounts are persisted as decimal strings so no
// precision is lost on the round trip.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wealthtracker/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", core.ErrStoreUnavailable)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", core.ErrStoreUnavailable)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// notFoundAs converts sql.ErrNoRows into the domain not-found sentinel and
// leaves other errors untouched.
func notFoundAs(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, core.ErrNotFound)
	}
	return err
}

// rowExists reports whether a row with the id exists in the table. The table
// name always comes from a call-site constant, never from user input.
func (r *SQLiteRepository) rowExists(ctx context.Context, table string, id int64) (bool, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE id = ?", table)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check %s %d: %w", table, id, err)
	}
	return n > 0, nil
}

// requireRef returns a ValidationError when the referenced row is missing.
func (r *SQLiteRepository) requireRef(ctx context.Context, table, field string, id int64) error {
	ok, err := r.rowExists(ctx, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return core.Validation(field, fmt.Sprintf("%s %d does not exist", field, id))
	}
	return nil
}

// rejectIfReferenced returns a ValidationError when any row in table still
// points at the id through column.
func (r *SQLiteRepository) rejectIfReferenced(ctx context.Context, table, column string, id int64, reason string) error {
	var n int
	query := fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE %s = ?", table, column)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return fmt.Errorf("check references in %s: %w", table, err)
	}
	if n > 0 {
		return core.Validation("id", reason)
	}
	return nil
}

// checkTransactionRefs validates the foreign keys shared by realized and
// planned transactions, including the category/subcategory consistency rule.
func (r *SQLiteRepository) checkTransactionRefs(ctx context.Context, accountID, categoryID, subCategoryID int64) error {
	if err := r.requireRef(ctx, "accounts", "account_id", accountID); err != nil {
		return err
	}
	if err := r.requireRef(ctx, "categories", "category_id", categoryID); err != nil {
		return err
	}
	var parent int64
	err := r.db.QueryRowContext(ctx, "SELECT category_id FROM sub_categories WHERE id = ?", subCategoryID).Scan(&parent)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Validation("subcategory_id", fmt.Sprintf("subcategory_id %d does not exist", subCategoryID))
	}
	if err != nil {
		return fmt.Errorf("check subcategory %d: %w", subCategoryID, err)
	}
	if parent != categoryID {
		return core.Validation("subcategory_id", "subcategory does not belong to category")
	}
	return nil
}
