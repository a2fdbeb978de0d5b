package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/core"
)

// scanAmount parses a stored decimal string. Stored amounts are magnitudes,
// so a negative or unparseable value is a corrupt row, reported as a
// DataIntegrityError instead of being skipped.
func scanAmount(raw string, entity string, id int64) (decimal.Decimal, error) {
	d, err := core.ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, &core.DataIntegrityError{
			Entity: entity,
			ID:     id,
			Reason: fmt.Sprintf("malformed amount %q", raw),
		}
	}
	return d, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := r.checkTransactionRefs(ctx, t.AccountID, t.CategoryID, t.SubCategoryID); err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (amount, description, transaction_date, is_planned, category_id, sub_category_id, account_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Amount.String(), t.Description, t.TransactionDate.UTC(), t.IsPlanned,
		t.CategoryID, t.SubCategoryID, t.AccountID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount, description, transaction_date, is_planned, category_id, sub_category_id, account_id, created_at, updated_at
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, notFoundAs(err, "transaction", id)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, amount, description, transaction_date, is_planned, category_id, sub_category_id, account_id, created_at, updated_at
		 FROM transactions`
	var (
		conds []string
		args  []any
	)
	if filter.Start != nil {
		conds = append(conds, "transaction_date >= ?")
		args = append(args, filter.Start.UTC())
	}
	if filter.End != nil {
		conds = append(conds, "transaction_date <= ?")
		args = append(args, filter.End.UTC())
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	t, err := r.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	patch.Apply(&t)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := r.checkTransactionRefs(ctx, t.AccountID, t.CategoryID, t.SubCategoryID); err != nil {
		return core.Transaction{}, err
	}

	t.UpdatedAt = time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, description = ?, transaction_date = ?, is_planned = ?, category_id = ?, sub_category_id = ?, account_id = ?, updated_at = ?
		 WHERE id = ?`,
		t.Amount.String(), t.Description, t.TransactionDate.UTC(), t.IsPlanned,
		t.CategoryID, t.SubCategoryID, t.AccountID, t.UpdatedAt, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t   core.Transaction
		raw string
	)
	err := row.Scan(&t.ID, &raw, &t.Description, &t.TransactionDate, &t.IsPlanned,
		&t.CategoryID, &t.SubCategoryID, &t.AccountID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Amount, err = scanAmount(raw, "transaction", t.ID)
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
