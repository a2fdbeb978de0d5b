package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wealthtracker/internal/core"
)

func (r *SQLiteRepository) CreatePlannedTransaction(ctx context.Context, pt core.PlannedTransaction) (core.PlannedTransaction, error) {
	if err := pt.Validate(); err != nil {
		return core.PlannedTransaction{}, err
	}
	if err := r.checkTransactionRefs(ctx, pt.AccountID, pt.CategoryID, pt.SubCategoryID); err != nil {
		return core.PlannedTransaction{}, err
	}

	now := time.Now().UTC()
	pt.CreatedAt = now
	pt.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO planned_transactions (amount, description, transaction_date, recurrence, category_id, sub_category_id, account_id, last_materialized_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pt.Amount.String(), pt.Description, pt.TransactionDate.UTC(), string(pt.Recurrence),
		pt.CategoryID, pt.SubCategoryID, pt.AccountID, nullTime(pt.LastMaterializedAt), pt.CreatedAt, pt.UpdatedAt)
	if err != nil {
		return core.PlannedTransaction{}, fmt.Errorf("insert planned transaction: %w", err)
	}
	pt.ID, err = res.LastInsertId()
	if err != nil {
		return core.PlannedTransaction{}, fmt.Errorf("planned transaction id: %w", err)
	}
	return pt, nil
}

func (r *SQLiteRepository) GetPlannedTransaction(ctx context.Context, id int64) (core.PlannedTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount, description, transaction_date, recurrence, category_id, sub_category_id, account_id, last_materialized_at, created_at, updated_at
		 FROM planned_transactions WHERE id = ?`, id)
	pt, err := scanPlanned(row)
	if err != nil {
		return core.PlannedTransaction{}, notFoundAs(err, "planned transaction", id)
	}
	return pt, nil
}

func (r *SQLiteRepository) ListPlannedTransactions(ctx context.Context, filter core.TransactionFilter) ([]core.PlannedTransaction, error) {
	query := `SELECT id, amount, description, transaction_date, recurrence, category_id, sub_category_id, account_id, last_materialized_at, created_at, updated_at
		 FROM planned_transactions`
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
		return nil, fmt.Errorf("list planned transactions: %w", err)
	}
	defer rows.Close()

	var out []core.PlannedTransaction
	for rows.Next() {
		pt, err := scanPlanned(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdatePlannedTransaction(ctx context.Context, id int64, patch core.PlannedTransactionPatch) (core.PlannedTransaction, error) {
	pt, err := r.GetPlannedTransaction(ctx, id)
	if err != nil {
		return core.PlannedTransaction{}, err
	}
	patch.Apply(&pt)
	if err := pt.Validate(); err != nil {
		return core.PlannedTransaction{}, err
	}
	if err := r.checkTransactionRefs(ctx, pt.AccountID, pt.CategoryID, pt.SubCategoryID); err != nil {
		return core.PlannedTransaction{}, err
	}

	pt.UpdatedAt = time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`UPDATE planned_transactions SET amount = ?, description = ?, transaction_date = ?, recurrence = ?, category_id = ?, sub_category_id = ?, account_id = ?, updated_at = ?
		 WHERE id = ?`,
		pt.Amount.String(), pt.Description, pt.TransactionDate.UTC(), string(pt.Recurrence),
		pt.CategoryID, pt.SubCategoryID, pt.AccountID, pt.UpdatedAt, id)
	if err != nil {
		return core.PlannedTransaction{}, fmt.Errorf("update planned transaction %d: %w", id, err)
	}
	return pt, nil
}

func (r *SQLiteRepository) DeletePlannedTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM planned_transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete planned transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete planned transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("planned transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) MarkPlannedMaterialized(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE planned_transactions SET last_materialized_at = ?, updated_at = ? WHERE id = ?",
		at.UTC(), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark planned transaction %d materialized: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark planned transaction %d materialized: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("planned transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func scanPlanned(row rowScanner) (core.PlannedTransaction, error) {
	var (
		pt   core.PlannedTransaction
		raw  string
		last sql.NullTime
	)
	err := row.Scan(&pt.ID, &raw, &pt.Description, &pt.TransactionDate, &pt.Recurrence,
		&pt.CategoryID, &pt.SubCategoryID, &pt.AccountID, &last, &pt.CreatedAt, &pt.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.PlannedTransaction{}, err
		}
		return core.PlannedTransaction{}, fmt.Errorf("scan planned transaction: %w", err)
	}
	if last.Valid {
		pt.LastMaterializedAt = last.Time
	}
	pt.Amount, err = scanAmount(raw, "planned transaction", pt.ID)
	if err != nil {
		return core.PlannedTransaction{}, err
	}
	return pt, nil
}
