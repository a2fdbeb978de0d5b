package storage

import (
	"context"
	"fmt"

	"wealthtracker/internal/core"
)

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := r.requireRef(ctx, "sub_categories", "subcategory_id", b.SubCategoryID); err != nil {
		return core.Budget{}, err
	}
	taken, err := r.budgetExists(ctx, b.SubCategoryID, b.Year, b.Month, 0)
	if err != nil {
		return core.Budget{}, err
	}
	if taken {
		return core.Budget{}, core.Validation("month", "budget already exists for this subcategory and month")
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO budgets (year, month, budgeted_amount, sub_category_id) VALUES (?, ?, ?, ?)",
		b.Year, b.Month, b.Budgeted.String(), b.SubCategoryID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var (
		b   core.Budget
		raw string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, year, month, budgeted_amount, sub_category_id FROM budgets WHERE id = ?", id).
		Scan(&b.ID, &b.Year, &b.Month, &raw, &b.SubCategoryID)
	if err != nil {
		return core.Budget{}, notFoundAs(err, "budget", id)
	}
	b.Budgeted, err = scanAmount(raw, "budget", b.ID)
	if err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, year, month, budgeted_amount, sub_category_id FROM budgets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b   core.Budget
			raw string
		)
		if err := rows.Scan(&b.ID, &b.Year, &b.Month, &raw, &b.SubCategoryID); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Budgeted, err = scanAmount(raw, "budget", b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, id int64, patch core.BudgetPatch) (core.Budget, error) {
	b, err := r.GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, err
	}
	patch.Apply(&b)
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := r.requireRef(ctx, "sub_categories", "subcategory_id", b.SubCategoryID); err != nil {
		return core.Budget{}, err
	}
	taken, err := r.budgetExists(ctx, b.SubCategoryID, b.Year, b.Month, id)
	if err != nil {
		return core.Budget{}, err
	}
	if taken {
		return core.Budget{}, core.Validation("month", "budget already exists for this subcategory and month")
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE budgets SET year = ?, month = ?, budgeted_amount = ?, sub_category_id = ? WHERE id = ?",
		b.Year, b.Month, b.Budgeted.String(), b.SubCategoryID, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget %d: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("budget %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) budgetExists(ctx context.Context, subCategoryID int64, year, month int, excludeID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM budgets WHERE sub_category_id = ? AND year = ? AND month = ? AND id != ?",
		subCategoryID, year, month, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check budget uniqueness: %w", err)
	}
	return n > 0, nil
}
