package storage

import (
	"context"
	"fmt"

	"wealthtracker/internal/core"
)

func (r *SQLiteRepository) CreateSubCategory(ctx context.Context, sc core.SubCategory) (core.SubCategory, error) {
	if err := sc.Validate(); err != nil {
		return core.SubCategory{}, err
	}
	if err := r.requireRef(ctx, "categories", "category_id", sc.CategoryID); err != nil {
		return core.SubCategory{}, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sub_categories (name, category_id, expense_class) VALUES (?, ?, ?)",
		sc.Name, sc.CategoryID, string(sc.ExpenseClass))
	if err != nil {
		return core.SubCategory{}, fmt.Errorf("insert subcategory: %w", err)
	}
	sc.ID, err = res.LastInsertId()
	if err != nil {
		return core.SubCategory{}, fmt.Errorf("subcategory id: %w", err)
	}
	return sc, nil
}

func (r *SQLiteRepository) GetSubCategory(ctx context.Context, id int64) (core.SubCategory, error) {
	var sc core.SubCategory
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, category_id, expense_class FROM sub_categories WHERE id = ?", id).
		Scan(&sc.ID, &sc.Name, &sc.CategoryID, &sc.ExpenseClass)
	if err != nil {
		return core.SubCategory{}, notFoundAs(err, "subcategory", id)
	}
	return sc, nil
}

func (r *SQLiteRepository) ListSubCategories(ctx context.Context) ([]core.SubCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, category_id, expense_class FROM sub_categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var out []core.SubCategory
	for rows.Next() {
		var sc core.SubCategory
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.CategoryID, &sc.ExpenseClass); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateSubCategory(ctx context.Context, id int64, patch core.SubCategoryPatch) (core.SubCategory, error) {
	sc, err := r.GetSubCategory(ctx, id)
	if err != nil {
		return core.SubCategory{}, err
	}
	patch.Apply(&sc)
	if err := sc.Validate(); err != nil {
		return core.SubCategory{}, err
	}
	if err := r.requireRef(ctx, "categories", "category_id", sc.CategoryID); err != nil {
		return core.SubCategory{}, err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE sub_categories SET name = ?, category_id = ?, expense_class = ? WHERE id = ?",
		sc.Name, sc.CategoryID, string(sc.ExpenseClass), id)
	if err != nil {
		return core.SubCategory{}, fmt.Errorf("update subcategory %d: %w", id, err)
	}
	return sc, nil
}

func (r *SQLiteRepository) DeleteSubCategory(ctx context.Context, id int64) error {
	if err := r.rejectIfReferenced(ctx, "transactions", "sub_category_id", id, "subcategory has transactions"); err != nil {
		return err
	}
	if err := r.rejectIfReferenced(ctx, "budgets", "sub_category_id", id, "subcategory has budgets"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM sub_categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete subcategory %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subcategory %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("subcategory %d: %w", id, core.ErrNotFound)
	}
	return nil
}
