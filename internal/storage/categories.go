package storage

import (
	"context"
	"fmt"

	"wealthtracker/internal/core"
)

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name, kind) VALUES (?, ?)", c.Name, string(c.Kind))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name, kind FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Kind)
	if err != nil {
		return core.Category{}, notFoundAs(err, "category", id)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, kind FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id int64, patch core.CategoryPatch) (core.Category, error) {
	c, err := r.GetCategory(ctx, id)
	if err != nil {
		return core.Category{}, err
	}
	patch.Apply(&c)
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE categories SET name = ?, kind = ? WHERE id = ?", c.Name, string(c.Kind), id); err != nil {
		return core.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	if err := r.rejectIfReferenced(ctx, "sub_categories", "category_id", id, "category has subcategories"); err != nil {
		return err
	}
	if err := r.rejectIfReferenced(ctx, "transactions", "category_id", id, "category has transactions"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}
