package storage

import (
	"context"
	"fmt"

	"wealthtracker/internal/core"
)

func (r *SQLiteRepository) CreateCurrency(ctx context.Context, c core.Currency) (core.Currency, error) {
	if err := c.Validate(); err != nil {
		return core.Currency{}, err
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO currencies (name) VALUES (?)", c.Name)
	if err != nil {
		return core.Currency{}, fmt.Errorf("insert currency: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Currency{}, fmt.Errorf("currency id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetCurrency(ctx context.Context, id int64) (core.Currency, error) {
	var c core.Currency
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM currencies WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if err != nil {
		return core.Currency{}, notFoundAs(err, "currency", id)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCurrencies(ctx context.Context) ([]core.Currency, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM currencies ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var out []core.Currency
	for rows.Next() {
		var c core.Currency
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateCurrency(ctx context.Context, id int64, patch core.CurrencyPatch) (core.Currency, error) {
	c, err := r.GetCurrency(ctx, id)
	if err != nil {
		return core.Currency{}, err
	}
	patch.Apply(&c)
	if err := c.Validate(); err != nil {
		return core.Currency{}, err
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE currencies SET name = ? WHERE id = ?", c.Name, id); err != nil {
		return core.Currency{}, fmt.Errorf("update currency %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteCurrency(ctx context.Context, id int64) error {
	if err := r.rejectIfReferenced(ctx, "accounts", "currency_id", id, "currency is referenced by an account"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM currencies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete currency %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete currency %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("currency %d: %w", id, core.ErrNotFound)
	}
	return nil
}
