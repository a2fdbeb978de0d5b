package storage

import (
	"context"
	"fmt"
	"time"

	"wealthtracker/internal/core"
)

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := r.requireRef(ctx, "currencies", "currency_id", a.CurrencyID); err != nil {
		return core.Account{}, err
	}
	if err := r.requireRef(ctx, "account_types", "account_type_id", a.AccountTypeID); err != nil {
		return core.Account{}, err
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (name, currency_id, account_type_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		a.Name, a.CurrencyID, a.AccountTypeID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("account id: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var a core.Account
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, currency_id, account_type_id, created_at, updated_at FROM accounts WHERE id = ?", id).
		Scan(&a.ID, &a.Name, &a.CurrencyID, &a.AccountTypeID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return core.Account{}, notFoundAs(err, "account", id)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, currency_id, account_type_id, created_at, updated_at FROM accounts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.CurrencyID, &a.AccountTypeID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, id int64, patch core.AccountPatch) (core.Account, error) {
	a, err := r.GetAccount(ctx, id)
	if err != nil {
		return core.Account{}, err
	}
	patch.Apply(&a)
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := r.requireRef(ctx, "currencies", "currency_id", a.CurrencyID); err != nil {
		return core.Account{}, err
	}
	if err := r.requireRef(ctx, "account_types", "account_type_id", a.AccountTypeID); err != nil {
		return core.Account{}, err
	}

	a.UpdatedAt = time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		"UPDATE accounts SET name = ?, currency_id = ?, account_type_id = ?, updated_at = ? WHERE id = ?",
		a.Name, a.CurrencyID, a.AccountTypeID, a.UpdatedAt, id)
	if err != nil {
		return core.Account{}, fmt.Errorf("update account %d: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	if err := r.rejectIfReferenced(ctx, "transactions", "account_id", id, "account has transactions"); err != nil {
		return err
	}
	if err := r.rejectIfReferenced(ctx, "planned_transactions", "account_id", id, "account has planned transactions"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	return nil
}
