package storage

import (
	"context"
	"fmt"

	"wealthtracker/internal/core"
)

func (r *SQLiteRepository) CreateAccountType(ctx context.Context, at core.AccountType) (core.AccountType, error) {
	if err := at.Validate(); err != nil {
		return core.AccountType{}, err
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO account_types (type) VALUES (?)", at.Type)
	if err != nil {
		return core.AccountType{}, fmt.Errorf("insert account type: %w", err)
	}
	at.ID, err = res.LastInsertId()
	if err != nil {
		return core.AccountType{}, fmt.Errorf("account type id: %w", err)
	}
	return at, nil
}

func (r *SQLiteRepository) GetAccountType(ctx context.Context, id int64) (core.AccountType, error) {
	var at core.AccountType
	err := r.db.QueryRowContext(ctx, "SELECT id, type FROM account_types WHERE id = ?", id).Scan(&at.ID, &at.Type)
	if err != nil {
		return core.AccountType{}, notFoundAs(err, "account type", id)
	}
	return at, nil
}

func (r *SQLiteRepository) ListAccountTypes(ctx context.Context) ([]core.AccountType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, type FROM account_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list account types: %w", err)
	}
	defer rows.Close()

	var out []core.AccountType
	for rows.Next() {
		var at core.AccountType
		if err := rows.Scan(&at.ID, &at.Type); err != nil {
			return nil, fmt.Errorf("scan account type: %w", err)
		}
		out = append(out, at)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateAccountType(ctx context.Context, id int64, patch core.AccountTypePatch) (core.AccountType, error) {
	at, err := r.GetAccountType(ctx, id)
	if err != nil {
		return core.AccountType{}, err
	}
	patch.Apply(&at)
	if err := at.Validate(); err != nil {
		return core.AccountType{}, err
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE account_types SET type = ? WHERE id = ?", at.Type, id); err != nil {
		return core.AccountType{}, fmt.Errorf("update account type %d: %w", id, err)
	}
	return at, nil
}

func (r *SQLiteRepository) DeleteAccountType(ctx context.Context, id int64) error {
	if err := r.rejectIfReferenced(ctx, "accounts", "account_type_id", id, "account type is referenced by an account"); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM account_types WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete account type %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account type %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("account type %d: %w", id, core.ErrNotFound)
	}
	return nil
}
