package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/core"
)

func seed(t *testing.T, s *Store) (core.Account, core.Category, core.SubCategory) {
	t.Helper()
	ctx := context.Background()
	cur, err := s.CreateCurrency(ctx, core.Currency{Name: "EUR"})
	if err != nil {
		t.Fatalf("seed currency: %v", err)
	}
	at, err := s.CreateAccountType(ctx, core.AccountType{Type: "checking"})
	if err != nil {
		t.Fatalf("seed account type: %v", err)
	}
	acc, err := s.CreateAccount(ctx, core.Account{Name: "Main", CurrencyID: cur.ID, AccountTypeID: at.ID})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	cat, err := s.CreateCategory(ctx, core.Category{Name: "Living", Kind: core.Expense})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	sub, err := s.CreateSubCategory(ctx, core.SubCategory{Name: "Groceries", CategoryID: cat.ID})
	if err != nil {
		t.Fatalf("seed subcategory: %v", err)
	}
	return acc, cat, sub
}

func TestCurrencyLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, err := s.CreateCurrency(ctx, core.Currency{Name: "USD"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("expected assigned id")
	}

	name := "GBP"
	c, err = s.UpdateCurrency(ctx, c.ID, core.CurrencyPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Name != "GBP" {
		t.Errorf("name = %q, want GBP", c.Name)
	}

	if err := s.DeleteCurrency(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetCurrency(ctx, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get after delete: %v, want ErrNotFound", err)
	}
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.GetTransaction(ctx, 99); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := s.DeleteBudget(ctx, 99); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCreateAccountRejectsUnknownCurrency(t *testing.T) {
	s := New()
	ctx := context.Background()
	at, _ := s.CreateAccountType(ctx, core.AccountType{Type: "cash"})
	_, err := s.CreateAccount(ctx, core.Account{Name: "x", CurrencyID: 77, AccountTypeID: at.ID})
	if !core.IsValidation(err) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestDeleteReferencedCurrencyRejected(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, _, _ := seed(t, s)
	if err := s.DeleteCurrency(ctx, acc.CurrencyID); !core.IsValidation(err) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestTransactionSubcategoryMustMatchCategory(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, _, sub := seed(t, s)
	other, _ := s.CreateCategory(ctx, core.Category{Name: "Salary", Kind: core.Income})

	_, err := s.CreateTransaction(ctx, core.Transaction{
		Amount:          decimal.NewFromInt(10),
		TransactionDate: time.Now(),
		CategoryID:      other.ID,
		SubCategoryID:   sub.ID,
		AccountID:       acc.ID,
	})
	if !core.IsValidation(err) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestTransactionPatchUpdatesOnlyGivenFields(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, cat, sub := seed(t, s)

	txn, err := s.CreateTransaction(ctx, core.Transaction{
		Amount:          decimal.NewFromInt(10),
		Description:     "bread",
		TransactionDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		CategoryID:      cat.ID,
		SubCategoryID:   sub.ID,
		AccountID:       acc.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amt := decimal.NewFromFloat(12.5)
	got, err := s.UpdateTransaction(ctx, txn.ID, core.TransactionPatch{Amount: &amt})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.Amount.Equal(amt) {
		t.Errorf("amount = %s, want 12.5", got.Amount)
	}
	if got.Description != "bread" {
		t.Errorf("description changed to %q", got.Description)
	}
	if !got.UpdatedAt.After(txn.UpdatedAt) && !got.UpdatedAt.Equal(txn.UpdatedAt) {
		t.Errorf("updated_at not refreshed")
	}
}

func TestTransactionEmptyPatchChangesNothing(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, cat, sub := seed(t, s)

	txn, err := s.CreateTransaction(ctx, core.Transaction{
		Amount:          decimal.RequireFromString("42.50"),
		Description:     "bread",
		TransactionDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		CategoryID:      cat.ID,
		SubCategoryID:   sub.ID,
		AccountID:       acc.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	got, err := s.UpdateTransaction(ctx, txn.ID, core.TransactionPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}

	if !got.Amount.Equal(txn.Amount) {
		t.Errorf("amount = %s, want %s", got.Amount, txn.Amount)
	}
	if got.Description != txn.Description {
		t.Errorf("description = %q, want %q", got.Description, txn.Description)
	}
	if !got.TransactionDate.Equal(txn.TransactionDate) {
		t.Errorf("date = %v, want %v", got.TransactionDate, txn.TransactionDate)
	}
	if got.CategoryID != txn.CategoryID || got.SubCategoryID != txn.SubCategoryID || got.AccountID != txn.AccountID {
		t.Errorf("references changed: %+v", got)
	}
	if !got.CreatedAt.Equal(txn.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, txn.CreatedAt)
	}
	if !got.UpdatedAt.After(txn.UpdatedAt) {
		t.Errorf("updated_at = %v, want restamped after %v", got.UpdatedAt, txn.UpdatedAt)
	}
}

func TestDeleteAccountWithTransactionsRejected(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, cat, sub := seed(t, s)
	_, err := s.CreateTransaction(ctx, core.Transaction{
		Amount:          decimal.NewFromInt(1),
		TransactionDate: time.Now(),
		CategoryID:      cat.ID,
		SubCategoryID:   sub.ID,
		AccountID:       acc.ID,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if err := s.DeleteAccount(ctx, acc.ID); !core.IsValidation(err) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestBudgetUniquePerSubcategoryAndMonth(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _, sub := seed(t, s)

	b := core.Budget{Year: 2025, Month: 3, Budgeted: decimal.NewFromInt(300), SubCategoryID: sub.ID}
	if _, err := s.CreateBudget(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateBudget(ctx, b); !core.IsValidation(err) {
		t.Fatalf("duplicate create: got %v, want ValidationError", err)
	}

	// A different month is fine.
	b.Month = 4
	if _, err := s.CreateBudget(ctx, b); err != nil {
		t.Fatalf("create for next month: %v", err)
	}
}

func TestMarkPlannedMaterialized(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, cat, sub := seed(t, s)

	pt, err := s.CreatePlannedTransaction(ctx, core.PlannedTransaction{
		Amount:          decimal.NewFromInt(50),
		TransactionDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Recurrence:      core.Monthly,
		CategoryID:      cat.ID,
		SubCategoryID:   sub.ID,
		AccountID:       acc.ID,
	})
	if err != nil {
		t.Fatalf("create planned: %v", err)
	}

	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := s.MarkPlannedMaterialized(ctx, pt.ID, at); err != nil {
		t.Fatalf("mark materialized: %v", err)
	}
	got, err := s.GetPlannedTransaction(ctx, pt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.LastMaterializedAt.Equal(at) {
		t.Errorf("last_materialized_at = %v, want %v", got.LastMaterializedAt, at)
	}
}
