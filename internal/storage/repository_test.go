package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("close repository: %v", err)
		}
	})
	return repo
}

func TestMigrationsTolerateReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	first.Close()

	// Reopening the same database must tolerate already-applied migrations.
	second, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen repository: %v", err)
	}
	second.Close()
}

type refs struct {
	account  int64
	category int64
	sub      int64
}

func seedRefs(t *testing.T, repo *SQLiteRepository) refs {
	t.Helper()
	ctx := context.Background()

	cur, err := repo.CreateCurrency(ctx, core.Currency{Name: "EUR"})
	if err != nil {
		t.Fatalf("create currency: %v", err)
	}
	at, err := repo.CreateAccountType(ctx, core.AccountType{Type: "checking"})
	if err != nil {
		t.Fatalf("create account type: %v", err)
	}
	acc, err := repo.CreateAccount(ctx, core.Account{Name: "Main", CurrencyID: cur.ID, AccountTypeID: at.ID})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	cat, err := repo.CreateCategory(ctx, core.Category{Name: "Groceries", Kind: core.Expense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	sub, err := repo.CreateSubCategory(ctx, core.SubCategory{Name: "Supermarket", CategoryID: cat.ID, ExpenseClass: core.Need})
	if err != nil {
		t.Fatalf("create subcategory: %v", err)
	}
	return refs{account: acc.ID, category: cat.ID, sub: sub.ID}
}

func TestTransactionAmountRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	r := seedRefs(t, repo)
	ctx := context.Background()

	amount := decimal.RequireFromString("42.50")
	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Amount:          amount,
		Description:     "weekly shop",
		TransactionDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CategoryID:      r.category,
		SubCategoryID:   r.sub,
		AccountID:       r.account,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if got.Amount.String() != "42.50" {
		t.Errorf("amount = %s, want the exact string 42.50 back", got.Amount.String())
	}
}

func TestCreateTransactionUnknownAccountIsValidationError(t *testing.T) {
	repo := newTestRepo(t)
	r := seedRefs(t, repo)

	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Amount:          decimal.NewFromInt(10),
		Description:     "x",
		TransactionDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CategoryID:      r.category,
		SubCategoryID:   r.sub,
		AccountID:       999,
	})
	if !core.IsValidation(err) {
		t.Errorf("err = %v, want a ValidationError", err)
	}
}

func TestCorruptStoredAmountIsIntegrityError(t *testing.T) {
	repo := newTestRepo(t)
	r := seedRefs(t, repo)
	ctx := context.Background()

	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO transactions (amount, description, transaction_date, is_planned, category_id, sub_category_id, account_id, created_at, updated_at)
		 VALUES ('not-a-number', 'corrupt', ?, 0, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), r.category, r.sub, r.account, time.Now().UTC(), time.Now().UTC())
	if err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}
	id, _ := res.LastInsertId()

	_, err = repo.GetTransaction(ctx, id)
	var ie *core.DataIntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want a DataIntegrityError", err)
	}
}

func TestDeleteMissingRowIsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.DeleteCurrency(context.Background(), 42); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBudgetUniquenessEnforced(t *testing.T) {
	repo := newTestRepo(t)
	r := seedRefs(t, repo)
	ctx := context.Background()

	b := core.Budget{Year: 2024, Month: 3, Budgeted: decimal.NewFromInt(250), SubCategoryID: r.sub}
	if _, err := repo.CreateBudget(ctx, b); err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if _, err := repo.CreateBudget(ctx, b); !core.IsValidation(err) {
		t.Errorf("duplicate budget err = %v, want a ValidationError", err)
	}
}
