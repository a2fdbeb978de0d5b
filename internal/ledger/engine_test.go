package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/core"
	"wealthtracker/internal/ledger"
	"wealthtracker/internal/memory"
)

type fixture struct {
	store   *memory.Store
	engine  *ledger.Engine
	income  core.Category
	expense core.Category
	incSub  core.SubCategory
	expSub  core.SubCategory
	acc1    core.Account
	acc2    core.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	eur, err := store.CreateCurrency(ctx, core.Currency{Name: "EUR"})
	if err != nil {
		t.Fatalf("create currency: %v", err)
	}
	checking, err := store.CreateAccountType(ctx, core.AccountType{Type: "checking"})
	if err != nil {
		t.Fatalf("create account type: %v", err)
	}
	acc1, err := store.CreateAccount(ctx, core.Account{Name: "Main", CurrencyID: eur.ID, AccountTypeID: checking.ID})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	acc2, err := store.CreateAccount(ctx, core.Account{Name: "Savings", CurrencyID: eur.ID, AccountTypeID: checking.ID})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	income, err := store.CreateCategory(ctx, core.Category{Name: "Salary", Kind: core.Income})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	expense, err := store.CreateCategory(ctx, core.Category{Name: "Living", Kind: core.Expense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	incSub, err := store.CreateSubCategory(ctx, core.SubCategory{Name: "Paycheck", CategoryID: income.ID})
	if err != nil {
		t.Fatalf("create subcategory: %v", err)
	}
	expSub, err := store.CreateSubCategory(ctx, core.SubCategory{Name: "Groceries", CategoryID: expense.ID, ExpenseClass: core.Must})
	if err != nil {
		t.Fatalf("create subcategory: %v", err)
	}

	return &fixture{
		store:   store,
		engine:  ledger.NewEngine(store),
		income:  income,
		expense: expense,
		incSub:  incSub,
		expSub:  expSub,
		acc1:    acc1,
		acc2:    acc2,
	}
}

func (f *fixture) addTxn(t *testing.T, amount string, cat core.Category, sub core.SubCategory, acc core.Account, date time.Time) core.Transaction {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("parse amount %q: %v", amount, err)
	}
	txn, err := f.store.CreateTransaction(context.Background(), core.Transaction{
		Amount:          amt,
		Description:     "test",
		TransactionDate: date,
		CategoryID:      cat.ID,
		SubCategoryID:   sub.ID,
		AccountID:       acc.ID,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return txn
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestTotalBalanceSignsByCategoryKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	f.addTxn(t, "200", f.expense, f.expSub, f.acc1, day)

	total, err := f.engine.TotalBalance(ctx, nil)
	if err != nil {
		t.Fatalf("total balance: %v", err)
	}
	if want := mustDecimal(t, "-200"); !total.Equal(want) {
		t.Fatalf("total = %s, want %s", total, want)
	}

	f.addTxn(t, "700", f.income, f.incSub, f.acc1, day)

	total, err = f.engine.TotalBalance(ctx, nil)
	if err != nil {
		t.Fatalf("total balance: %v", err)
	}
	if want := mustDecimal(t, "500"); !total.Equal(want) {
		t.Fatalf("total = %s, want %s", total, want)
	}
}

func TestTotalBalanceExcludesAfterEndDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTxn(t, "100", f.income, f.incSub, f.acc1, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	f.addTxn(t, "999", f.income, f.incSub, f.acc1, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	total, err := f.engine.TotalBalance(ctx, &end)
	if err != nil {
		t.Fatalf("total balance: %v", err)
	}
	if want := mustDecimal(t, "100"); !total.Equal(want) {
		t.Fatalf("total = %s, want %s", total, want)
	}
}

func TestTotalBalancePerAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	f.addTxn(t, "599.45", f.income, f.incSub, f.acc1, day)
	f.addTxn(t, "200", f.expense, f.expSub, f.acc2, day)

	balances, err := f.engine.TotalBalancePerAccount(ctx, nil)
	if err != nil {
		t.Fatalf("per-account balance: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("got %d balances, want 2", len(balances))
	}
	if balances[0].ID != f.acc1.ID || !balances[0].Total.Equal(mustDecimal(t, "599.45")) {
		t.Errorf("account 1: got id=%d total=%s", balances[0].ID, balances[0].Total)
	}
	if balances[1].ID != f.acc2.ID || !balances[1].Total.Equal(mustDecimal(t, "-200")) {
		t.Errorf("account 2: got id=%d total=%s", balances[1].ID, balances[1].Total)
	}
	if balances[0].AccountType != "checking" || balances[0].Currency != "EUR" {
		t.Errorf("account 1 names: type=%q currency=%q", balances[0].AccountType, balances[0].Currency)
	}

	// Partition invariant: per-account balances sum to the grand total.
	total, err := f.engine.TotalBalance(ctx, nil)
	if err != nil {
		t.Fatalf("total balance: %v", err)
	}
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Total)
	}
	if !sum.Equal(total) {
		t.Errorf("per-account sum %s != total %s", sum, total)
	}
}

func TestTotalBalancePerAccountIncludesEmptyAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTxn(t, "50", f.income, f.incSub, f.acc1, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	balances, err := f.engine.TotalBalancePerAccount(ctx, nil)
	if err != nil {
		t.Fatalf("per-account balance: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("got %d balances, want 2", len(balances))
	}
	if !balances[1].Total.Equal(decimal.Zero) {
		t.Errorf("empty account total = %s, want 0", balances[1].Total)
	}
}

func TestTransactionsInRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTxn(t, "10", f.income, f.incSub, f.acc1, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))
	f.addTxn(t, "20", f.income, f.incSub, f.acc1, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	f.addTxn(t, "30", f.income, f.incSub, f.acc1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	txns, err := f.engine.TransactionsInRange(ctx, &start, &end)
	if err != nil {
		t.Fatalf("transactions in range: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	if !txns[0].TransactionDate.Before(txns[1].TransactionDate) {
		t.Errorf("transactions not sorted by date: %v then %v", txns[0].TransactionDate, txns[1].TransactionDate)
	}
}

func TestTransactionsInRangeDefaultsToEndOfCurrentMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Now().UTC()
	f.addTxn(t, "10", f.income, f.incSub, f.acc1, now)
	// A transaction after this month's end must not appear without an
	// explicit end date.
	f.addTxn(t, "20", f.income, f.incSub, f.acc1, core.EndOfMonth(now).Add(48*time.Hour))

	txns, err := f.engine.TransactionsInRange(ctx, nil, nil)
	if err != nil {
		t.Fatalf("transactions in range: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
}

func TestRunningBalancePerAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t1 := f.addTxn(t, "100", f.income, f.incSub, f.acc1, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	t2 := f.addTxn(t, "40", f.expense, f.expSub, f.acc1, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	t3 := f.addTxn(t, "7", f.income, f.incSub, f.acc2, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))

	kinds, err := f.engine.CategoryKinds(ctx)
	if err != nil {
		t.Fatalf("category kinds: %v", err)
	}
	running, err := ledger.RunningBalance([]core.Transaction{t1, t2, t3}, kinds)
	if err != nil {
		t.Fatalf("running balance: %v", err)
	}
	want := []string{"100", "60", "7"}
	if len(running) != len(want) {
		t.Fatalf("got %d running balances, want %d", len(running), len(want))
	}
	for i, w := range want {
		if !running[i].Equal(mustDecimal(t, w)) {
			t.Errorf("running[%d] = %s, want %s", i, running[i], w)
		}
	}
}

func TestRunningBalanceMissingCategoryIsIntegrityError(t *testing.T) {
	txn := core.Transaction{
		ID:         1,
		Amount:     decimal.NewFromInt(5),
		CategoryID: 42,
	}
	_, err := ledger.RunningBalance([]core.Transaction{txn}, map[int64]core.CategoryKind{})
	if err == nil {
		t.Fatal("expected error for missing category")
	}
	if !core.IsIntegrity(err) {
		t.Fatalf("expected DataIntegrityError, got %T: %v", err, err)
	}
}

func TestExactDecimalArithmetic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// 0.1 added ten times must be exactly 1, not 0.9999999999999999.
	for i := 0; i < 10; i++ {
		f.addTxn(t, "0.1", f.income, f.incSub, f.acc1, day)
	}
	total, err := f.engine.TotalBalance(ctx, nil)
	if err != nil {
		t.Fatalf("total balance: %v", err)
	}
	if want := decimal.NewFromInt(1); !total.Equal(want) {
		t.Fatalf("total = %s, want %s", total, want)
	}
}
