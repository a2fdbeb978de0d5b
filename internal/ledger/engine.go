// Package ledger derives signed balances from raw transaction rows.
//
// Balances are recomputed from the store on every call; there is no
// materialized balance anywhere. The sign convention lives in core and is
// applied through core.SignedAmount only.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/core"
)

// Store is the slice of the persistence layer the engine reads from.
type Store interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	ListAccountTypes(ctx context.Context) ([]core.AccountType, error)
	ListCurrencies(ctx context.Context) ([]core.Currency, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListTransactions(ctx context.Context, filter core.TransactionFilter) ([]core.Transaction, error)
}

// AccountBalance is one row of the per-account balance report.
type AccountBalance struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	AccountType string          `json:"account_type"`
	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total_balance"`
}

// Engine computes balance aggregates. The store is an injected dependency so
// multiple instances (e.g. per-test stores) can coexist.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// TotalBalance sums signed amounts over all transactions dated at or before
// end. A nil end means all transactions. An empty ledger yields zero.
func (e *Engine) TotalBalance(ctx context.Context, end *time.Time) (decimal.Decimal, error) {
	txns, err := e.store.ListTransactions(ctx, core.TransactionFilter{End: end})
	if err != nil {
		return decimal.Zero, fmt.Errorf("list transactions: %w", err)
	}
	kinds, err := e.categoryKinds(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, t := range txns {
		signed, err := signedAmount(t, kinds)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(signed)
	}
	return total, nil
}

// TotalBalancePerAccount groups transactions by account and sums signed
// amounts per group, joining in account type and currency display names.
// Accounts with no transactions appear with a zero total. Rows come back in
// account insertion order.
func (e *Engine) TotalBalancePerAccount(ctx context.Context, end *time.Time) ([]AccountBalance, error) {
	accounts, err := e.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	types, err := e.store.ListAccountTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list account types: %w", err)
	}
	currencies, err := e.store.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	kinds, err := e.categoryKinds(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := e.store.ListTransactions(ctx, core.TransactionFilter{End: end})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	typeNames := make(map[int64]string, len(types))
	for _, at := range types {
		typeNames[at.ID] = at.Type
	}
	currencyNames := make(map[int64]string, len(currencies))
	for _, c := range currencies {
		currencyNames[c.ID] = c.Name
	}

	totals := make(map[int64]decimal.Decimal, len(accounts))
	for _, t := range txns {
		signed, err := signedAmount(t, kinds)
		if err != nil {
			return nil, err
		}
		totals[t.AccountID] = totals[t.AccountID].Add(signed)
	}

	balances := make([]AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		balances = append(balances, AccountBalance{
			ID:          a.ID,
			Name:        a.Name,
			AccountType: typeNames[a.AccountTypeID],
			Currency:    currencyNames[a.CurrencyID],
			Total:       totals[a.ID],
		})
	}
	return balances, nil
}

// TransactionsInRange lists transactions inside the inclusive date range.
// A nil end defaults to the last calendar day of the current month; a nil
// start leaves the lower bound open. Results are ordered by transaction date
// ascending.
func (e *Engine) TransactionsInRange(ctx context.Context, start, end *time.Time) ([]core.Transaction, error) {
	if end == nil {
		d := core.EndOfMonth(time.Now())
		end = &d
	}
	txns, err := e.store.ListTransactions(ctx, core.TransactionFilter{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].TransactionDate.Before(txns[j].TransactionDate)
	})
	return txns, nil
}

// RunningBalance computes, for each transaction, the cumulative signed sum
// within its own account up to and including that transaction. Each account
// accumulates independently. The result is aligned index-for-index with the
// input, which must already be ordered by transaction date within each
// account (TransactionsInRange output qualifies).
func RunningBalance(txns []core.Transaction, kinds map[int64]core.CategoryKind) ([]decimal.Decimal, error) {
	perAccount := make(map[int64]decimal.Decimal)
	out := make([]decimal.Decimal, len(txns))
	for i, t := range txns {
		signed, err := signedAmount(t, kinds)
		if err != nil {
			return nil, err
		}
		perAccount[t.AccountID] = perAccount[t.AccountID].Add(signed)
		out[i] = perAccount[t.AccountID]
	}
	return out, nil
}

// CategoryKinds returns the id→kind map used by RunningBalance callers.
func (e *Engine) CategoryKinds(ctx context.Context) (map[int64]core.CategoryKind, error) {
	return e.categoryKinds(ctx)
}

func (e *Engine) categoryKinds(ctx context.Context) (map[int64]core.CategoryKind, error) {
	cats, err := e.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	kinds := make(map[int64]core.CategoryKind, len(cats))
	for _, c := range cats {
		kinds[c.ID] = c.Kind
	}
	return kinds, nil
}

// signedAmount resolves the transaction's category kind and applies the sign.
// An unknown category is a referential inconsistency and fails the whole
// aggregation instead of being treated as one sign or the other.
func signedAmount(t core.Transaction, kinds map[int64]core.CategoryKind) (decimal.Decimal, error) {
	kind, ok := kinds[t.CategoryID]
	if !ok {
		return decimal.Zero, &core.DataIntegrityError{
			Entity: "transaction",
			ID:     t.ID,
			Reason: fmt.Sprintf("references missing category %d", t.CategoryID),
		}
	}
	return core.SignedAmount(t.Amount, kind), nil
}
