// Package backend defines the persistence ports of the tracker and the
// factory that picks a concrete store at startup.
package backend

import (
	"context"
	"time"

	"wealthtracker/internal/core"
	"wealthtracker/internal/ledger"
)

// Store is the unified persistence interface. Both the SQLite repository and
// the in-memory store implement it; handlers and services depend on this
// interface, never on a concrete store.
type Store interface {
	ledger.Store

	CreateCurrency(ctx context.Context, c core.Currency) (core.Currency, error)
	GetCurrency(ctx context.Context, id int64) (core.Currency, error)
	UpdateCurrency(ctx context.Context, id int64, patch core.CurrencyPatch) (core.Currency, error)
	DeleteCurrency(ctx context.Context, id int64) error

	CreateAccountType(ctx context.Context, at core.AccountType) (core.AccountType, error)
	GetAccountType(ctx context.Context, id int64) (core.AccountType, error)
	UpdateAccountType(ctx context.Context, id int64, patch core.AccountTypePatch) (core.AccountType, error)
	DeleteAccountType(ctx context.Context, id int64) error

	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	GetAccount(ctx context.Context, id int64) (core.Account, error)
	UpdateAccount(ctx context.Context, id int64, patch core.AccountPatch) (core.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	UpdateCategory(ctx context.Context, id int64, patch core.CategoryPatch) (core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateSubCategory(ctx context.Context, sc core.SubCategory) (core.SubCategory, error)
	GetSubCategory(ctx context.Context, id int64) (core.SubCategory, error)
	ListSubCategories(ctx context.Context) ([]core.SubCategory, error)
	UpdateSubCategory(ctx context.Context, id int64, patch core.SubCategoryPatch) (core.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id int64) error

	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error

	CreatePlannedTransaction(ctx context.Context, pt core.PlannedTransaction) (core.PlannedTransaction, error)
	GetPlannedTransaction(ctx context.Context, id int64) (core.PlannedTransaction, error)
	ListPlannedTransactions(ctx context.Context, filter core.TransactionFilter) ([]core.PlannedTransaction, error)
	UpdatePlannedTransaction(ctx context.Context, id int64, patch core.PlannedTransactionPatch) (core.PlannedTransaction, error)
	DeletePlannedTransaction(ctx context.Context, id int64) error
	MarkPlannedMaterialized(ctx context.Context, id int64, at time.Time) error

	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, id int64) (core.Budget, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, id int64, patch core.BudgetPatch) (core.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}
