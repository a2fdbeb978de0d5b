// Package memory provides an in-process Store used for tests and as a
// zero-setup backend. It enforces the same referential rules as the SQLite
// repository so handlers behave identically on either backend.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wealthtracker/internal/core"
)

type Store struct {
	mu sync.RWMutex

	nextID map[string]int64

	currencies   []core.Currency
	accountTypes []core.AccountType
	accounts     []core.Account
	categories   []core.Category
	subcats      []core.SubCategory
	txns         []core.Transaction
	planned      []core.PlannedTransaction
	budgets      []core.Budget
}

func New() *Store {
	return &Store{nextID: make(map[string]int64)}
}

func (s *Store) id(entity string) int64 {
	s.nextID[entity]++
	return s.nextID[entity]
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, core.ErrNotFound)
}

// Currencies

func (s *Store) CreateCurrency(_ context.Context, c core.Currency) (core.Currency, error) {
	if err := c.Validate(); err != nil {
		return core.Currency{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id("currency")
	s.currencies = append(s.currencies, c)
	return c, nil
}

func (s *Store) GetCurrency(_ context.Context, id int64) (core.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.currencies {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Currency{}, notFound("currency", id)
}

func (s *Store) ListCurrencies(_ context.Context) ([]core.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Currency(nil), s.currencies...), nil
}

func (s *Store) UpdateCurrency(_ context.Context, id int64, patch core.CurrencyPatch) (core.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.currencies {
		if s.currencies[i].ID != id {
			continue
		}
		updated := s.currencies[i]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return core.Currency{}, err
		}
		s.currencies[i] = updated
		return updated, nil
	}
	return core.Currency{}, notFound("currency", id)
}

func (s *Store) DeleteCurrency(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.CurrencyID == id {
			return core.Validation("id", "currency is referenced by an account")
		}
	}
	for i, c := range s.currencies {
		if c.ID == id {
			s.currencies = append(s.currencies[:i], s.currencies[i+1:]...)
			return nil
		}
	}
	return notFound("currency", id)
}

// Account types

func (s *Store) CreateAccountType(_ context.Context, at core.AccountType) (core.AccountType, error) {
	if err := at.Validate(); err != nil {
		return core.AccountType{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	at.ID = s.id("account_type")
	s.accountTypes = append(s.accountTypes, at)
	return at, nil
}

func (s *Store) GetAccountType(_ context.Context, id int64) (core.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, at := range s.accountTypes {
		if at.ID == id {
			return at, nil
		}
	}
	return core.AccountType{}, notFound("account type", id)
}

func (s *Store) ListAccountTypes(_ context.Context) ([]core.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.AccountType(nil), s.accountTypes...), nil
}

func (s *Store) UpdateAccountType(_ context.Context, id int64, patch core.AccountTypePatch) (core.AccountType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accountTypes {
		if s.accountTypes[i].ID != id {
			continue
		}
		updated := s.accountTypes[i]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return core.AccountType{}, err
		}
		s.accountTypes[i] = updated
		return updated, nil
	}
	return core.AccountType{}, notFound("account type", id)
}

func (s *Store) DeleteAccountType(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.AccountTypeID == id {
			return core.Validation("id", "account type is referenced by an account")
		}
	}
	for i, at := range s.accountTypes {
		if at.ID == id {
			s.accountTypes = append(s.accountTypes[:i], s.accountTypes[i+1:]...)
			return nil
		}
	}
	return notFound("account type", id)
}

// Accounts

func (s *Store) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currencyExists(a.CurrencyID) {
		return core.Account{}, core.Validation("currency_id", "currency does not exist")
	}
	if !s.accountTypeExists(a.AccountTypeID) {
		return core.Account{}, core.Validation("account_type_id", "account type does not exist")
	}
	now := time.Now().UTC()
	a.ID = s.id("account")
	a.CreatedAt = now
	a.UpdatedAt = now
	s.accounts = append(s.accounts, a)
	return a, nil
}

func (s *Store) GetAccount(_ context.Context, id int64) (core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return core.Account{}, notFound("account", id)
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Account(nil), s.accounts...), nil
}

func (s *Store) UpdateAccount(_ context.Context, id int64, patch core.AccountPatch) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID != id {
			continue
		}
		updated := s.accounts[i]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return core.Account{}, err
		}
		if !s.currencyExists(updated.CurrencyID) {
			return core.Account{}, core.Validation("currency_id", "currency does not exist")
		}
		if !s.accountTypeExists(updated.AccountTypeID) {
			return core.Account{}, core.Validation("account_type_id", "account type does not exist")
		}
		updated.UpdatedAt = time.Now().UTC()
		s.accounts[i] = updated
		return updated, nil
	}
	return core.Account{}, notFound("account", id)
}

// DeleteAccount rejects deletion while transactions still reference the
// account, so the ledger can never hold orphaned rows.
func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txns {
		if t.AccountID == id {
			return core.Validation("id", "account has transactions")
		}
	}
	for _, pt := range s.planned {
		if pt.AccountID == id {
			return core.Validation("id", "account has planned transactions")
		}
	}
	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return notFound("account", id)
}

// Categories

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id("category")
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, notFound("category", id)
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) UpdateCategory(_ context.Context, id int64, patch core.CategoryPatch) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		updated := s.categories[i]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return core.Category{}, err
		}
		s.categories[i] = updated
		return updated, nil
	}
	return core.Category{}, notFound("category", id)
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.subcats {
		if sc.CategoryID == id {
			return core.Validation("id", "category has subcategories")
		}
	}
	for _, t := range s.txns {
		if t.CategoryID == id {
			return core.Validation("id", "category has transactions")
		}
	}
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return notFound("category", id)
}

// Subcategories

func (s *Store) CreateSubCategory(_ context.Context, sc core.SubCategory) (core.SubCategory, error) {
	if err := sc.Validate(); err != nil {
		return core.SubCategory{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.categoryExists(sc.CategoryID) {
		return core.SubCategory{}, core.Validation("category_id", "category does not exist")
	}
	sc.ID = s.id("subcategory")
	s.subcats = append(s.subcats, sc)
	return sc, nil
}

func (s *Store) GetSubCategory(_ context.Context, id int64) (core.SubCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.subcats {
		if sc.ID == id {
			return sc, nil
		}
	}
	return core.SubCategory{}, notFound("subcategory", id)
}

func (s *Store) ListSubCategories(_ context.Context) ([]core.SubCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.SubCategory(nil), s.subcats...), nil
}

func (s *Store) UpdateSubCategory(_ context.Context, id int64, patch core.SubCategoryPatch) (core.SubCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.subcats {
		if s.subcats[i].ID != id {
			continue
		}
		updated := s.subcats[i]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return core.SubCategory{}, err
		}
		if !s.categoryExists(updated.CategoryID) {
			return core.SubCategory{}, core.Validation("category_id", "category does not exist")
		}
		s.subcats[i] = updated
		return updated, nil
	}
	return core.SubCategory{}, notFound("subcategory", id)
}

func (s *Store) DeleteSubCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txns {
		if t.SubCategoryID == id {
			return core.Validation("id", "subcategory has transactions")
		}
	}
	for _, b := range s.budgets {
		if b.SubCategoryID == id {
			return core.Validation("id", "subcategory has budgets")
		}
	}
	for i, sc := range s.subcats {
		if sc.ID == id {
			s.subcats = append(s.subcats[:i], s.subcats[i+1:]...)
			return nil
		}
	}
	return notFound("subcategory", id)
}

// Transactions

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkTransactionRefs(t.AccountID, t.CategoryID, t.SubCategoryID); err != nil {
		return core.Transaction{}, err
	}
	now := time.Now().UTC()
	t.ID = s.id("transaction")
	t.CreatedAt = now
	t.UpdatedAt = now
	s.txns = append(s.txns, t)
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.txns {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, notFound("transaction", id)
}

func (s *Store) ListTransactions(_ context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		if filter.Matches(t.TransactionDate) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID != id {
			continue
		}
		updated := s.txns[i]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return core.Transaction{}, err
		}
		if err := s.checkTransactionRefs(updated.AccountID, updated.CategoryID, updated.SubCategoryID); err != nil {
			return core.Transaction{}, err
		}
		updated.UpdatedAt = time.Now().UTC()
		s.txns[i] = updated
		return updated, nil
	}
	return core.Transaction{}, notFound("transaction", id)
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.txns {
		if t.ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return notFound("transaction", id)
}

// Planned transactions

func (s *Store) CreatePlannedTransaction(_ context.Context, pt core.PlannedTransaction) (core.PlannedTransaction, error) {
	if err := pt.Validate(); err != nil {
		return core.PlannedTransaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkTransactionRefs(pt.AccountID, pt.CategoryID, pt.SubCategoryID); err != nil {
		return core.PlannedTransaction{}, err
	}
	now := time.Now().UTC()
	pt.ID = s.id("planned_transaction")
	pt.CreatedAt = now
	pt.UpdatedAt = now
	s.planned = append(s.planned, pt)
	return pt, nil
}

func (s *Store) GetPlannedTransaction(_ context.Context, id int64) (core.PlannedTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pt := range s.planned {
		if pt.ID == id {
			return pt, nil
		}
	}
	return core.PlannedTransaction{}, notFound("planned transaction", id)
}

func (s *Store) ListPlannedTransactions(_ context.Context, filter core.TransactionFilter) ([]core.PlannedTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.PlannedTransaction, 0, len(s.planned))
	for _, pt := range s.planned {
		if filter.Matches(pt.TransactionDate) {
			out = append(out, pt)
		}
	}
	return out, nil
}

func (s *Store) UpdatePlannedTransaction(_ context.Context, id int64, patch core.PlannedTransactionPatch) (core.PlannedTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.planned {
		if s.planned[i].ID != id {
			continue
		}
		updated := s.planned[i]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return core.PlannedTransaction{}, err
		}
		if err := s.checkTransactionRefs(updated.AccountID, updated.CategoryID, updated.SubCategoryID); err != nil {
			return core.PlannedTransaction{}, err
		}
		updated.UpdatedAt = time.Now().UTC()
		s.planned[i] = updated
		return updated, nil
	}
	return core.PlannedTransaction{}, notFound("planned transaction", id)
}

func (s *Store) DeletePlannedTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, pt := range s.planned {
		if pt.ID == id {
			s.planned = append(s.planned[:i], s.planned[i+1:]...)
			return nil
		}
	}
	return notFound("planned transaction", id)
}

func (s *Store) MarkPlannedMaterialized(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.planned {
		if s.planned[i].ID == id {
			s.planned[i].LastMaterializedAt = at
			s.planned[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return notFound("planned transaction", id)
}

// Budgets

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.subCategoryExists(b.SubCategoryID) {
		return core.Budget{}, core.Validation("subcategory_id", "subcategory does not exist")
	}
	if s.budgetExists(b.SubCategoryID, b.Year, b.Month, 0) {
		return core.Budget{}, core.Validation("month", "budget already exists for this subcategory and month")
	}
	b.ID = s.id("budget")
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *Store) GetBudget(_ context.Context, id int64) (core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.budgets {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Budget{}, notFound("budget", id)
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Budget(nil), s.budgets...), nil
}

func (s *Store) UpdateBudget(_ context.Context, id int64, patch core.BudgetPatch) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID != id {
			continue
		}
		updated := s.budgets[i]
		patch.Apply(&updated)
		if err := updated.Validate(); err != nil {
			return core.Budget{}, err
		}
		if !s.subCategoryExists(updated.SubCategoryID) {
			return core.Budget{}, core.Validation("subcategory_id", "subcategory does not exist")
		}
		if s.budgetExists(updated.SubCategoryID, updated.Year, updated.Month, id) {
			return core.Budget{}, core.Validation("month", "budget already exists for this subcategory and month")
		}
		s.budgets[i] = updated
		return updated, nil
	}
	return core.Budget{}, notFound("budget", id)
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budgets {
		if b.ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return notFound("budget", id)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// reference checks; callers hold the lock

func (s *Store) currencyExists(id int64) bool {
	for _, c := range s.currencies {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) accountTypeExists(id int64) bool {
	for _, at := range s.accountTypes {
		if at.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) categoryExists(id int64) bool {
	for _, c := range s.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) subCategoryExists(id int64) bool {
	for _, sc := range s.subcats {
		if sc.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) accountExists(id int64) bool {
	for _, a := range s.accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) budgetExists(subCategoryID int64, year, month int, excludeID int64) bool {
	for _, b := range s.budgets {
		if b.ID != excludeID && b.SubCategoryID == subCategoryID && b.Year == year && b.Month == month {
			return true
		}
	}
	return false
}

// checkTransactionRefs validates the three foreign keys of a transaction row
// and rejects a subcategory whose parent disagrees with the stored
// category_id. The two fields are redundant on purpose; letting them diverge
// would corrupt balance signs.
func (s *Store) checkTransactionRefs(accountID, categoryID, subCategoryID int64) error {
	if !s.accountExists(accountID) {
		return core.Validation("account_id", "account does not exist")
	}
	if !s.categoryExists(categoryID) {
		return core.Validation("category_id", "category does not exist")
	}
	var sub *core.SubCategory
	for i := range s.subcats {
		if s.subcats[i].ID == subCategoryID {
			sub = &s.subcats[i]
			break
		}
	}
	if sub == nil {
		return core.Validation("subcategory_id", "subcategory does not exist")
	}
	if sub.CategoryID != categoryID {
		return core.Validation("subcategory_id", "subcategory does not belong to category")
	}
	return nil
}
