package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patch types implement merge-patch updates: only fields present in the
// request change, everything else is left untouched. A nil pointer means
// "not provided", which is distinct from a zero value.

type CurrencyPatch struct {
	Name *string `json:"name"`
}

type AccountTypePatch struct {
	Type *string `json:"type"`
}

type AccountPatch struct {
	Name          *string `json:"name"`
	CurrencyID    *int64  `json:"currency_id"`
	AccountTypeID *int64  `json:"account_type_id"`
}

type CategoryPatch struct {
	Name *string       `json:"name"`
	Kind *CategoryKind `json:"kind"`
}

type SubCategoryPatch struct {
	Name         *string       `json:"name"`
	CategoryID   *int64        `json:"category_id"`
	ExpenseClass *ExpenseClass `json:"expense_class"`
}

type TransactionPatch struct {
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description"`
	TransactionDate *time.Time       `json:"transaction_date"`
	IsPlanned       *bool            `json:"is_planned"`
	CategoryID      *int64           `json:"category_id"`
	SubCategoryID   *int64           `json:"subcategory_id"`
	AccountID       *int64           `json:"account_id"`
}

type PlannedTransactionPatch struct {
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description"`
	TransactionDate *time.Time       `json:"transaction_date"`
	Recurrence      *Recurrence      `json:"recurrence"`
	CategoryID      *int64           `json:"category_id"`
	SubCategoryID   *int64           `json:"subcategory_id"`
	AccountID       *int64           `json:"account_id"`
}

type BudgetPatch struct {
	Year          *int             `json:"year"`
	Month         *int             `json:"month"`
	Budgeted      *decimal.Decimal `json:"budgeted_amount"`
	SubCategoryID *int64           `json:"subcategory_id"`
}

// Apply merges the patch into c.
func (p CurrencyPatch) Apply(c *Currency) {
	if p.Name != nil {
		c.Name = *p.Name
	}
}

// Apply merges the patch into at.
func (p AccountTypePatch) Apply(at *AccountType) {
	if p.Type != nil {
		at.Type = *p.Type
	}
}

// Apply merges the patch into a.
func (p AccountPatch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.CurrencyID != nil {
		a.CurrencyID = *p.CurrencyID
	}
	if p.AccountTypeID != nil {
		a.AccountTypeID = *p.AccountTypeID
	}
}

// Apply merges the patch into c.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Kind != nil {
		c.Kind = *p.Kind
	}
}

// Apply merges the patch into sc.
func (p SubCategoryPatch) Apply(sc *SubCategory) {
	if p.Name != nil {
		sc.Name = *p.Name
	}
	if p.CategoryID != nil {
		sc.CategoryID = *p.CategoryID
	}
	if p.ExpenseClass != nil {
		sc.ExpenseClass = *p.ExpenseClass
	}
}

// Apply merges the patch into t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.TransactionDate != nil {
		t.TransactionDate = *p.TransactionDate
	}
	if p.IsPlanned != nil {
		t.IsPlanned = *p.IsPlanned
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.SubCategoryID != nil {
		t.SubCategoryID = *p.SubCategoryID
	}
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
}

// Apply merges the patch into pt.
func (p PlannedTransactionPatch) Apply(pt *PlannedTransaction) {
	if p.Amount != nil {
		pt.Amount = *p.Amount
	}
	if p.Description != nil {
		pt.Description = *p.Description
	}
	if p.TransactionDate != nil {
		pt.TransactionDate = *p.TransactionDate
	}
	if p.Recurrence != nil {
		pt.Recurrence = *p.Recurrence
	}
	if p.CategoryID != nil {
		pt.CategoryID = *p.CategoryID
	}
	if p.SubCategoryID != nil {
		pt.SubCategoryID = *p.SubCategoryID
	}
	if p.AccountID != nil {
		pt.AccountID = *p.AccountID
	}
}

// Apply merges the patch into b.
func (p BudgetPatch) Apply(b *Budget) {
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.Month != nil {
		b.Month = *p.Month
	}
	if p.Budgeted != nil {
		b.Budgeted = *p.Budgeted
	}
	if p.SubCategoryID != nil {
		b.SubCategoryID = *p.SubCategoryID
	}
}
