package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  CategoryKind = "income"
	Expense CategoryKind = "expense"
)

const (
	Must ExpenseClass = "must"
	Need ExpenseClass = "need"
	Want ExpenseClass = "want"
)

const (
	Once       Recurrence = "once"
	Daily      Recurrence = "daily"
	Weekly     Recurrence = "weekly"
	Biweekly   Recurrence = "biweekly"
	Monthly    Recurrence = "monthly"
	Quarterly  Recurrence = "quarterly"
	Semiannual Recurrence = "semiannual"
	Yearly     Recurrence = "yearly"
)

type (
	// CategoryKind decides the sign a transaction amount contributes to a
	// balance: income adds, expense subtracts.
	CategoryKind string

	// ExpenseClass is the optional must/need/want classification used for
	// budgeting ratios.
	ExpenseClass string

	// Recurrence is the repetition schedule of a planned transaction.
	Recurrence string

	Currency struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	AccountType struct {
		ID   int64  `json:"id"`
		Type string `json:"type"`
	}

	Account struct {
		ID            int64     `json:"id"`
		Name          string    `json:"name"`
		CurrencyID    int64     `json:"currency_id"`
		AccountTypeID int64     `json:"account_type_id"`
		CreatedAt     time.Time `json:"created_at"`
		UpdatedAt     time.Time `json:"updated_at"`
	}

	Category struct {
		ID   int64        `json:"id"`
		Name string       `json:"name"`
		Kind CategoryKind `json:"kind"`
	}

	SubCategory struct {
		ID           int64        `json:"id"`
		Name         string       `json:"name"`
		CategoryID   int64        `json:"category_id"`
		ExpenseClass ExpenseClass `json:"expense_class,omitempty"`
	}

	Transaction struct {
		ID              int64           `json:"id"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
		TransactionDate time.Time       `json:"transaction_date"`
		IsPlanned       bool            `json:"is_planned"`
		CategoryID      int64           `json:"category_id"`
		SubCategoryID   int64           `json:"subcategory_id"`
		AccountID       int64           `json:"account_id"`
		CreatedAt       time.Time       `json:"created_at"`
		UpdatedAt       time.Time       `json:"updated_at"`
	}

	// PlannedTransaction is a future or recurring expected transaction. It is
	// kept apart from realized transactions and materialized by the recurring
	// processor when due.
	PlannedTransaction struct {
		ID                 int64           `json:"id"`
		Amount             decimal.Decimal `json:"amount"`
		Description        string          `json:"description"`
		TransactionDate    time.Time       `json:"transaction_date"`
		Recurrence         Recurrence      `json:"recurrence"`
		CategoryID         int64           `json:"category_id"`
		SubCategoryID      int64           `json:"subcategory_id"`
		AccountID          int64           `json:"account_id"`
		LastMaterializedAt time.Time       `json:"last_materialized_at,omitempty"`
		CreatedAt          time.Time       `json:"created_at"`
		UpdatedAt          time.Time       `json:"updated_at"`
	}

	Budget struct {
		ID            int64           `json:"id"`
		Year          int             `json:"year"`
		Month         int             `json:"month"`
		Budgeted      decimal.Decimal `json:"budgeted_amount"`
		SubCategoryID int64           `json:"subcategory_id"`
	}
)

var (
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidKind        = errors.New("invalid category kind")
	ErrInvalidClass       = errors.New("invalid expense class")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrZeroDate           = errors.New("transaction date cannot be zero")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrNameTooLong        = errors.New("name too long (max 200 characters)")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// Valid reports whether the kind is one of the enumerated values.
func (k CategoryKind) Valid() bool {
	return k == Income || k == Expense
}

// Valid reports whether the class is one of the enumerated values.
// The empty class is allowed since the classification is optional.
func (c ExpenseClass) Valid() bool {
	switch c {
	case "", Must, Need, Want:
		return true
	default:
		return false
	}
}

// Valid reports whether the recurrence is one of the enumerated values.
func (r Recurrence) Valid() bool {
	switch r {
	case Once, Daily, Weekly, Biweekly, Monthly, Quarterly, Semiannual, Yearly:
		return true
	default:
		return false
	}
}

// Validate methods return a ValidationError naming the offending field so
// error responses carry field-level detail.

func (c Currency) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	return nil
}

func (at AccountType) Validate() error {
	if strings.TrimSpace(at.Type) == "" {
		return invalid("type", ErrEmptyName)
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if len(a.Name) > 200 {
		return invalid("name", ErrNameTooLong)
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if !c.Kind.Valid() {
		return invalid("kind", ErrInvalidKind)
	}
	return nil
}

func (sc SubCategory) Validate() error {
	if strings.TrimSpace(sc.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if !sc.ExpenseClass.Valid() {
		return invalid("expense_class", ErrInvalidClass)
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return invalid("amount", ErrNegativeAmount)
	}
	if t.TransactionDate.IsZero() {
		return invalid("transaction_date", ErrZeroDate)
	}
	if len(t.Description) > 200 {
		return invalid("description", ErrDescriptionTooLong)
	}
	return nil
}

func (pt PlannedTransaction) Validate() error {
	if pt.Amount.IsNegative() {
		return invalid("amount", ErrNegativeAmount)
	}
	if pt.TransactionDate.IsZero() {
		return invalid("transaction_date", ErrZeroDate)
	}
	if !pt.Recurrence.Valid() {
		return invalid("recurrence", ErrInvalidRecurrence)
	}
	if len(pt.Description) > 200 {
		return invalid("description", ErrDescriptionTooLong)
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return invalid("month", ErrInvalidMonth)
	}
	if b.Budgeted.IsNegative() {
		return invalid("budgeted_amount", ErrNegativeAmount)
	}
	return nil
}

// EndOfMonth returns the last calendar day of t's month at 23:59:59, the
// default upper bound for balance queries.
func EndOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstOfNext.Add(-time.Second)
}
