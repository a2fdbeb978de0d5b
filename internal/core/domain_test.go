package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "food", Kind: Expense}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Category{
		{Name: "", Kind: Expense},
		{Name: "food", Kind: "spending"},
		{Name: "food", Kind: ""},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSubCategoryValidate(t *testing.T) {
	cases := []struct {
		sc SubCategory
		ok bool
	}{
		{SubCategory{Name: "groceries", CategoryID: 1, ExpenseClass: Need}, true},
		{SubCategory{Name: "wage", CategoryID: 1}, true}, // class optional
		{SubCategory{Name: "", CategoryID: 1}, false},
		{SubCategory{Name: "x", CategoryID: 1, ExpenseClass: "luxury"}, false},
	}
	for i, tc := range cases {
		err := tc.sc.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2024, 10, 2, 12, 30, 0, 0, time.UTC)
	good := Transaction{
		Amount:          decimal.RequireFromString("100.55"),
		Description:     "restaurant bill",
		TransactionDate: date,
		CategoryID:      1,
		SubCategoryID:   1,
		AccountID:       1,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	neg := good
	neg.Amount = decimal.RequireFromString("-1")
	if err := neg.Validate(); err == nil {
		t.Fatal("expected error for negative amount")
	}

	zeroDate := good
	zeroDate.TransactionDate = time.Time{}
	if err := zeroDate.Validate(); err == nil {
		t.Fatal("expected error for zero date")
	}
}

func TestPlannedTransactionValidate(t *testing.T) {
	date := time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)
	pt := PlannedTransaction{
		Amount:          decimal.RequireFromString("50"),
		TransactionDate: date,
		Recurrence:      Monthly,
	}
	if err := pt.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	pt.Recurrence = "fortnightly"
	if err := pt.Validate(); err == nil {
		t.Fatal("expected error for unknown recurrence")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Year: 2024, Month: 10, Budgeted: decimal.RequireFromString("1000.00"), SubCategoryID: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, month := range []int{0, 13, -1} {
		b := good
		b.Month = month
		if err := b.Validate(); err == nil {
			t.Fatalf("month %d expected error", month)
		}
	}
}

func TestValidateAttributesField(t *testing.T) {
	date := time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)
	long := strings.Repeat("x", 201)
	cases := []struct {
		name     string
		err      error
		field    string
		sentinel error
	}{
		{"currency name", Currency{}.Validate(), "name", ErrEmptyName},
		{"account type", AccountType{}.Validate(), "type", ErrEmptyName},
		{"account name length", Account{Name: long}.Validate(), "name", ErrNameTooLong},
		{"category kind", Category{Name: "food", Kind: "spending"}.Validate(), "kind", ErrInvalidKind},
		{"expense class", SubCategory{Name: "x", ExpenseClass: "luxury"}.Validate(), "expense_class", ErrInvalidClass},
		{"zero date", Transaction{Amount: decimal.NewFromInt(1)}.Validate(), "transaction_date", ErrZeroDate},
		{"negative amount", Transaction{Amount: decimal.NewFromInt(-1), TransactionDate: date}.Validate(), "amount", ErrNegativeAmount},
		{"description length", Transaction{Amount: decimal.NewFromInt(1), TransactionDate: date, Description: long}.Validate(), "description", ErrDescriptionTooLong},
		{"recurrence", PlannedTransaction{Amount: decimal.NewFromInt(1), TransactionDate: date, Recurrence: "fortnightly"}.Validate(), "recurrence", ErrInvalidRecurrence},
		{"budget month", Budget{Year: 2024, Month: 0}.Validate(), "month", ErrInvalidMonth},
		{"budget amount", Budget{Year: 2024, Month: 3, Budgeted: decimal.NewFromInt(-1)}.Validate(), "budgeted_amount", ErrNegativeAmount},
	}
	for _, tc := range cases {
		var ve *ValidationError
		if !errors.As(tc.err, &ve) {
			t.Fatalf("%s: err = %v, want a ValidationError", tc.name, tc.err)
		}
		if ve.Field != tc.field {
			t.Errorf("%s: field = %q, want %q", tc.name, ve.Field, tc.field)
		}
		if !errors.Is(tc.err, tc.sentinel) {
			t.Errorf("%s: err = %v, want it to wrap %v", tc.name, tc.err, tc.sentinel)
		}
	}
}

func TestEndOfMonth(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 10, 5, 9, 0, 0, 0, time.UTC), time.Date(2024, 10, 31, 23, 59, 59, 0, time.UTC)},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)},
	}
	for i, tc := range cases {
		if got := EndOfMonth(tc.in); !got.Equal(tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, got)
		}
	}
}
