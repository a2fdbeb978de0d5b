package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/core"
	"wealthtracker/internal/memory"
)

func TestTransactionServicePublishesChangeEvents(t *testing.T) {
	store := memory.New()
	publisher := &fakePublisher{}
	svc := NewTransactionService(store, NewNotifier(publisher))
	ctx := context.Background()

	cur, _ := store.CreateCurrency(ctx, core.Currency{Name: "EUR"})
	at, _ := store.CreateAccountType(ctx, core.AccountType{Type: "checking"})
	acc, _ := store.CreateAccount(ctx, core.Account{Name: "Main", CurrencyID: cur.ID, AccountTypeID: at.ID})
	cat, _ := store.CreateCategory(ctx, core.Category{Name: "Living", Kind: core.Expense})
	sub, _ := store.CreateSubCategory(ctx, core.SubCategory{Name: "Groceries", CategoryID: cat.ID})

	txn, err := svc.Create(ctx, core.Transaction{
		Amount:          decimal.NewFromInt(25),
		TransactionDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CategoryID:      cat.ID,
		SubCategoryID:   sub.ID,
		AccountID:       acc.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	desc := "weekly shop"
	if _, err := svc.Update(ctx, txn.ID, core.TransactionPatch{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Delete(ctx, txn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"transaction:created", "transaction:updated", "transaction:deleted"}
	if len(publisher.events) != len(want) {
		t.Fatalf("events = %v, want %v", publisher.events, want)
	}
	for i, w := range want {
		if publisher.events[i] != w {
			t.Errorf("events[%d] = %q, want %q", i, publisher.events[i], w)
		}
	}
}

func TestTransactionServiceWithoutNotifier(t *testing.T) {
	store := memory.New()
	svc := NewTransactionService(store, NewAMQPNotifier(nil))
	ctx := context.Background()

	_, err := svc.Create(ctx, core.Transaction{
		Amount:          decimal.NewFromInt(1),
		TransactionDate: time.Now(),
		CategoryID:      1,
		SubCategoryID:   1,
		AccountID:       1,
	})
	if !core.IsValidation(err) {
		t.Fatalf("got %v, want ValidationError for missing references", err)
	}
}

func TestTransactionServiceDeleteNotFound(t *testing.T) {
	store := memory.New()
	svc := NewTransactionService(store, NewNotifier(nil))

	err := svc.Delete(context.Background(), 404)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
