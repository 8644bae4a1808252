package handlers

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/household-bills/backend/internal/models"
	"example.com/household-bills/backend/internal/repository"
)

func TestBuildPatchAmount(t *testing.T) {
	amount := "150.50"
	patch, err := buildPatch(UpdateBillRequest{Amount: &amount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if patch.Amount == nil {
		t.Fatal("expected amount in patch")
	}

	want := decimal.RequireFromString("150.50")
	if !patch.Amount.Equal(want) {
		t.Fatalf("expected %s, got %s", want, patch.Amount)
	}
}

func TestBuildPatchInvalidAmount(t *testing.T) {
	amount := "not-a-number"
	if _, err := buildPatch(UpdateBillRequest{Amount: &amount}); err == nil {
		t.Fatal("expected error for malformed amount")
	}
}

func TestBuildPatchNegativeAmount(t *testing.T) {
	amount := "-5.00"
	if _, err := buildPatch(UpdateBillRequest{Amount: &amount}); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestBillAccessOwnHousehold(t *testing.T) {
	householdID := uuid.New()
	bill := models.Bill{ID: uuid.New(), HouseholdID: householdID}

	if err := billAccess(bill, householdID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBillAccessForeignHousehold(t *testing.T) {
	bill := models.Bill{ID: uuid.New(), HouseholdID: uuid.New()}

	err := billAccess(bill, uuid.New())
	if !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if errors.Is(err, repository.ErrNotFound) {
		t.Fatal("foreign household must not look like a missing bill")
	}
}

func TestBuildPatchEmpty(t *testing.T) {
	patch, err := buildPatch(UpdateBillRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if patch.Description != nil || patch.Amount != nil || patch.ProofImageURL != nil {
		t.Fatal("expected empty patch")
	}
}
