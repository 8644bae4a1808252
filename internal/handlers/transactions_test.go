package handlers

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/household-bills/backend/internal/models"
)

func TestWriteTransactionsCSV(t *testing.T) {
	payer := uuid.New()
	paidAt := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	proof := "https://example.com/receipt.jpg"

	bills := []models.Bill{
		{
			ID:            uuid.New(),
			Description:   "Electricity",
			Amount:        decimal.RequireFromString("120.5"),
			DueDate:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			IsPaid:        true,
			PaidAt:        &paidAt,
			IsShared:      true,
			PaidBy:        payer,
			ProofImageURL: &proof,
		},
	}

	var buf bytes.Buffer
	if err := writeTransactionsCSV(csv.NewWriter(&buf), bills); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one record, got %d lines", len(lines))
	}

	if lines[0] != "id,description,amount,due_date,paid_at,shared,paid_by,proof_image_url" {
		t.Fatalf("unexpected header: %s", lines[0])
	}

	record := strings.Split(lines[1], ",")
	if record[2] != "120.50" {
		t.Fatalf("expected amount with two decimals, got %s", record[2])
	}
	if record[3] != "2026-03-15" {
		t.Fatalf("unexpected due date: %s", record[3])
	}
	if record[5] != "true" {
		t.Fatalf("expected shared flag, got %s", record[5])
	}
}

func TestWriteTransactionsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTransactionsCSV(csv.NewWriter(&buf), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only header, got %d lines", len(lines))
	}
}
