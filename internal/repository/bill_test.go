package repository

import (
	"testing"

	"github.com/shopspring/decimal"

	"example.com/household-bills/backend/internal/models"
)

// TestBuildBillDiffEmpty проверяет, что идентичный патч не порождает запись.
func TestBuildBillDiffEmpty(t *testing.T) {
	proof := "https://example.com/proof.png"
	current := models.Bill{
		Description:   "Internet",
		Amount:        decimal.RequireFromString("199.90"),
		ProofImageURL: &proof,
	}

	amount := decimal.RequireFromString("199.90")
	description := "Internet"
	patch := BillPatch{
		Description:   &description,
		Amount:        &amount,
		ProofImageURL: &proof,
	}

	sets, args := buildBillDiff(current, patch)
	if len(sets) != 0 || len(args) != 0 {
		t.Fatalf("expected empty diff, got sets=%v args=%v", sets, args)
	}
}

// TestBuildBillDiffNilPatch проверяет, что nil-поля не трогаются.
func TestBuildBillDiffNilPatch(t *testing.T) {
	current := models.Bill{
		Description: "Internet",
		Amount:      decimal.RequireFromString("199.90"),
	}

	sets, args := buildBillDiff(current, BillPatch{})
	if len(sets) != 0 || len(args) != 0 {
		t.Fatalf("expected empty diff, got sets=%v args=%v", sets, args)
	}
}

// TestBuildBillDiffChanged проверяет нумерацию плейсхолдеров в диффе.
func TestBuildBillDiffChanged(t *testing.T) {
	current := models.Bill{
		Description: "Internet",
		Amount:      decimal.RequireFromString("199.90"),
	}

	description := "Internet + TV"
	amount := decimal.RequireFromString("249.90")
	proof := "https://example.com/proof.png"
	patch := BillPatch{
		Description:   &description,
		Amount:        &amount,
		ProofImageURL: &proof,
	}

	sets, args := buildBillDiff(current, patch)
	if len(sets) != 3 || len(args) != 3 {
		t.Fatalf("expected 3 changes, got sets=%v args=%v", sets, args)
	}

	if sets[0] != "description = $2" || sets[1] != "amount = $3" || sets[2] != "proof_image_url = $4" {
		t.Fatalf("unexpected set clauses: %v", sets)
	}
}

// TestBuildBillDiffAmountScale проверяет сравнение сумм без учета масштаба.
func TestBuildBillDiffAmountScale(t *testing.T) {
	current := models.Bill{Amount: decimal.RequireFromString("100")}

	amount := decimal.RequireFromString("100.00")
	sets, _ := buildBillDiff(current, BillPatch{Amount: &amount})
	if len(sets) != 0 {
		t.Fatalf("expected 100 and 100.00 to be equal, got %v", sets)
	}
}
