package summary

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/household-bills/backend/internal/models"
)

// TestResolveWindowValid проверяет разбор явных границ окна.
func TestResolveWindowValid(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	window, err := ResolveWindow("2024-01-01", "2024-01-31", now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if window.From.Format(dateLayout) != "2024-01-01" {
		t.Fatalf("unexpected from: %s", window.From.Format(dateLayout))
	}
	if window.To.Format(dateLayout) != "2024-01-31" {
		t.Fatalf("unexpected to: %s", window.To.Format(dateLayout))
	}
	if window.Days() != 31 {
		t.Fatalf("expected 31 days, got %d", window.Days())
	}
}

// TestResolveWindowDefaults проверяет широкое окно по умолчанию.
func TestResolveWindowDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	window, err := ResolveWindow("", "", now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !window.From.Equal(now.AddDate(-1, 0, 0)) {
		t.Fatalf("unexpected default from: %v", window.From)
	}
	if !window.To.Equal(now.AddDate(1, 0, 0)) {
		t.Fatalf("unexpected default to: %v", window.To)
	}
}

// TestResolveWindowInvalid проверяет отказ на неверном вводе.
func TestResolveWindowInvalid(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if _, err := ResolveWindow("2024/01/01", "2024-01-31", now); !errors.Is(err, ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}

	if _, err := ResolveWindow("2024-02-01", "2024-01-31", now); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

// TestWindowPrevious проверяет сдвиг сравнительного окна на его длину.
func TestWindowPrevious(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	window, err := ResolveWindow("2024-01-01", "2024-01-31", now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	previous := window.Previous()
	if previous.From.Format(dateLayout) != "2023-12-01" {
		t.Fatalf("unexpected previous from: %s", previous.From.Format(dateLayout))
	}
	if previous.To.Format(dateLayout) != "2023-12-31" {
		t.Fatalf("unexpected previous to: %s", previous.To.Format(dateLayout))
	}
	if previous.Days() != window.Days() {
		t.Fatalf("expected equal lengths, got %d and %d", previous.Days(), window.Days())
	}
}

// TestPercentChange проверяет политику обработки нулей.
func TestPercentChange(t *testing.T) {
	if got := PercentChange(decimal.Zero, decimal.Zero); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}

	if got := PercentChange(decimal.NewFromInt(42), decimal.Zero); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}

	if got := PercentChange(decimal.NewFromInt(150), decimal.NewFromInt(100)); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}

	if got := PercentChange(decimal.NewFromInt(50), decimal.NewFromInt(100)); got != -50 {
		t.Fatalf("expected -50, got %v", got)
	}
}

// TestOutstandingExcludesPaid проверяет, что оплаченные счета не попадают в остаток.
func TestOutstandingExcludesPaid(t *testing.T) {
	bills := []models.Bill{
		{Amount: decimal.NewFromInt(100), IsPaid: false},
		{Amount: decimal.NewFromInt(200), IsPaid: true},
		{Amount: decimal.RequireFromString("49.90"), IsPaid: false},
	}

	got := outstanding(bills)
	want := decimal.RequireFromString("149.90")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

// TestUrgencyBoundary проверяет границу срочности в три дня включительно.
func TestUrgencyBoundary(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	inThreeDays := []models.Bill{{DueDate: time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)}}
	if buckets := countBuckets(inThreeDays, now); buckets.UrgentCount != 1 {
		t.Fatalf("expected bill due in 3 days to be urgent, got %+v", buckets)
	}

	inFourDays := []models.Bill{{DueDate: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)}}
	if buckets := countBuckets(inFourDays, now); buckets.NormalUnpaidCount != 1 || buckets.UrgentCount != 0 {
		t.Fatalf("expected bill due in 4 days to be normal, got %+v", buckets)
	}
}

// TestSummarizeEmpty проверяет нулевую сводку на пустом входе.
func TestSummarizeEmpty(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	got := Summarize(nil, nil, uuid.New(), now)
	if !got.RemainingAmount.IsZero() || !got.ExpensesAmount.IsZero() {
		t.Fatalf("expected zero amounts, got %+v", got)
	}
	if got.RemainingChange != 0 || got.ExpensesChange != 0 {
		t.Fatalf("expected zero changes, got %+v", got)
	}
	if got.Household != (StatusBuckets{}) || got.Individual != (StatusBuckets{}) {
		t.Fatalf("expected empty buckets, got %+v", got)
	}
}

// TestSummarizeScenario проверяет сводку на смешанном наборе счетов.
func TestSummarizeScenario(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()
	otherID := uuid.New()
	paidAt := now.AddDate(0, 0, -1)

	current := []models.Bill{
		{IsShared: true, Amount: decimal.NewFromInt(100), IsPaid: false, DueDate: now.AddDate(0, 0, 1)},
		{IsShared: true, Amount: decimal.NewFromInt(200), IsPaid: true, PaidAt: &paidAt, DueDate: now.AddDate(0, 0, -1)},
		{IsShared: false, PaidBy: userID, Amount: decimal.NewFromInt(50), IsPaid: false, DueDate: now.AddDate(0, 0, 10)},
		// Чужой личный счет не должен влиять на сводку.
		{IsShared: false, PaidBy: otherID, Amount: decimal.NewFromInt(999), IsPaid: false, DueDate: now},
	}

	got := Summarize(current, nil, userID, now)

	if !got.RemainingAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected remaining 100, got %s", got.RemainingAmount)
	}
	if !got.ExpensesAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected expenses 50, got %s", got.ExpensesAmount)
	}
	if got.Household.UrgentCount != 1 || got.Household.PaidCount != 1 || got.Household.NormalUnpaidCount != 0 {
		t.Fatalf("unexpected household buckets: %+v", got.Household)
	}
	if got.Individual.NormalUnpaidCount != 1 || got.Individual.PaidCount != 0 || got.Individual.UrgentCount != 0 {
		t.Fatalf("unexpected individual buckets: %+v", got.Individual)
	}

	// Предыдущий период пуст, рост с нуля трактуется как 100%.
	if got.RemainingChange != 100 || got.ExpensesChange != 100 {
		t.Fatalf("unexpected changes: %+v", got)
	}
}

// TestSummarizeBucketInvariants проверяет согласованность счетчиков.
func TestSummarizeBucketInvariants(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()

	bills := []models.Bill{
		{IsShared: true, IsPaid: true, DueDate: now},
		{IsShared: true, DueDate: now.AddDate(0, 0, 1)},
		{IsShared: true, DueDate: now.AddDate(0, 0, 2)},
		{IsShared: true, DueDate: now.AddDate(0, 0, 30)},
		{IsShared: true, DueDate: now.AddDate(0, 0, -5)},
	}

	got := Summarize(bills, nil, userID, now)
	unpaid := got.Household.UrgentCount + got.Household.NormalUnpaidCount
	if unpaid != 4 {
		t.Fatalf("expected 4 unpaid, got %d", unpaid)
	}
	if got.Household.PaidCount+unpaid != len(bills) {
		t.Fatalf("expected buckets to cover all %d bills, got %+v", len(bills), got.Household)
	}
}

// TestSummarizeChangeAgainstPrevious проверяет сравнение с прошлым окном.
func TestSummarizeChangeAgainstPrevious(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()

	current := []models.Bill{
		{IsShared: true, Amount: decimal.NewFromInt(150), DueDate: now},
	}
	previous := []models.Bill{
		{IsShared: true, Amount: decimal.NewFromInt(100), DueDate: now.AddDate(0, 0, -40)},
		{IsShared: true, Amount: decimal.NewFromInt(500), IsPaid: true, DueDate: now.AddDate(0, 0, -41)},
	}

	got := Summarize(current, previous, userID, now)
	if got.RemainingChange != 50 {
		t.Fatalf("expected +50%% change, got %v", got.RemainingChange)
	}
}
