// Package summary считает сводку по счетам домохозяйства: остатки,
// изменение к предыдущему периоду и распределение по статусам.
package summary

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/household-bills/backend/internal/models"
)

const dateLayout = "2006-01-02"

// urgentHorizon — счет без оплаты считается срочным, если срок
// наступает в ближайшие три дня включительно.
const urgentHorizon = 3

var (
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidWindow     = errors.New("window end before start")
)

// Window задает включительный диапазон дат агрегации.
type Window struct {
	From time.Time
	To   time.Time
}

// ResolveWindow разбирает границы окна из query-параметров. Отсутствующая
// граница заменяется широким диапазоном "сегодня минус год / плюс год",
// чтобы текущие счета всегда попадали в выборку.
func ResolveWindow(fromParam, toParam string, now time.Time) (Window, error) {
	window := Window{
		From: now.AddDate(-1, 0, 0),
		To:   now.AddDate(1, 0, 0),
	}

	if trimmed := strings.TrimSpace(fromParam); trimmed != "" {
		parsed, err := time.Parse(dateLayout, trimmed)
		if err != nil {
			return Window{}, ErrInvalidDateFormat
		}
		window.From = parsed
	}

	if trimmed := strings.TrimSpace(toParam); trimmed != "" {
		parsed, err := time.Parse(dateLayout, trimmed)
		if err != nil {
			return Window{}, ErrInvalidDateFormat
		}
		window.To = parsed
	}

	if window.To.Before(window.From) {
		return Window{}, ErrInvalidWindow
	}

	return window, nil
}

// Days возвращает длину окна в днях, обе границы включительно.
func (w Window) Days() int {
	return int(w.To.Sub(w.From).Hours()/24) + 1
}

// Previous возвращает предыдущее окно той же длины для сравнения.
func (w Window) Previous() Window {
	days := w.Days()
	return Window{
		From: w.From.AddDate(0, 0, -days),
		To:   w.To.AddDate(0, 0, -days),
	}
}

// StatusBuckets — количество счетов по статусам, без сумм.
type StatusBuckets struct {
	PaidCount         int
	NormalUnpaidCount int
	UrgentCount       int
}

// Summary — результат агрегации за окно.
// Remaining* относится к общим счетам домохозяйства, Expenses* — к личным
// счетам запрашивающего пользователя.
type Summary struct {
	RemainingAmount decimal.Decimal
	RemainingChange float64
	ExpensesAmount  decimal.Decimal
	ExpensesChange  float64
	Household       StatusBuckets
	Individual      StatusBuckets
}

// Summarize считает сводку по снимку счетов текущего окна и счетам
// предыдущего окна той же длины. Из входа выделяются общие счета
// домохозяйства и личные счета плательщика userID; срочность меряется
// от момента now, а не от границ окна.
func Summarize(current, previous []models.Bill, userID uuid.UUID, now time.Time) Summary {
	household, individual := split(current, userID)
	prevHousehold, prevIndividual := split(previous, userID)

	householdTotal := outstanding(household)
	individualTotal := outstanding(individual)

	return Summary{
		RemainingAmount: householdTotal,
		RemainingChange: PercentChange(householdTotal, outstanding(prevHousehold)),
		ExpensesAmount:  individualTotal,
		ExpensesChange:  PercentChange(individualTotal, outstanding(prevIndividual)),
		Household:       countBuckets(household, now),
		Individual:      countBuckets(individual, now),
	}
}

// PercentChange возвращает изменение в процентах к предыдущему значению.
// Ноль к нулю дает 0, рост с нуля трактуется как полные 100%: деления
// на ноль нет, но переход "из ничего во что-то" все равно виден.
func PercentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}

	return current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}

// split делит снимок на общие счета и личные счета плательщика.
func split(bills []models.Bill, userID uuid.UUID) (household, individual []models.Bill) {
	for _, bill := range bills {
		switch {
		case bill.IsShared:
			household = append(household, bill)
		case bill.PaidBy == userID:
			individual = append(individual, bill)
		}
	}
	return household, individual
}

// outstanding суммирует только неоплаченные счета.
func outstanding(bills []models.Bill) decimal.Decimal {
	total := decimal.Zero
	for _, bill := range bills {
		if !bill.IsPaid {
			total = total.Add(bill.Amount)
		}
	}
	return total
}

func countBuckets(bills []models.Bill, now time.Time) StatusBuckets {
	buckets := StatusBuckets{}
	threshold := now.AddDate(0, 0, urgentHorizon)

	for _, bill := range bills {
		switch {
		case bill.IsPaid:
			buckets.PaidCount++
		case !bill.DueDate.After(threshold):
			buckets.UrgentCount++
		default:
			buckets.NormalUnpaidCount++
		}
	}

	return buckets
}
