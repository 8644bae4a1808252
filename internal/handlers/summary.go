package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/household-bills/backend/internal/auth"
	"example.com/household-bills/backend/internal/models"
	"example.com/household-bills/backend/internal/repository"
	"example.com/household-bills/backend/internal/summary"
)

type SummaryHandler struct {
	Bills *repository.BillRepository
}

// NewSummaryHandler создает обработчик сводки по счетам.
func NewSummaryHandler(bills *repository.BillRepository) *SummaryHandler {
	return &SummaryHandler{Bills: bills}
}

type SummaryBuckets struct {
	PaidCount         int `json:"paidCount"`
	NormalUnpaidCount int `json:"normalUnpaidCount"`
	UrgentCount       int `json:"urgentCount"`
}

type SummaryResponse struct {
	RemainingAmount float64        `json:"remainingAmount"`
	RemainingChange float64        `json:"remainingChange"`
	ExpensesAmount  float64        `json:"expensesAmount"`
	ExpensesChange  float64        `json:"expensesChange"`
	Household       SummaryBuckets `json:"household"`
	Individual      SummaryBuckets `json:"individual"`
}

// Get считает сводку за окно и за предыдущее окно той же длины.
func (h *SummaryHandler) Get(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	window, err := resolveWindow(c)
	if err != nil {
		return badRequest(c, windowErrorMessage(err))
	}

	ctx := c.Request().Context()

	current, err := h.fetchWindow(ctx, identity, window)
	if err != nil {
		return serverError(c)
	}

	previous, err := h.fetchWindow(ctx, identity, window.Previous())
	if err != nil {
		return serverError(c)
	}

	result := summary.Summarize(current, previous, identity.UserID, time.Now())

	return c.JSON(http.StatusOK, SummaryResponse{
		RemainingAmount: result.RemainingAmount.InexactFloat64(),
		RemainingChange: result.RemainingChange,
		ExpensesAmount:  result.ExpensesAmount.InexactFloat64(),
		ExpensesChange:  result.ExpensesChange,
		Household:       toSummaryBuckets(result.Household),
		Individual:      toSummaryBuckets(result.Individual),
	})
}

// fetchWindow собирает снимок счетов окна: общие плюс личные вызывающего.
func (h *SummaryHandler) fetchWindow(ctx context.Context, identity auth.Identity, window summary.Window) ([]models.Bill, error) {
	shared, err := h.Bills.ListShared(ctx, identity.HouseholdID, window.From, window.To)
	if err != nil {
		return nil, err
	}

	individual, err := h.Bills.ListIndividual(ctx, identity.HouseholdID, identity.UserID, window.From, window.To)
	if err != nil {
		return nil, err
	}

	return append(shared, individual...), nil
}

func toSummaryBuckets(buckets summary.StatusBuckets) SummaryBuckets {
	return SummaryBuckets{
		PaidCount:         buckets.PaidCount,
		NormalUnpaidCount: buckets.NormalUnpaidCount,
		UrgentCount:       buckets.UrgentCount,
	}
}
