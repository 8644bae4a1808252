package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/household-bills/backend/internal/models"
	"example.com/household-bills/backend/internal/summary"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type BillResponse struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	DueDate       string  `json:"due_date"`
	IsPaid        bool    `json:"is_paid"`
	PaidAt        *string `json:"paid_at,omitempty"`
	IsShared      bool    `json:"is_shared"`
	PaidBy        string  `json:"paid_by"`
	CreatedBy     string  `json:"created_by"`
	ProofImageURL *string `json:"proof_image_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toBillResponse(bill models.Bill) BillResponse {
	var paidAt *string
	if bill.PaidAt != nil {
		formatted := bill.PaidAt.Format(timeLayout)
		paidAt = &formatted
	}

	return BillResponse{
		ID:            bill.ID.String(),
		Description:   bill.Description,
		Amount:        bill.Amount.InexactFloat64(),
		DueDate:       bill.DueDate.Format(dateLayout),
		IsPaid:        bill.IsPaid,
		PaidAt:        paidAt,
		IsShared:      bill.IsShared,
		PaidBy:        bill.PaidBy.String(),
		CreatedBy:     bill.CreatedBy.String(),
		ProofImageURL: bill.ProofImageURL,
		CreatedAt:     bill.CreatedAt.Format(timeLayout),
		UpdatedAt:     bill.UpdatedAt.Format(timeLayout),
	}
}

// resolveWindow разбирает границы окна из query-параметров запроса.
func resolveWindow(c echo.Context) (summary.Window, error) {
	return summary.ResolveWindow(c.QueryParam("from"), c.QueryParam("to"), time.Now())
}

func windowErrorMessage(err error) string {
	if errors.Is(err, summary.ErrInvalidWindow) {
		return "to must not be before from"
	}
	return "invalid date format, expected YYYY-MM-DD"
}

func parsePagination(c echo.Context, defaultLimit, maxLimit int) (int, int, error) {
	limit := defaultLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		if parsed > maxLimit {
			parsed = maxLimit
		}
		limit = parsed
	}

	offset := 0
	if raw := strings.TrimSpace(c.QueryParam("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, errors.New("invalid offset")
		}
		offset = parsed
	}

	return limit, offset, nil
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
}

func conflict(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
