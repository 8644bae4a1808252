package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/household-bills/backend/internal/auth"
	"example.com/household-bills/backend/internal/models"
	"example.com/household-bills/backend/internal/repository"
)

type BillHandler struct {
	Bills *repository.BillRepository
}

// NewBillHandler создает обработчик операций со счетами.
func NewBillHandler(bills *repository.BillRepository) *BillHandler {
	return &BillHandler{Bills: bills}
}

type BillsResponse struct {
	Bills []BillResponse `json:"bills"`
}

type MarkPaidRequest struct {
	ProofImageURL *string `json:"proof_image_url" validate:"omitempty,url"`
}

type UpdateBillRequest struct {
	Description   *string `json:"description" validate:"omitempty,max=200"`
	Amount        *string `json:"amount"`
	ProofImageURL *string `json:"proof_image_url" validate:"omitempty,url"`
}

// List возвращает общие счета домохозяйства вместе с личными счетами
// запрашивающего, отсортированные по сроку оплаты.
func (h *BillHandler) List(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	window, err := resolveWindow(c)
	if err != nil {
		return badRequest(c, windowErrorMessage(err))
	}

	shared, err := h.Bills.ListShared(c.Request().Context(), identity.HouseholdID, window.From, window.To)
	if err != nil {
		return serverError(c)
	}

	individual, err := h.Bills.ListIndividual(c.Request().Context(), identity.HouseholdID, identity.UserID, window.From, window.To)
	if err != nil {
		return serverError(c)
	}

	merged := append(shared, individual...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].DueDate.Before(merged[j].DueDate)
	})

	response := make([]BillResponse, 0, len(merged))
	for _, bill := range merged {
		response = append(response, toBillResponse(bill))
	}

	return c.JSON(http.StatusOK, BillsResponse{Bills: response})
}

// MarkPaid помечает счет оплаченным с опциональным чеком.
// Повторная оплата — no-op, возвращается текущее состояние.
func (h *BillHandler) MarkPaid(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid bill id")
	}

	var req MarkPaidRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	bill, err := h.authorizeBill(c, billID, identity)
	if err != nil {
		return err
	}

	if bill.IsPaid {
		return c.JSON(http.StatusOK, toBillResponse(bill))
	}

	updated, err := h.Bills.MarkPaid(c.Request().Context(), billID, identity.UserID, req.ProofImageURL)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "bill not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toBillResponse(updated))
}

// Update применяет частичное изменение счета. Патч без изменений
// не порождает записи в базу.
func (h *BillHandler) Update(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid bill id")
	}

	var req UpdateBillRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	patch, err := buildPatch(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if _, err := h.authorizeBill(c, billID, identity); err != nil {
		return err
	}

	updated, err := h.Bills.Update(c.Request().Context(), billID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "bill not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toBillResponse(updated))
}

// authorizeBill проверяет принадлежность счета домохозяйству вызывающего.
func (h *BillHandler) authorizeBill(c echo.Context, billID uuid.UUID, identity auth.Identity) (models.Bill, error) {
	bill, err := h.Bills.GetByID(c.Request().Context(), billID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return bill, echo.NewHTTPError(http.StatusNotFound, "bill not found")
		}
		return bill, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if err := billAccess(bill, identity.HouseholdID); err != nil {
		return bill, echo.NewHTTPError(http.StatusForbidden, "access denied")
	}

	return bill, nil
}

// billAccess решает, доступен ли счет домохозяйству. Чужое
// домохозяйство — это ErrForbidden, а не ErrNotFound: счет
// существует, доступа нет.
func billAccess(bill models.Bill, householdID uuid.UUID) error {
	if bill.HouseholdID != householdID {
		return repository.ErrForbidden
	}

	return nil
}

func buildPatch(req UpdateBillRequest) (repository.BillPatch, error) {
	patch := repository.BillPatch{
		Description:   req.Description,
		ProofImageURL: req.ProofImageURL,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return patch, errors.New("invalid amount")
		}
		if amount.IsNegative() {
			return patch, errors.New("amount must not be negative")
		}
		patch.Amount = &amount
	}

	return patch, nil
}
