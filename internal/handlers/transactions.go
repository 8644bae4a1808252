package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"example.com/household-bills/backend/internal/auth"
	"example.com/household-bills/backend/internal/models"
	"example.com/household-bills/backend/internal/repository"
)

type TransactionHandler struct {
	Bills *repository.BillRepository
}

// NewTransactionHandler создает обработчик истории оплат.
func NewTransactionHandler(bills *repository.BillRepository) *TransactionHandler {
	return &TransactionHandler{Bills: bills}
}

type TransactionsResponse struct {
	Transactions []BillResponse `json:"transactions"`
}

// List возвращает оплаченные счета домохозяйства, свежие сверху.
func (h *TransactionHandler) List(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	window, err := resolveWindow(c)
	if err != nil {
		return badRequest(c, windowErrorMessage(err))
	}

	bills, err := h.Bills.ListPaidBetween(c.Request().Context(), identity.HouseholdID, window.From, window.To)
	if err != nil {
		return serverError(c)
	}

	response := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		response = append(response, toBillResponse(bill))
	}

	return c.JSON(http.StatusOK, TransactionsResponse{Transactions: response})
}

// ExportCSV выгружает историю оплат в CSV-файл.
func (h *TransactionHandler) ExportCSV(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	window, err := resolveWindow(c)
	if err != nil {
		return badRequest(c, windowErrorMessage(err))
	}

	bills, err := h.Bills.ListPaidBetween(c.Request().Context(), identity.HouseholdID, window.From, window.To)
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeTransactionsCSV(writer, bills); err != nil {
		return serverError(c)
	}

	filename := "transactions-" + window.From.Format(dateLayout) + "-" + window.To.Format(dateLayout) + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func writeTransactionsCSV(writer *csv.Writer, bills []models.Bill) error {
	header := []string{"id", "description", "amount", "due_date", "paid_at", "shared", "paid_by", "proof_image_url"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, bill := range bills {
		paidAt := ""
		if bill.PaidAt != nil {
			paidAt = bill.PaidAt.Format(timeLayout)
		}

		proof := ""
		if bill.ProofImageURL != nil {
			proof = *bill.ProofImageURL
		}

		record := []string{
			bill.ID.String(),
			bill.Description,
			bill.Amount.StringFixed(2),
			bill.DueDate.Format(dateLayout),
			paidAt,
			strconv.FormatBool(bill.IsShared),
			bill.PaidBy.String(),
			proof,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
