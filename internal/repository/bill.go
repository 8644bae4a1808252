package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/household-bills/backend/internal/models"
)

type BillRepository struct {
	db *pgxpool.Pool
}

// BillPatch описывает частичное изменение счета. nil-поле не трогается.
type BillPatch struct {
	Description   *string
	Amount        *decimal.Decimal
	ProofImageURL *string
}

// NewBillRepository создает репозиторий счетов.
func NewBillRepository(db *pgxpool.Pool) *BillRepository {
	return &BillRepository{db: db}
}

const billColumns = `id, household_id, description, amount, due_date, is_paid, paid_at, is_shared, paid_by, created_by, proof_image_url, created_at, updated_at`

// ListShared возвращает общие счета домохозяйства в окне дат.
func (r *BillRepository) ListShared(ctx context.Context, householdID uuid.UUID, from, to time.Time) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+`
		 FROM bills
		 WHERE household_id = $1 AND is_shared AND due_date BETWEEN $2 AND $3
		 ORDER BY due_date`,
		householdID, from, to,
	)
}

// ListIndividual возвращает личные счета плательщика в окне дат.
func (r *BillRepository) ListIndividual(ctx context.Context, householdID, payerID uuid.UUID, from, to time.Time) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+`
		 FROM bills
		 WHERE household_id = $1 AND NOT is_shared AND paid_by = $2 AND due_date BETWEEN $3 AND $4
		 ORDER BY due_date`,
		householdID, payerID, from, to,
	)
}

// ListPaidBetween возвращает оплаченные счета домохозяйства по дате оплаты.
func (r *BillRepository) ListPaidBetween(ctx context.Context, householdID uuid.UUID, from, to time.Time) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+`
		 FROM bills
		 WHERE household_id = $1 AND is_paid AND paid_at BETWEEN $2 AND $3
		 ORDER BY paid_at DESC`,
		householdID, from, to,
	)
}

// GetByID возвращает счет по идентификатору.
func (r *BillRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Bill, error) {
	var bill models.Bill

	err := r.db.QueryRow(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = $1`,
		id,
	).Scan(billFields(&bill)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bill, ErrNotFound
		}
		return bill, err
	}

	return bill, nil
}

// MarkPaid помечает счет оплаченным. Уже оплаченный счет не перезаписывается.
func (r *BillRepository) MarkPaid(ctx context.Context, id, payerID uuid.UUID, proofImageURL *string) (models.Bill, error) {
	var bill models.Bill

	err := r.db.QueryRow(ctx,
		`UPDATE bills
		 SET is_paid = true,
		     paid_at = now(),
		     paid_by = $2,
		     proof_image_url = COALESCE($3, proof_image_url),
		     updated_at = now()
		 WHERE id = $1 AND NOT is_paid
		 RETURNING `+billColumns,
		id, payerID, proofImageURL,
	).Scan(billFields(&bill)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Либо счета нет, либо он уже оплачен.
			return r.GetByID(ctx, id)
		}
		return bill, err
	}

	return bill, nil
}

// Update применяет минимальный дифф к счету. Пустой дифф не пишет в базу.
func (r *BillRepository) Update(ctx context.Context, id uuid.UUID, patch BillPatch) (models.Bill, error) {
	var bill models.Bill

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return bill, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(billFields(&bill)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bill, ErrNotFound
		}
		return bill, err
	}

	sets, args := buildBillDiff(bill, patch)
	if len(sets) == 0 {
		return bill, tx.Commit(ctx)
	}

	args = append([]interface{}{id}, args...)
	query := fmt.Sprintf(
		"UPDATE bills SET %s, updated_at = now() WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), billColumns,
	)

	err = tx.QueryRow(ctx, query, args...).Scan(billFields(&bill)...)
	if err != nil {
		return bill, err
	}

	return bill, tx.Commit(ctx)
}

// buildBillDiff собирает SET-клаузы только для реально изменившихся полей.
func buildBillDiff(current models.Bill, patch BillPatch) ([]string, []interface{}) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	// Первый аргумент запроса занят id счета.
	next := func() int { return len(args) + 2 }

	if patch.Description != nil && *patch.Description != current.Description {
		sets = append(sets, fmt.Sprintf("description = $%d", next()))
		args = append(args, *patch.Description)
	}

	if patch.Amount != nil && !patch.Amount.Equal(current.Amount) {
		sets = append(sets, fmt.Sprintf("amount = $%d", next()))
		args = append(args, *patch.Amount)
	}

	if patch.ProofImageURL != nil && (current.ProofImageURL == nil || *current.ProofImageURL != *patch.ProofImageURL) {
		sets = append(sets, fmt.Sprintf("proof_image_url = $%d", next()))
		args = append(args, *patch.ProofImageURL)
	}

	return sets, args
}

func (r *BillRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Bill, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := make([]models.Bill, 0)
	for rows.Next() {
		var bill models.Bill
		if err := rows.Scan(billFields(&bill)...); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bills, nil
}

func billFields(bill *models.Bill) []interface{} {
	return []interface{}{
		&bill.ID,
		&bill.HouseholdID,
		&bill.Description,
		&bill.Amount,
		&bill.DueDate,
		&bill.IsPaid,
		&bill.PaidAt,
		&bill.IsShared,
		&bill.PaidBy,
		&bill.CreatedBy,
		&bill.ProofImageURL,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	}
}
