package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/household-bills/backend/internal/models"
)

type HouseholdRepository struct {
	db *pgxpool.Pool
}

// NewHouseholdRepository создает репозиторий домохозяйств.
func NewHouseholdRepository(db *pgxpool.Pool) *HouseholdRepository {
	return &HouseholdRepository{db: db}
}

// Create заводит новое домохозяйство.
func (r *HouseholdRepository) Create(ctx context.Context, name string) (models.Household, error) {
	var household models.Household

	err := r.db.QueryRow(ctx,
		`INSERT INTO households (name)
		 VALUES ($1)
		 RETURNING id, name, created_at`,
		name,
	).Scan(&household.ID, &household.Name, &household.CreatedAt)
	if err != nil {
		return household, err
	}

	return household, nil
}

// GetByID возвращает домохозяйство по идентификатору.
func (r *HouseholdRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Household, error) {
	var household models.Household

	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at
		 FROM households
		 WHERE id = $1`,
		id,
	).Scan(&household.ID, &household.Name, &household.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return household, ErrNotFound
		}
		return household, err
	}

	return household, nil
}
