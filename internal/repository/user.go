package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/household-bills/backend/internal/models"
)

type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, phone_number, password_hash, name, household_id, created_at, updated_at`

// Create заводит предварительно зарегистрированного участника без пароля.
func (r *UserRepository) Create(ctx context.Context, phoneNumber string, name *string, householdID uuid.UUID) (models.User, error) {
	var user models.User

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (phone_number, name, household_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		phoneNumber, name, householdID,
	).Scan(&user.ID, &user.PhoneNumber, &user.PasswordHash, &user.Name, &user.HouseholdID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return user, ErrConflict
			case "23503":
				return user, ErrNotFound
			}
		}
		return user, err
	}

	return user, nil
}

// GetByPhone возвращает пользователя по номеру телефона.
func (r *UserRepository) GetByPhone(ctx context.Context, phoneNumber string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phoneNumber)
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// SetPassword устанавливает пароль при первом входе участника.
func (r *UserRepository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) (models.User, error) {
	var user models.User

	err := r.db.QueryRow(ctx,
		`UPDATE users
		 SET password_hash = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, passwordHash,
	).Scan(&user.ID, &user.PhoneNumber, &user.PasswordHash, &user.Name, &user.HouseholdID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}

	return user, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (models.User, error) {
	var user models.User

	err := r.db.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.PhoneNumber, &user.PasswordHash, &user.Name, &user.HouseholdID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}

	return user, nil
}
