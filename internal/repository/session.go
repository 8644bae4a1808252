package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/household-bills/backend/internal/models"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository создает репозиторий сессий.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create сохраняет новую сессию.
func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		session.ID, session.UserID, session.TokenHash, session.ExpiresAt,
	)
	return err
}

// GetByTokenHash возвращает сессию по хэшу токена из cookie.
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (models.Session, error) {
	var session models.Session
	var revokedAt *time.Time

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		 FROM sessions
		 WHERE token_hash = $1`,
		tokenHash,
	).Scan(&session.ID, &session.UserID, &session.TokenHash, &session.ExpiresAt, &session.CreatedAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session, ErrNotFound
		}
		return session, err
	}

	session.RevokedAt = revokedAt
	return session, nil
}

// Revoke помечает сессию отозванной.
func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE sessions
		 SET revoked_at = NOW()
		 WHERE id = $1 AND revoked_at IS NULL`,
		id,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteExpired удаляет истекшие и отозванные сессии.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM sessions
		 WHERE expires_at < NOW() OR revoked_at IS NOT NULL`,
	)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}
