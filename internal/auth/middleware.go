package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/household-bills/backend/internal/repository"
)

const ContextIdentityKey = "identity"

// Identity описывает аутентифицированного участника домохозяйства.
type Identity struct {
	UserID      uuid.UUID
	HouseholdID uuid.UUID
}

// SessionMiddleware проверяет cookie сессии и сохраняет identity в контексте.
func SessionMiddleware(sessions *repository.SessionRepository, users *repository.UserRepository, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session cookie")
			}

			session, err := sessions.GetByTokenHash(c.Request().Context(), HashToken(cookie.Value))
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
			}

			if session.RevokedAt != nil || time.Now().After(session.ExpiresAt) {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			user, err := users.GetByID(c.Request().Context(), session.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "user lookup failed")
			}

			c.Set(ContextIdentityKey, Identity{UserID: user.ID, HouseholdID: user.HouseholdID})
			return next(c)
		}
	}
}

// IdentityFromContext извлекает identity пользователя из контекста.
func IdentityFromContext(c echo.Context) (Identity, bool) {
	value := c.Get(ContextIdentityKey)
	identity, ok := value.(Identity)
	return identity, ok
}
