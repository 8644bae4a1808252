package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/household-bills/backend/internal/auth"
	"example.com/household-bills/backend/internal/models"
	"example.com/household-bills/backend/internal/phone"
	"example.com/household-bills/backend/internal/repository"
)

type AuthHandler struct {
	Users        *repository.UserRepository
	Households   *repository.HouseholdRepository
	Sessions     *repository.SessionRepository
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
	PhoneRegion  string
}

// NewAuthHandler создает обработчик авторизации.
func NewAuthHandler(users *repository.UserRepository, households *repository.HouseholdRepository, sessions *repository.SessionRepository, cookieName string, cookieSecure bool, sessionTTL time.Duration, phoneRegion string) *AuthHandler {
	return &AuthHandler{
		Users:        users,
		Households:   households,
		Sessions:     sessions,
		CookieName:   cookieName,
		CookieSecure: cookieSecure,
		SessionTTL:   sessionTTL,
		PhoneRegion:  phoneRegion,
	}
}

type RegisterRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type AuthUser struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Name        *string   `json:"name,omitempty"`
	HouseholdID uuid.UUID `json:"household_id"`
}

type AuthResponse struct {
	User AuthUser `json:"user"`
}

type MeResponse struct {
	User      AuthUser          `json:"user"`
	Household HouseholdResponse `json:"household"`
}

type HouseholdResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Register устанавливает пароль предварительно заведенному участнику.
// Новые пользователи здесь не создаются: неизвестный телефон отклоняется.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	normalized, err := phone.Normalize(req.PhoneNumber, h.PhoneRegion)
	if err != nil {
		return badRequest(c, "invalid phone number")
	}

	user, err := h.Users.GetByPhone(c.Request().Context(), normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "phone number not authorized, contact the administrator"})
		}
		return serverError(c)
	}

	if user.HasPassword() {
		return conflict(c, "password already set, use login")
	}

	passwordHash, err := auth.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		return serverError(c)
	}

	user, err = h.Users.SetPassword(c.Request().Context(), user.ID, passwordHash)
	if err != nil {
		return serverError(c)
	}

	if err := h.openSession(c, user); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, AuthResponse{User: toAuthUser(user)})
}

// Login выполняет вход по телефону и паролю.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	normalized, err := phone.Normalize(req.PhoneNumber, h.PhoneRegion)
	if err != nil {
		return badRequest(c, "invalid phone number")
	}

	user, err := h.Users.GetByPhone(c.Request().Context(), normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c)
		}
		return serverError(c)
	}

	if !user.HasPassword() {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "password not set, register first"})
	}

	if err = auth.ComparePassword(*user.PasswordHash, strings.TrimSpace(req.Password)); err != nil {
		return unauthorized(c)
	}

	// Попутная уборка: протухшие сессии не копятся между входами.
	if _, err := h.Sessions.DeleteExpired(c.Request().Context()); err != nil {
		slog.Warn("delete expired sessions", slog.String("error", err.Error()))
	}

	if err := h.openSession(c, user); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, AuthResponse{User: toAuthUser(user)})
}

// Logout отзывает текущую сессию и чистит cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(h.CookieName)
	if err == nil && cookie.Value != "" {
		session, err := h.Sessions.GetByTokenHash(c.Request().Context(), auth.HashToken(cookie.Value))
		if err == nil {
			if err := h.Sessions.Revoke(c.Request().Context(), session.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return serverError(c)
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return serverError(c)
		}
	}

	h.clearCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me возвращает данные текущего пользователя и его домохозяйства.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.Users.GetByID(c.Request().Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "user not found")
		}
		return serverError(c)
	}

	household, err := h.Households.GetByID(c.Request().Context(), user.HouseholdID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "household not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, MeResponse{
		User:      toAuthUser(user),
		Household: HouseholdResponse{ID: household.ID, Name: household.Name},
	})
}

func (h *AuthHandler) openSession(c echo.Context, user models.User) error {
	token, err := auth.NewSessionToken()
	if err != nil {
		return err
	}

	session := models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: auth.HashToken(token),
		ExpiresAt: time.Now().Add(h.SessionTTL),
	}

	if err := h.Sessions.Create(c.Request().Context(), session); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (h *AuthHandler) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toAuthUser(user models.User) AuthUser {
	return AuthUser{
		ID:          user.ID,
		PhoneNumber: user.PhoneNumber,
		Name:        user.Name,
		HouseholdID: user.HouseholdID,
	}
}
