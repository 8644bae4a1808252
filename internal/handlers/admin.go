package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/household-bills/backend/internal/auth"
	"example.com/household-bills/backend/internal/phone"
	"example.com/household-bills/backend/internal/repository"
)

type AdminHandler struct {
	Repo        *repository.AdminRepository
	Users       *repository.UserRepository
	Households  *repository.HouseholdRepository
	PhoneRegion string
}

// NewAdminHandler создает обработчик админских эндпоинтов.
func NewAdminHandler(repo *repository.AdminRepository, users *repository.UserRepository, households *repository.HouseholdRepository, phoneRegion string) *AdminHandler {
	return &AdminHandler{
		Repo:        repo,
		Users:       users,
		Households:  households,
		PhoneRegion: phoneRegion,
	}
}

type AdminUserResponse struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Name        *string   `json:"name,omitempty"`
	HouseholdID uuid.UUID `json:"household_id"`
	Registered  bool      `json:"registered"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

type AdminUsersResponse struct {
	Total int                 `json:"total"`
	Users []AdminUserResponse `json:"users"`
}

type CreateUserRequest struct {
	PhoneNumber string    `json:"phone_number" validate:"required"`
	Name        *string   `json:"name" validate:"omitempty,max=100"`
	HouseholdID uuid.UUID `json:"household_id" validate:"required"`
}

type CreateHouseholdRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AdminUsageDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AdminUsageResponse struct {
	Users          int             `json:"users"`
	Households     int             `json:"households"`
	Bills          int             `json:"bills"`
	PaidBills      int             `json:"paid_bills"`
	ActiveSessions int             `json:"active_sessions"`
	BillsByDay     []AdminUsageDay `json:"bills_by_day"`
}

// ListUsers возвращает список пользователей для админки.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset, err := parsePagination(c, 50, 200)
	if err != nil {
		return badRequest(c, err.Error())
	}

	users, err := h.Repo.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return serverError(c)
	}

	total, err := h.Repo.CountUsers(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	response := make([]AdminUserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, AdminUserResponse{
			ID:          user.ID,
			PhoneNumber: user.PhoneNumber,
			Name:        user.Name,
			HouseholdID: user.HouseholdID,
			Registered:  user.Registered,
			CreatedAt:   user.CreatedAt.Format(timeLayout),
			UpdatedAt:   user.UpdatedAt.Format(timeLayout),
		})
	}

	return c.JSON(http.StatusOK, AdminUsersResponse{
		Total: total,
		Users: response,
	})
}

// CreateUser заводит участника без пароля: пароль он поставит сам
// через register по своему номеру телефона.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
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

	if _, err := h.Households.GetByID(c.Request().Context(), req.HouseholdID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return badRequest(c, "household not found")
		}
		return serverError(c)
	}

	user, err := h.Users.Create(c.Request().Context(), normalized, normalizeName(req.Name), req.HouseholdID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "phone number already registered")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return badRequest(c, "household not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toAuthUser(user))
}

// CreateHousehold заводит новое домохозяйство.
func (h *AdminHandler) CreateHousehold(c echo.Context) error {
	var req CreateHouseholdRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}

	household, err := h.Households.Create(c.Request().Context(), name)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, HouseholdResponse{ID: household.ID, Name: household.Name})
}

// Usage возвращает агрегированную статистику сервиса.
func (h *AdminHandler) Usage(c echo.Context) error {
	days := 30
	if raw := strings.TrimSpace(c.QueryParam("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid days")
		}
		if parsed > 365 {
			parsed = 365
		}
		days = parsed
	}

	stats, err := h.Repo.UsageStats(c.Request().Context(), days)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid days")
		}
		return serverError(c)
	}

	byDay := make([]AdminUsageDay, 0, len(stats.BillsByDay))
	for _, day := range stats.BillsByDay {
		byDay = append(byDay, AdminUsageDay{
			Date:  day.Day.Format(dateLayout),
			Count: day.Count,
		})
	}

	return c.JSON(http.StatusOK, AdminUsageResponse{
		Users:          stats.Users,
		Households:     stats.Households,
		Bills:          stats.Bills,
		PaidBills:      stats.PaidBills,
		ActiveSessions: stats.ActiveSessions,
		BillsByDay:     byDay,
	})
}

// AdminMiddleware ограничивает доступ к админским роутам по номеру телефона.
func AdminMiddleware(users *repository.UserRepository, phones []string, phoneRegion string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(phones))
	for _, raw := range phones {
		normalized, err := phone.Normalize(raw, phoneRegion)
		if err != nil {
			continue
		}
		allowed[normalized] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := auth.IdentityFromContext(c)
			if !ok {
				return unauthorized(c)
			}

			if len(allowed) == 0 {
				return forbidden(c)
			}

			user, err := users.GetByID(c.Request().Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return forbidden(c)
				}
				return serverError(c)
			}

			if _, ok := allowed[user.PhoneNumber]; !ok {
				return forbidden(c)
			}

			return next(c)
		}
	}
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
