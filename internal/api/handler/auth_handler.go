package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gemach/admin-console/internal/api/metrics"
	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
)

// AuditSink receives audit entries off the request path.
type AuditSink interface {
	Enqueue(entry domain.AuditEntry)
}

type AuthHandler struct {
	authService ports.AuthService
	audit       AuditSink
}

func NewAuthHandler(authService ports.AuthService, audit AuditSink) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type listQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Register handles POST /auth/register and signs the new account in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	// Privileged accounts come from the seed, never from self-registration.
	if req.Role != "" && req.Role != domain.RoleVolunteer {
		h.record(c, domain.AuditRegister, req.Email, nil, domain.ErrForbidden)
		return domain.ErrForbidden
	}

	res, err := h.authService.Register(c.Request().Context(), req)
	h.record(c, domain.AuditRegister, req.Email, res, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	h.record(c, domain.AuditLogin, req.Email, res, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Refresh handles POST /auth/refresh. The presented refresh token is
// consumed and a new pair returned.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	h.record(c, domain.AuditRefresh, "", res, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Logout handles POST /auth/logout (bearer). Without a refreshToken in the
// body every refresh token of the caller is revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req logoutRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	err = h.authService.Logout(c.Request().Context(), userID, req.RefreshToken)
	email, _ := c.Get(CtxEmail).(string)
	h.record(c, domain.AuditLogout, email, &domain.AuthResult{User: &domain.User{ID: userID}}, err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile handles GET /auth/profile (bearer).
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /users (admin).
func (h *AuthHandler) ListUsers(c echo.Context) error {
	var q listQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	page, err := h.authService.ListUsers(c.Request().Context(), q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *AuthHandler) record(c echo.Context, action domain.AuditAction, email string, res *domain.AuthResult, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(string(action), result).Inc()

	if h.audit == nil {
		return
	}
	entry := domain.AuditEntry{
		Action:  action,
		Email:   email,
		Success: err == nil,
		IP:      c.RealIP(),
	}
	if res != nil && res.User != nil {
		entry.UserID = res.User.ID
		if entry.Email == "" {
			entry.Email = res.User.Email
		}
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	h.audit.Enqueue(entry)
}
