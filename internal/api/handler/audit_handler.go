package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
)

type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

type auditQuery struct {
	Action string `query:"action" validate:"omitempty,oneof=login register refresh logout"`
	UserID string `query:"userId"`
	Page   int    `query:"page" validate:"gte=0"`
	Limit  int    `query:"limit" validate:"gte=0"`
}

// List handles GET /audit-logs (admin).
func (h *AuditHandler) List(c echo.Context) error {
	var q auditQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	page, err := h.service.List(c.Request().Context(), ports.AuditFilter{
		Action: domain.AuditAction(q.Action),
		UserID: q.UserID,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
