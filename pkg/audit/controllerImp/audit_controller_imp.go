package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"carrierpay/pkg/audit"
)

const defaultLimit = 100

type AuditCtrl struct{ trail *audit.Trail }

func New(t *audit.Trail) *AuditCtrl { return &AuditCtrl{trail: t} }

// List returns recent access events, newest first (?email=&limit=).
func (h *AuditCtrl) List(c echo.Context) error {
	limit := defaultLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	out, err := h.trail.Recent(c.Request().Context(), c.QueryParam("email"), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}
