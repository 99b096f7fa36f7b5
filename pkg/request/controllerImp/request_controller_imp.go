package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carrierpay/pkg/request/controller"
	"carrierpay/pkg/request/service"
	"carrierpay/pkg/respond"
)

type requestCtrl struct{ s service.RequestService }

func New(s service.RequestService) controller.RequestController { return &requestCtrl{s: s} }

func (h *requestCtrl) List(c echo.Context) error {
	out, err := h.s.Report(c.Request().Context())
	if err != nil {
		if respond.IsNoData(err) {
			return respond.NoData(c)
		}
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *requestCtrl) Create(c echo.Context) error {
	var in service.CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	out, err := h.s.Create(c.Request().Context(), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *requestCtrl) Patch(c echo.Context) error {
	var in service.RequestPatch
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	row, rev, err := h.s.Update(c.Request().Context(), c.Param("row_id"), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"row": row, "revision": rev})
}

// Report is the read-only view every role gets.
func (h *requestCtrl) Report(c echo.Context) error {
	return h.List(c)
}
