package controllerImp

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"carrierpay/pkg/clock"
	"carrierpay/pkg/finance/controller"
	"carrierpay/pkg/finance/service"
	"carrierpay/pkg/respond"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type financeCtrl struct {
	s     service.FinanceService
	clock clock.Clock
}

func New(s service.FinanceService, c clock.Clock) controller.FinanceController {
	return &financeCtrl{s: s, clock: c}
}

// Due lists unpaid rows scheduled on ?on=today|tomorrow|YYYY-MM-DD.
func (h *financeCtrl) Due(c echo.Context) error {
	on, ok := clock.Resolve(h.clock, c.QueryParam("on"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "on must be today, tomorrow or YYYY-MM-DD"})
	}
	out, err := h.s.Due(c.Request().Context(), on)
	if err != nil {
		if respond.IsNoData(err) {
			return respond.NoData(c)
		}
		return respond.Error(c, err)
	}
	if len(out.Rows) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"on": out.On, "rows": out.Rows, "revision": out.Revision, "info": "No payments scheduled for the selected date."})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *financeCtrl) RecordPayments(c echo.Context) error {
	var in service.PaymentsInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	out, err := h.s.RecordPayments(c.Request().Context(), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *financeCtrl) All(c echo.Context) error {
	out, err := h.s.All(c.Request().Context())
	if err != nil {
		if respond.IsNoData(err) {
			return respond.NoData(c)
		}
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *financeCtrl) Export(c echo.Context) error {
	name, data, err := h.s.Export(c.Request().Context())
	if err != nil {
		return respond.Error(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Stream(http.StatusOK, xlsxMIME, bytes.NewReader(data))
}
