package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carrierpay/pkg/respond"
	"carrierpay/pkg/schedule/controller"
	"carrierpay/pkg/schedule/service"
)

type SchedCtrl struct{ s service.ScheduleService }

func New(s service.ScheduleService) controller.ScheduleController { return &SchedCtrl{s} }

func (h *SchedCtrl) Summary(c echo.Context) error {
	out, err := h.s.Summary(c.Request().Context())
	if err != nil {
		if respond.IsNoData(err) {
			return respond.NoData(c)
		}
		return respond.Error(c, err)
	}
	if len(out.Shipments) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"shipments": out.Shipments, "revision": out.Revision, "info": "No payment requests found."})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SchedCtrl) Totals(c echo.Context) error {
	var body struct {
		MBLs []string `json:"mbls"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	out, err := h.s.Totals(c.Request().Context(), body.MBLs)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SchedCtrl) Schedule(c echo.Context) error {
	var in service.ScheduleInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad json"})
	}
	out, err := h.s.Schedule(c.Request().Context(), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
