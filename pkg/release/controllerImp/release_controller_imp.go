package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carrierpay/pkg/release/controller"
	"carrierpay/pkg/release/service"
	"carrierpay/pkg/respond"
)

type releaseCtrl struct{ s service.ReleaseService }

func New(s service.ReleaseService) controller.ReleaseController { return &releaseCtrl{s: s} }

func (h *releaseCtrl) Eligible(c echo.Context) error {
	out, err := h.s.Eligible(c.Request().Context())
	if err != nil {
		if respond.IsNoData(err) {
			return respond.NoData(c)
		}
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *releaseCtrl) Release(c echo.Context) error {
	var in service.ReleaseInput
	// an empty body releases the whole shipment
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
		}
	}
	out, err := h.s.Release(c.Request().Context(), c.Param("mbl"), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
