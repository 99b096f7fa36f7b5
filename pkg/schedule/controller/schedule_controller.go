package controller

import "github.com/labstack/echo/v4"

type ScheduleController interface {
	Summary(c echo.Context) error
	Totals(c echo.Context) error
	Schedule(c echo.Context) error
}
