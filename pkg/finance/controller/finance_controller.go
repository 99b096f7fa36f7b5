package controller

import "github.com/labstack/echo/v4"

type FinanceController interface {
	Due(c echo.Context) error
	RecordPayments(c echo.Context) error
	All(c echo.Context) error
	Export(c echo.Context) error
}
