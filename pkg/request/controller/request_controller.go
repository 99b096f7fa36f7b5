package controller

import "github.com/labstack/echo/v4"

type RequestController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Patch(c echo.Context) error
	Report(c echo.Context) error
}
