package controller

import "github.com/labstack/echo/v4"

type ReleaseController interface {
	Eligible(c echo.Context) error
	Release(c echo.Context) error
}
