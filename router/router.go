package router

import (
	"github.com/labstack/echo/v4"

	"carrierpay/pkg/audit"
	auth "carrierpay/pkg/auth/controller"
	finance "carrierpay/pkg/finance/controller"
	"carrierpay/pkg/middleware"
	release "carrierpay/pkg/release/controller"
	request "carrierpay/pkg/request/controller"
	"carrierpay/pkg/role"
	schedule "carrierpay/pkg/schedule/controller"
)

type Deps struct {
	Roles  role.Registry
	Trail  *audit.Trail
	Auth   auth.AuthController
	Req    request.RequestController
	Fin    finance.FinanceController
	Sched  schedule.ScheduleController
	Rel    release.ReleaseController
	Audit  interface{ List(echo.Context) error }
	Health interface{ Health(echo.Context) error }
}

func New(e *echo.Echo, d Deps) *echo.Echo {
	e.GET("/health", d.Health.Health)
	e.POST("/login", d.Auth.Login)

	who := middleware.Identity(d.Roles)
	e.GET("/whoami", d.Auth.WhoAmI, who)
	e.POST("/logout", d.Auth.Logout, who)

	api := e.Group("/api/v1", who)
	all := middleware.RequireRole(d.Trail, role.CentralOps, role.Finance, role.View)
	ops := middleware.RequireRole(d.Trail, role.CentralOps)
	fin := middleware.RequireRole(d.Trail, role.Finance)
	admin := middleware.RequireRole(d.Trail)

	api.GET("/report", d.Req.Report, all)

	// Central Ops
	api.GET("/requests", d.Req.List, ops)
	api.POST("/requests", d.Req.Create, ops)
	api.PATCH("/requests/:row_id", d.Req.Patch, ops)
	api.GET("/bl-release", d.Rel.Eligible, ops)
	api.POST("/bl-release/:mbl", d.Rel.Release, ops)

	// Finance
	api.GET("/finance/due", d.Fin.Due, fin)
	api.POST("/finance/payments", d.Fin.RecordPayments, fin)
	api.GET("/finance/payments", d.Fin.All, fin)
	api.GET("/finance/export", d.Fin.Export, fin)

	// Admin (payment planner)
	api.GET("/planning/summary", d.Sched.Summary, admin)
	api.POST("/planning/totals", d.Sched.Totals, admin)
	api.POST("/planning/schedule", d.Sched.Schedule, admin)
	api.GET("/audit", d.Audit.List, admin)
	return e
}
