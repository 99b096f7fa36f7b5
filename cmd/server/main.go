package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"carrierpay/config"
	"carrierpay/database"
	"carrierpay/pkg/clock"
	"carrierpay/pkg/logger"
	"carrierpay/pkg/role"
	"carrierpay/pkg/telemetry"
	"carrierpay/router"

	// Audit + Auth + Health
	"carrierpay/pkg/audit"
	auditCtrlImp "carrierpay/pkg/audit/controllerImp"
	auditRepoImp "carrierpay/pkg/audit/repositoryImp"
	authCtrlImp "carrierpay/pkg/auth/controllerImp"
	healthCtrlImp "carrierpay/pkg/health/controllerImp"

	// Record store + panels
	financeCtrlImp "carrierpay/pkg/finance/controllerImp"
	financeSvcImp "carrierpay/pkg/finance/serviceImp"
	releaseCtrlImp "carrierpay/pkg/release/controllerImp"
	releaseSvcImp "carrierpay/pkg/release/serviceImp"
	"carrierpay/pkg/request/repository"
	reqCtrlImp "carrierpay/pkg/request/controllerImp"
	reqRepoImp "carrierpay/pkg/request/repositoryImp"
	reqSvcImp "carrierpay/pkg/request/serviceImp"
	schedCtrlImp "carrierpay/pkg/schedule/controllerImp"
	schedSvcImp "carrierpay/pkg/schedule/serviceImp"
)

const serviceName = "carrier-payment-tracker"

func main() {
	// 1) Config
	cfg := config.Load()

	// 2) Logger (+ access log file)
	zl, err := logger.New(logger.Config{Level: cfg.LogLevel, Env: cfg.Env, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3) Tracing, only when a collector is configured
	if cfg.OTELEndpoint != "" {
		tp, err := telemetry.InitTracer(ctx, serviceName, cfg.Env, cfg.OTELEndpoint)
		if err != nil {
			zl.Fatal("init tracer", zap.Error(err))
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(sctx)
		}()
	}

	// 4) DB (sqlite) + automigrate
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}

	// 5) Record store
	xlsxStore := reqRepoImp.NewXLSX(cfg.StorePath, zl)
	var store repository.RecordStore = xlsxStore
	if cfg.StoreBackend == "sqlite" {
		store = reqRepoImp.NewSQLite(db)
		n, err := reqRepoImp.ImportIfEmpty(ctx, store, xlsxStore)
		if err != nil {
			zl.Fatal("import workbook into sqlite", zap.Error(err))
		}
		if n > 0 {
			logger.Info(ctx, zl, "imported workbook rows", zap.Int("rows", n), zap.String("from", cfg.StorePath))
		}
	}

	clk := clock.New(cfg.Location())
	roles := role.NewWorkbook(cfg.UsersPath, cfg.PlannerEmail, zl)
	trail := audit.NewTrail(auditRepoImp.New(db), zl)

	// 6) Services + controllers
	reqSvc := reqSvcImp.NewRequestService(store, clk, zl)
	finSvc := financeSvcImp.NewFinanceService(store, clk, cfg.StrictAmounts, zl)
	schedSvc := schedSvcImp.NewScheduleService(store, clk, zl)
	relSvc := releaseSvcImp.NewReleaseService(store, zl)

	// 7) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	if cfg.OTELEndpoint != "" {
		e.Use(telemetry.Middleware(serviceName))
	}

	router.New(e, router.Deps{
		Roles:  roles,
		Trail:  trail,
		Auth:   authCtrlImp.NewAuthController(roles, trail),
		Req:    reqCtrlImp.New(reqSvc),
		Fin:    financeCtrlImp.New(finSvc, clk),
		Sched:  schedCtrlImp.New(schedSvc),
		Rel:    releaseCtrlImp.New(relSvc),
		Audit:  auditCtrlImp.New(trail),
		Health: healthCtrlImp.NewHealthCtrl(db, store),
	})

	// 8) Start
	go func() {
		logger.Info(ctx, zl, "listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreBackend))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
