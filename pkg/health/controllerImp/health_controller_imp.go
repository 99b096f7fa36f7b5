package controllerImp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"carrierpay/pkg/request/repository"
)

var appStart = time.Now()

type HealthCtrl struct {
	db    *gorm.DB
	store repository.RecordStore
}

func NewHealthCtrl(db *gorm.DB, store repository.RecordStore) *HealthCtrl {
	return &HealthCtrl{db: db, store: store}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := sub{OK: true}
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			db = sub{Err: "db.DB(): " + err.Error()}
		} else if err := sqlDB.PingContext(ctx); err != nil {
			db = sub{Err: "ping: " + err.Error()}
		}
	} else {
		db = sub{Err: "gorm db is nil"}
	}

	// read-only: a health check must not move the revision. A store that was
	// never written is healthy; an unreadable one is not.
	store := sub{OK: true}
	rows, rev := 0, int64(0)
	snap, err := h.store.Peek(ctx)
	switch {
	case errors.Is(err, repository.ErrNoStore):
	case err != nil:
		store = sub{Err: err.Error()}
	default:
		rows, rev = len(snap.Rows), snap.Revision
	}

	allOK := db.OK && store.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database":     db,
			"record_store": store,
		},
		"store": map[string]any{"rows": rows, "revision": rev},
		"time":  time.Now().Format(time.RFC3339),
	}
	return c.JSON(status, resp)
}
