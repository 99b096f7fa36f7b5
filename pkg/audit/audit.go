// Package audit keeps the access trail: logins, role assignment and
// rejected panels.
package audit

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"carrierpay/entities"
	"carrierpay/pkg/audit/repository"
	"carrierpay/pkg/logger"
)

const (
	Success = "SUCCESS"
	Warning = "WARNING"
	Failed  = "FAILED"
)

type Trail struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

func NewTrail(repo repository.AuditRepository, l *zap.Logger) *Trail {
	return &Trail{repo: repo, logger: l}
}

// Record logs the event and stores it. Storage failures are only logged.
func (t *Trail) Record(ctx context.Context, email, event, status string) {
	email = strings.ToLower(strings.TrimSpace(email))
	fields := []zap.Field{zap.String("email", email), zap.String("event", event), zap.String("status", status)}
	switch status {
	case Warning:
		logger.Warn(ctx, t.logger, "access", fields...)
	case Failed:
		logger.Error(ctx, t.logger, "access", fields...)
	default:
		logger.Info(ctx, t.logger, "access", fields...)
	}

	if t.repo == nil {
		return
	}
	if err := t.repo.Create(ctx, &entities.AccessEvent{Email: email, Event: event, Status: status}); err != nil {
		logger.Error(ctx, t.logger, "store access event", zap.Error(err))
	}
}

func (t *Trail) Recent(ctx context.Context, email string, limit int) ([]entities.AccessEvent, error) {
	return t.repo.Recent(ctx, strings.ToLower(strings.TrimSpace(email)), limit)
}
