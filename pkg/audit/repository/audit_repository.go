package repository

import (
	"context"

	"carrierpay/entities"
)

type AuditRepository interface {
	Create(ctx context.Context, ev *entities.AccessEvent) error
	// Recent returns the newest events first, optionally for one email.
	Recent(ctx context.Context, email string, limit int) ([]entities.AccessEvent, error)
}
