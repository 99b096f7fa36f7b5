package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"carrierpay/entities"
	"carrierpay/pkg/audit/repository"
)

type auditRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AuditRepository { return &auditRepo{db} }

func (r *auditRepo) Create(ctx context.Context, ev *entities.AccessEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *auditRepo) Recent(ctx context.Context, email string, limit int) ([]entities.AccessEvent, error) {
	var out []entities.AccessEvent
	q := r.db.WithContext(ctx).Model(&entities.AccessEvent{})
	if email != "" {
		q = q.Where("email = ?", email)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
