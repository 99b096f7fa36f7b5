package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carrierpay/entities"
	"carrierpay/pkg/request/repository"
	"carrierpay/pkg/sheet"
)

const revisionRowID = 1

type sqliteStore struct{ db *gorm.DB }

func NewSQLite(db *gorm.DB) repository.RecordStore { return &sqliteStore{db: db} }

func (s *sqliteStore) Load(ctx context.Context) (*repository.Snapshot, error) {
	var (
		rows []entities.PaymentRequest
		rev  entities.StoreRevision
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.FirstOrCreate(&rev, entities.StoreRevision{ID: revisionRowID}).Error; err != nil {
			return err
		}
		return tx.Order("seq asc").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	return &repository.Snapshot{Rows: rows, Revision: rev.Revision, Issues: sheet.Issues(rows)}, nil
}

func (s *sqliteStore) Peek(ctx context.Context) (*repository.Snapshot, error) {
	var (
		rows []entities.PaymentRequest
		rev  entities.StoreRevision
	)
	db := s.db.WithContext(ctx)
	if err := db.Limit(1).Find(&rev, revisionRowID).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	if err := db.Order("seq asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoData, err)
	}
	return &repository.Snapshot{Rows: rows, Revision: rev.Revision, Issues: sheet.Issues(rows)}, nil
}

func (s *sqliteStore) Commit(ctx context.Context, rows []entities.PaymentRequest, expected int64) (int64, error) {
	next := expected + 1
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.FirstOrCreate(&entities.StoreRevision{}, entities.StoreRevision{ID: revisionRowID}).Error; err != nil {
			return err
		}
		res := tx.Model(&entities.StoreRevision{}).
			Where("id = ? AND revision = ?", revisionRowID, expected).
			Update("revision", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrStaleRevision
		}

		ids := make([]string, 0, len(rows))
		for i := range rows {
			rows[i].Seq = i
			ids = append(ids, rows[i].RowID)
		}

		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(ids) > 0 {
			del = del.Where("row_id NOT IN ?", ids)
		}
		if err := del.Delete(&entities.PaymentRequest{}).Error; err != nil {
			return fmt.Errorf("prune rows: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 200).Error
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleRevision) {
			return 0, err
		}
		return 0, fmt.Errorf("commit rows: %w", err)
	}
	return next, nil
}

// ImportIfEmpty seeds dst from src when dst holds no rows yet, so switching
// the backend keeps the existing workbook's history.
func ImportIfEmpty(ctx context.Context, dst, src repository.RecordStore) (int, error) {
	cur, err := dst.Load(ctx)
	if err != nil {
		return 0, err
	}
	if len(cur.Rows) > 0 {
		return 0, nil
	}
	from, err := src.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoData) {
			return 0, nil
		}
		return 0, err
	}
	if len(from.Rows) == 0 {
		return 0, nil
	}
	if _, err := dst.Commit(ctx, from.Rows, cur.Revision); err != nil {
		return 0, err
	}
	return len(from.Rows), nil
}
