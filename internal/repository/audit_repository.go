package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// AuditRepository persists the administrative audit trail.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, rec *model.AuditRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// ListRecent returns the n newest records.
func (r *AuditRepository) ListRecent(ctx context.Context, n int) ([]model.AuditRecord, error) {
	var records []model.AuditRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	return records, nil
}

// DeleteOlderThan prunes records created before cutoff and reports how many
// were removed.
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.AuditRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune audit records: %w", res.Error)
	}
	return res.RowsAffected, nil
}
