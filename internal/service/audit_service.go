package service

import (
	"context"
	"log"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// AuditService records administrative mutations. A failed append is logged
// and swallowed: the trail must never abort the operation it describes.
type AuditService struct {
	records *repository.AuditRepository
}

func NewAuditService(records *repository.AuditRepository) *AuditService {
	return &AuditService{records: records}
}

func (s *AuditService) Record(ctx context.Context, actorID, action, targetType, targetID, detail string) {
	rec := model.AuditRecord{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}
	if err := s.records.Append(ctx, &rec); err != nil {
		log.Printf("[warn] audit append failed (action=%s target=%s): %v", action, targetID, err)
	}
}

func (s *AuditService) ListRecent(ctx context.Context, n int) ([]model.AuditRecord, error) {
	return s.records.ListRecent(ctx, n)
}

// Prune removes records older than the retention window and reports the
// count for the sweep log line.
func (s *AuditService) Prune(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	return s.records.DeleteOlderThan(ctx, now.Add(-retention))
}
