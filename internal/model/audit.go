package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRecord captures one administrative mutation.
type AuditRecord struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ActorID    string    `gorm:"index;size:36" json:"actorId"`
	Action     string    `gorm:"size:64" json:"action"`
	TargetType string    `gorm:"size:32" json:"targetType"`
	TargetID   string    `gorm:"size:36" json:"targetId"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (a *AuditRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
