package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/procurement-backend/pkg/enums"
)

// StatusHistory is an append-only record of one status transition. OldStatus is
// nil only on the entry written when the request is created.
type StatusHistory struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	RequestID uuid.UUID            `gorm:"column:request_id;type:uuid;not null;index"`
	OldStatus *enums.RequestStatus `gorm:"column:old_status"`
	NewStatus enums.RequestStatus  `gorm:"column:new_status;not null"`
	ChangedAt time.Time            `gorm:"column:changed_at;not null"`
	Notes     *string              `gorm:"column:notes"`
}

func (StatusHistory) TableName() string {
	return "status_history"
}

func (h *StatusHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.ChangedAt.IsZero() {
		h.ChangedAt = time.Now().UTC()
	}
	return nil
}

// AllModels lists every table the request store owns, parents first.
func AllModels() []any {
	return []any{&ProcurementRequest{}, &OrderLine{}, &StatusHistory{}}
}
