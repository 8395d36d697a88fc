package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLine captures one itemized entry of a procurement request.
type OrderLine struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	RequestID           uuid.UUID       `gorm:"column:request_id;type:uuid;not null;index"`
	Position            int             `gorm:"column:position;not null;default:0"`
	PositionDescription string          `gorm:"column:position_description;not null"`
	UnitPrice           decimal.Decimal `gorm:"column:unit_price;type:numeric(14,4);not null"`
	Amount              decimal.Decimal `gorm:"column:amount;type:numeric(14,4);not null"`
	Unit                string          `gorm:"column:unit;not null"`
	TotalPrice          decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
