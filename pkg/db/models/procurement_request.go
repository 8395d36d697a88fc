package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/procurement-backend/pkg/enums"
)

// ProcurementRequest is one purchase submission together with the lines and
// status history it owns.
type ProcurementRequest struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	RequestorName    string              `gorm:"column:requestor_name;not null"`
	Title            string              `gorm:"column:title;not null"`
	VendorName       string              `gorm:"column:vendor_name;not null"`
	VATID            string              `gorm:"column:vat_id;not null"`
	CommodityGroupID *string             `gorm:"column:commodity_group_id"`
	CommodityGroup   *string             `gorm:"column:commodity_group"`
	TotalCost        decimal.Decimal     `gorm:"column:total_cost;type:numeric(14,2);not null"`
	Department       string              `gorm:"column:department;not null"`
	Status           enums.RequestStatus `gorm:"column:status;not null;default:'Open'"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	OrderLines    []OrderLine     `gorm:"foreignKey:RequestID;references:ID;constraint:OnDelete:CASCADE"`
	StatusHistory []StatusHistory `gorm:"foreignKey:RequestID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ProcurementRequest) TableName() string {
	return "procurement_requests"
}

func (r *ProcurementRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = enums.RequestStatusOpen
	}
	return nil
}
