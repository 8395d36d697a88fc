package requests

import (
	"context"
	"time"

	"github.com/angelmondragon/procurement-backend/internal/repo"
	"github.com/angelmondragon/procurement-backend/pkg/db/models"
	"github.com/angelmondragon/procurement-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	repo.Base
}

// NewRepository builds a request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

// Create inserts the request together with its order lines and history rows.
func (r *repository) Create(ctx context.Context, req *models.ProcurementRequest) error {
	return r.DB(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProcurementRequest, error) {
	var req models.ProcurementRequest
	err := r.withChildren(r.DB(ctx)).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns every request, newest first.
func (r *repository) List(ctx context.Context) ([]models.ProcurementRequest, error) {
	var out []models.ProcurementRequest
	err := r.withChildren(r.DB(ctx)).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus, at time.Time) error {
	res := r.DB(ctx).
		Model(&models.ProcurementRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AppendHistory(ctx context.Context, entry *models.StatusHistory) error {
	return r.DB(ctx).Create(entry).Error
}

type statusCountRow struct {
	Status enums.RequestStatus
	Count  int64
}

type commodityRow struct {
	CommodityGroup *string
	Count          int64
	TotalValue     decimal.NullDecimal
}

type totalsRow struct {
	Count     int64
	TotalCost decimal.NullDecimal
}

// Statistics aggregates counts and cost totals across all requests.
func (r *repository) Statistics(ctx context.Context) (*Statistics, error) {
	db := r.DB(ctx)

	var totals totalsRow
	if err := db.Model(&models.ProcurementRequest{}).
		Select("COUNT(*) AS count, SUM(total_cost) AS total_cost").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var statusRows []statusCountRow
	if err := db.Model(&models.ProcurementRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}

	var groupRows []commodityRow
	if err := db.Model(&models.ProcurementRequest{}).
		Select("commodity_group, COUNT(*) AS count, SUM(total_cost) AS total_value").
		Group("commodity_group").
		Order("count DESC").
		Scan(&groupRows).Error; err != nil {
		return nil, err
	}

	return buildStatistics(totals, statusRows, groupRows), nil
}

// Delete removes a request; its order lines and history go with it.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := deleteChildren(tx, "request_id = ?", id); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.ProcurementRequest{}).Error
	})
}

// DeleteAll clears the store and reports how many requests were removed.
func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	var removed int64
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := deleteChildren(tx, "1 = 1"); err != nil {
			return err
		}
		res := tx.Where("1 = 1").Delete(&models.ProcurementRequest{})
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}

// deleteChildren removes owned rows explicitly so sqlite databases without
// foreign key enforcement behave like postgres.
func deleteChildren(tx *gorm.DB, query string, args ...any) error {
	if err := tx.Where(query, args...).Delete(&models.OrderLine{}).Error; err != nil {
		return err
	}
	return tx.Where(query, args...).Delete(&models.StatusHistory{}).Error
}

func (r *repository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("OrderLines", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("StatusHistory", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("changed_at ASC")
		})
}
