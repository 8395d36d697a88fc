package requests

import (
	"context"
	"time"

	"github.com/angelmondragon/procurement-backend/pkg/db/models"
	"github.com/angelmondragon/procurement-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for procurement requests and
// the rows they own.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *models.ProcurementRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProcurementRequest, error)
	List(ctx context.Context) ([]models.ProcurementRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus, at time.Time) error
	AppendHistory(ctx context.Context, entry *models.StatusHistory) error
	Statistics(ctx context.Context) (*Statistics, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Service exposes the request store operations used by the API.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.ProcurementRequest, error)
	List(ctx context.Context) ([]models.ProcurementRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ProcurementRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.ProcurementRequest, error)
	Statistics(ctx context.Context) (*Statistics, error)
}
