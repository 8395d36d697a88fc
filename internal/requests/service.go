package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/procurement-backend/internal/classification"
	"github.com/angelmondragon/procurement-backend/internal/commodities"
	"github.com/angelmondragon/procurement-backend/pkg/db"
	"github.com/angelmondragon/procurement-backend/pkg/db/models"
	"github.com/angelmondragon/procurement-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/procurement-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo       Repository
	tx         txRunner
	classifier classification.Classifier
	now        func() time.Time
}

// NewService builds the request service with its required dependencies.
func NewService(repo Repository, tx txRunner, classifier classification.Classifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		classifier: classifier,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ProcurementRequest, error) {
	if details := negativeAmounts(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "amounts must not be negative").
			WithDetails(details)
	}

	req := input.ToModel()
	if input.CommodityGroupID == nil || strings.TrimSpace(*input.CommodityGroupID) == "" {
		result := s.classifier.Classify(ctx, input.Title, input.Descriptions())
		req.CommodityGroupID = result.CommodityGroupID
		req.CommodityGroup = result.CommodityGroup
	} else if req.CommodityGroup == nil {
		if group, ok := commodities.Lookup(*input.CommodityGroupID); ok {
			name := group.Group
			req.CommodityGroup = &name
		}
	}

	now := s.now()
	note := CreationNote
	req.Status = enums.RequestStatusOpen
	req.CreatedAt = now
	req.UpdatedAt = now
	req.StatusHistory = []models.StatusHistory{{
		OldStatus: nil,
		NewStatus: enums.RequestStatusOpen,
		ChangedAt: now,
		Notes:     &note,
	}}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, req)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}

	return s.Get(ctx, req.ID)
}

func (s *service) List(ctx context.Context) ([]models.ProcurementRequest, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ProcurementRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return req, nil
}

// UpdateStatus moves a request to any status, including the one it already
// has. Every call appends exactly one history row.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.ProcurementRequest, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}

		next, err := enums.ParseRequestStatus(status)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid status").
				WithDetails(map[string]any{"new_status": status, "allowed": enums.RequestStatuses()})
		}

		now := s.now()
		old := current.Status
		if err := repo.UpdateStatus(ctx, id, next, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
		}
		if err := repo.AppendHistory(ctx, &models.StatusHistory{
			RequestID: id,
			OldStatus: &old,
			NewStatus: next,
			ChangedAt: now,
			Notes:     notes,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate statistics")
	}
	return stats, nil
}

// negativeAmounts maps the path of every negative money or quantity field to
// a validation message.
func negativeAmounts(input CreateInput) map[string]string {
	details := map[string]string{}
	check := func(path string, v *decimal.Decimal) {
		if v != nil && v.IsNegative() {
			details[path] = "must be non-negative"
		}
	}
	check("total_cost", input.TotalCost)
	for i, line := range input.OrderLines {
		check(fmt.Sprintf("order_lines[%d].unit_price", i), line.UnitPrice)
		check(fmt.Sprintf("order_lines[%d].amount", i), line.Amount)
		check(fmt.Sprintf("order_lines[%d].total_price", i), line.TotalPrice)
	}
	return details
}
