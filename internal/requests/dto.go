package requests

import (
	"time"

	"github.com/angelmondragon/procurement-backend/pkg/db/models"
	"github.com/angelmondragon/procurement-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreationNote is the note stored on the history row written at creation.
const CreationNote = "Request created"

// OrderLineInput is one submitted order line.
type OrderLineInput struct {
	PositionDescription string           `json:"position_description" validate:"required"`
	UnitPrice           *decimal.Decimal `json:"unit_price" validate:"required"`
	Amount              *decimal.Decimal `json:"amount" validate:"required"`
	Unit                string           `json:"unit" validate:"required"`
	TotalPrice          *decimal.Decimal `json:"total_price" validate:"required"`
}

// CreateInput is the payload accepted when submitting a request. TotalCost
// is taken as given and never derived from the lines.
type CreateInput struct {
	RequestorName    string           `json:"requestor_name" validate:"required"`
	Title            string           `json:"title" validate:"required"`
	VendorName       string           `json:"vendor_name" validate:"required"`
	VATID            string           `json:"vat_id" validate:"required"`
	CommodityGroupID *string          `json:"commodity_group_id"`
	CommodityGroup   *string          `json:"commodity_group"`
	TotalCost        *decimal.Decimal `json:"total_cost" validate:"required"`
	Department       string           `json:"department" validate:"required"`
	OrderLines       []OrderLineInput `json:"order_lines" validate:"required,dive"`
}

// StatusUpdateRequest is the body of a status transition. NewStatus must be
// present; its value, empty included, is checked against the known statuses
// only after the request is found.
type StatusUpdateRequest struct {
	NewStatus *string `json:"new_status" validate:"required"`
	Notes     *string `json:"notes"`
}

// RequestDTO is the JSON view of a stored request.
type RequestDTO struct {
	ID               uuid.UUID          `json:"id"`
	RequestorName    string             `json:"requestor_name"`
	Title            string             `json:"title"`
	VendorName       string             `json:"vendor_name"`
	VATID            string             `json:"vat_id"`
	CommodityGroupID *string            `json:"commodity_group_id"`
	CommodityGroup   *string            `json:"commodity_group"`
	TotalCost        float64            `json:"total_cost"`
	Department       string             `json:"department"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	OrderLines       []OrderLineDTO     `json:"order_lines"`
	StatusHistory    []StatusHistoryDTO `json:"status_history"`
}

// OrderLineDTO is the JSON view of a stored order line.
type OrderLineDTO struct {
	ID                  uuid.UUID `json:"id"`
	RequestID           uuid.UUID `json:"request_id"`
	PositionDescription string    `json:"position_description"`
	UnitPrice           float64   `json:"unit_price"`
	Amount              float64   `json:"amount"`
	Unit                string    `json:"unit"`
	TotalPrice          float64   `json:"total_price"`
}

// StatusHistoryDTO is the JSON view of one history row.
type StatusHistoryDTO struct {
	ID        uuid.UUID `json:"id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
	Notes     *string   `json:"notes"`
}

// StatusUpdateResponse wraps the refreshed record after a transition.
type StatusUpdateResponse struct {
	Message string     `json:"message"`
	Request RequestDTO `json:"request"`
}

// StatisticsDTO is the JSON view of the dashboard aggregate.
type StatisticsDTO struct {
	TotalRequests      int64              `json:"total_requests"`
	StatusDistribution map[string]int64   `json:"status_distribution"`
	CommodityBreakdown []CommodityStatDTO `json:"commodity_breakdown"`
	PriceStats         PriceStatsDTO      `json:"price_stats"`
}

type CommodityStatDTO struct {
	CommodityGroup string  `json:"commodity_group"`
	Count          int64   `json:"count"`
	TotalValue     float64 `json:"total_value"`
}

type PriceStatsDTO struct {
	TotalCost   float64 `json:"total_cost"`
	AverageCost float64 `json:"average_cost"`
}

// ToModel maps the input onto a new request row with its lines. Status and
// history are set by the service.
func (in CreateInput) ToModel() *models.ProcurementRequest {
	req := &models.ProcurementRequest{
		RequestorName:    in.RequestorName,
		Title:            in.Title,
		VendorName:       in.VendorName,
		VATID:            in.VATID,
		CommodityGroupID: in.CommodityGroupID,
		CommodityGroup:   in.CommodityGroup,
		TotalCost:        decimalOrZero(in.TotalCost),
		Department:       in.Department,
		OrderLines:       make([]models.OrderLine, 0, len(in.OrderLines)),
	}
	for i, line := range in.OrderLines {
		req.OrderLines = append(req.OrderLines, models.OrderLine{
			Position:            i,
			PositionDescription: line.PositionDescription,
			UnitPrice:           decimalOrZero(line.UnitPrice),
			Amount:              decimalOrZero(line.Amount),
			Unit:                line.Unit,
			TotalPrice:          decimalOrZero(line.TotalPrice),
		})
	}
	return req
}

// Descriptions lists the line descriptions in submission order.
func (in CreateInput) Descriptions() []string {
	out := make([]string, 0, len(in.OrderLines))
	for _, line := range in.OrderLines {
		out = append(out, line.PositionDescription)
	}
	return out
}

// NewRequestDTO maps a stored request, with its preloaded children, to JSON.
func NewRequestDTO(req models.ProcurementRequest) RequestDTO {
	dto := RequestDTO{
		ID:               req.ID,
		RequestorName:    req.RequestorName,
		Title:            req.Title,
		VendorName:       req.VendorName,
		VATID:            req.VATID,
		CommodityGroupID: req.CommodityGroupID,
		CommodityGroup:   req.CommodityGroup,
		TotalCost:        req.TotalCost.InexactFloat64(),
		Department:       req.Department,
		Status:           req.Status.String(),
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
		OrderLines:       make([]OrderLineDTO, 0, len(req.OrderLines)),
		StatusHistory:    make([]StatusHistoryDTO, 0, len(req.StatusHistory)),
	}
	for _, line := range req.OrderLines {
		dto.OrderLines = append(dto.OrderLines, OrderLineDTO{
			ID:                  line.ID,
			RequestID:           line.RequestID,
			PositionDescription: line.PositionDescription,
			UnitPrice:           line.UnitPrice.InexactFloat64(),
			Amount:              line.Amount.InexactFloat64(),
			Unit:                line.Unit,
			TotalPrice:          line.TotalPrice.InexactFloat64(),
		})
	}
	for _, h := range req.StatusHistory {
		entry := StatusHistoryDTO{
			ID:        h.ID,
			NewStatus: h.NewStatus.String(),
			ChangedAt: h.ChangedAt,
			Notes:     h.Notes,
		}
		if h.OldStatus != nil {
			old := h.OldStatus.String()
			entry.OldStatus = &old
		}
		dto.StatusHistory = append(dto.StatusHistory, entry)
	}
	return dto
}

// NewRequestDTOs maps a list of stored requests.
func NewRequestDTOs(reqs []models.ProcurementRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, NewRequestDTO(req))
	}
	return out
}

// NewStatisticsDTO maps the aggregate to JSON. Every known status is present,
// with zero when no request carries it.
func NewStatisticsDTO(stats Statistics) StatisticsDTO {
	dto := StatisticsDTO{
		TotalRequests:      stats.TotalRequests,
		StatusDistribution: make(map[string]int64, len(enums.RequestStatuses())),
		CommodityBreakdown: make([]CommodityStatDTO, 0, len(stats.CommodityBreakdown)),
		PriceStats: PriceStatsDTO{
			TotalCost:   stats.TotalCost.InexactFloat64(),
			AverageCost: stats.AverageCost.InexactFloat64(),
		},
	}
	for _, status := range enums.RequestStatuses() {
		dto.StatusDistribution[status.String()] = 0
	}
	for status, count := range stats.StatusDistribution {
		dto.StatusDistribution[status.String()] += count
	}
	for _, c := range stats.CommodityBreakdown {
		dto.CommodityBreakdown = append(dto.CommodityBreakdown, CommodityStatDTO{
			CommodityGroup: c.CommodityGroup,
			Count:          c.Count,
			TotalValue:     c.TotalValue.InexactFloat64(),
		})
	}
	return dto
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
