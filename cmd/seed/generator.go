package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/procurement-backend/internal/commodities"
	"github.com/angelmondragon/procurement-backend/internal/requests"
	"github.com/angelmondragon/procurement-backend/pkg/db/models"
	"github.com/angelmondragon/procurement-backend/pkg/enums"
)

var (
	requestors  = []string{"John Smith", "Maria Garcia", "David Chen", "Sarah Johnson", "Ahmed Hassan"}
	departments = []string{"IT", "Marketing", "Finance", "Operations", "HR"}
	vendors     = []string{
		"Microsoft Corporation", "Adobe Inc", "Amazon Web Services",
		"Salesforce", "Oracle", "SAP", "IBM", "Google Cloud",
		"Cisco Systems", "Dell Technologies",
	}
	vatIDs = []string{
		"DE123456789", "DE987654321", "DE456789123", "DE789123456",
		"DE321654987", "DE654987321", "DE147258369", "DE369258147",
	}
)

type product struct {
	name      string
	unitPrice string
	unit      string
}

type category struct {
	name     string
	groupID  string
	products []product
}

var categories = []category{
	{name: "Software", groupID: "031", products: []product{
		{"Microsoft Office 365 Licenses", "15.99", "licenses"},
		{"Adobe Creative Cloud Subscription", "52.99", "licenses"},
		{"Salesforce CRM Licenses", "150.00", "licenses"},
		{"Slack Business+ Subscription", "12.50", "licenses"},
		{"Zoom Enterprise License", "19.99", "licenses"},
	}},
	{name: "Hardware", groupID: "029", products: []product{
		{"Dell Latitude Laptops", "1299.00", "pieces"},
		{"HP Monitors 27 inch", "349.99", "pieces"},
		{"Logitech Keyboards", "89.99", "pieces"},
		{"Cisco Network Switches", "2499.00", "pieces"},
		{"External Hard Drives 2TB", "79.99", "pieces"},
	}},
	{name: "Services", groupID: "004", products: []product{
		{"Cloud Storage", "0.023", "GB"},
		{"Consulting Hours", "150.00", "hours"},
		{"Training Sessions", "500.00", "sessions"},
		{"Support Tickets", "50.00", "tickets"},
		{"API Calls", "0.001", "calls"},
	}},
	{name: "Office Supplies", groupID: "015", products: []product{
		{"Printer Paper A4", "5.99", "reams"},
		{"Office Chairs", "299.00", "pieces"},
		{"Whiteboard Markers", "12.99", "packs"},
		{"Filing Cabinets", "199.00", "pieces"},
		{"Desk Organizers", "24.99", "pieces"},
	}},
}

// 30% Open, 40% In Progress, 30% Closed.
var statusWeights = []struct {
	status enums.RequestStatus
	weight int
}{
	{enums.RequestStatusOpen, 30},
	{enums.RequestStatusInProgress, 40},
	{enums.RequestStatusClosed, 30},
}

type generator struct {
	rng *rand.Rand
	now time.Time
}

func newGenerator(seed uint64, now time.Time) *generator {
	return &generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now.UTC(),
	}
}

// Request builds one demo request with lines and a history consistent with
// its current status.
func (g *generator) Request() *models.ProcurementRequest {
	cat := categories[g.rng.IntN(len(categories))]
	group, ok := commodities.Lookup(cat.groupID)
	if !ok {
		panic(fmt.Sprintf("seed category %s points at unknown commodity group %s", cat.name, cat.groupID))
	}
	groupID, groupName := group.ID, group.Group

	picked := g.sample(cat.products, 1+g.rng.IntN(4))
	total := decimal.Zero
	lines := make([]models.OrderLine, 0, len(picked))
	for i, p := range picked {
		unitPrice := decimal.RequireFromString(p.unitPrice)
		amount := g.amount(p.unit)
		lineTotal := unitPrice.Mul(amount).Round(2)
		total = total.Add(lineTotal)
		lines = append(lines, models.OrderLine{
			Position:            i,
			PositionDescription: p.name,
			UnitPrice:           unitPrice,
			Amount:              amount,
			Unit:                p.unit,
			TotalPrice:          lineTotal,
		})
	}

	title := fmt.Sprintf("%s Purchase - %s", cat.name, picked[0].name)
	if len(picked) > 1 {
		title += " and more"
	}

	status := g.status()
	createdAt := g.now.AddDate(0, 0, -g.rng.IntN(31))

	return &models.ProcurementRequest{
		RequestorName:    pick(g.rng, requestors),
		Title:            title,
		VendorName:       pick(g.rng, vendors),
		VATID:            pick(g.rng, vatIDs),
		CommodityGroupID: &groupID,
		CommodityGroup:   &groupName,
		TotalCost:        total,
		Department:       pick(g.rng, departments),
		Status:           status,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt.Add(g.hours(1, 48)),
		OrderLines:       lines,
		StatusHistory:    g.history(status, createdAt),
	}
}

func (g *generator) history(status enums.RequestStatus, createdAt time.Time) []models.StatusHistory {
	created := requests.CreationNote
	out := []models.StatusHistory{{NewStatus: enums.RequestStatusOpen, ChangedAt: createdAt, Notes: &created}}

	switch status {
	case enums.RequestStatusInProgress:
		out = append(out, transition(enums.RequestStatusOpen, enums.RequestStatusInProgress, createdAt.Add(g.hours(2, 24))))
	case enums.RequestStatusClosed:
		progressAt := createdAt.Add(g.hours(2, 12))
		out = append(out,
			transition(enums.RequestStatusOpen, enums.RequestStatusInProgress, progressAt),
			transition(enums.RequestStatusInProgress, enums.RequestStatusClosed, progressAt.Add(g.hours(6, 48))),
		)
	}
	return out
}

func transition(from, to enums.RequestStatus, at time.Time) models.StatusHistory {
	note := fmt.Sprintf("Status changed to %s", to)
	old := from
	return models.StatusHistory{OldStatus: &old, NewStatus: to, ChangedAt: at, Notes: &note}
}

func (g *generator) status() enums.RequestStatus {
	total := 0
	for _, w := range statusWeights {
		total += w.weight
	}
	n := g.rng.IntN(total)
	for _, w := range statusWeights {
		if n < w.weight {
			return w.status
		}
		n -= w.weight
	}
	return enums.RequestStatusOpen
}

// amount is fractional for metered units, whole otherwise.
func (g *generator) amount(unit string) decimal.Decimal {
	switch unit {
	case "GB", "hours", "calls":
		cents := 10_000 + g.rng.IntN(990_001)
		return decimal.New(int64(cents), -2)
	case "licenses":
		return decimal.NewFromInt(int64(5 + g.rng.IntN(96)))
	default:
		return decimal.NewFromInt(int64(1 + g.rng.IntN(25)))
	}
}

// hours returns a whole number of hours in [lo, hi].
func (g *generator) hours(lo, hi int) time.Duration {
	return time.Duration(lo+g.rng.IntN(hi-lo+1)) * time.Hour
}

func (g *generator) sample(products []product, n int) []product {
	if n > len(products) {
		n = len(products)
	}
	idx := g.rng.Perm(len(products))[:n]
	out := make([]product, 0, n)
	for _, i := range idx {
		out = append(out, products[i])
	}
	return out
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
