package requests

import (
	"sort"

	"github.com/angelmondragon/procurement-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// UnclassifiedGroup buckets requests that never received a commodity group.
const UnclassifiedGroup = "Unclassified"

// Statistics is the dashboard aggregate over all stored requests.
type Statistics struct {
	TotalRequests      int64
	StatusDistribution map[enums.RequestStatus]int64
	CommodityBreakdown []CommodityStat
	TotalCost          decimal.Decimal
	AverageCost        decimal.Decimal
}

// CommodityStat is the request count and summed cost of one commodity group.
type CommodityStat struct {
	CommodityGroup string
	Count          int64
	TotalValue     decimal.Decimal
}

func buildStatistics(totals totalsRow, statusRows []statusCountRow, groupRows []commodityRow) *Statistics {
	stats := &Statistics{
		TotalRequests:      totals.Count,
		StatusDistribution: make(map[enums.RequestStatus]int64, len(statusRows)),
		CommodityBreakdown: make([]CommodityStat, 0, len(groupRows)),
		TotalCost:          decimal.Zero,
		AverageCost:        decimal.Zero,
	}
	if totals.TotalCost.Valid {
		stats.TotalCost = totals.TotalCost.Decimal.Round(2)
	}
	if totals.Count > 0 {
		stats.AverageCost = stats.TotalCost.Div(decimal.NewFromInt(totals.Count)).Round(2)
	}

	for _, row := range statusRows {
		stats.StatusDistribution[row.Status] += row.Count
	}

	index := make(map[string]int, len(groupRows))
	for _, row := range groupRows {
		name := UnclassifiedGroup
		if row.CommodityGroup != nil && *row.CommodityGroup != "" {
			name = *row.CommodityGroup
		}
		value := decimal.Zero
		if row.TotalValue.Valid {
			value = row.TotalValue.Decimal
		}
		if i, ok := index[name]; ok {
			stats.CommodityBreakdown[i].Count += row.Count
			stats.CommodityBreakdown[i].TotalValue = stats.CommodityBreakdown[i].TotalValue.Add(value)
			continue
		}
		index[name] = len(stats.CommodityBreakdown)
		stats.CommodityBreakdown = append(stats.CommodityBreakdown, CommodityStat{
			CommodityGroup: name,
			Count:          row.Count,
			TotalValue:     value,
		})
	}

	for i := range stats.CommodityBreakdown {
		stats.CommodityBreakdown[i].TotalValue = stats.CommodityBreakdown[i].TotalValue.Round(2)
	}
	sort.SliceStable(stats.CommodityBreakdown, func(i, j int) bool {
		a, b := stats.CommodityBreakdown[i], stats.CommodityBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.CommodityGroup < b.CommodityGroup
	})
	return stats
}
