package service

import (
	"sort"
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/domain"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// contractCharts builds the consumption-versus-capacity series for each
// active contract with usage. The projected line starts at today carrying the
// last actual cumulative value forward at the recent daily rate, one point
// per day through the contract end.
func contractCharts(contracts []warehousedomain.ContractRow, usage []warehousedomain.UsageRow, today time.Time, windowDays int) []domain.Chart {
	charts := make([]domain.Chart, 0, len(contracts))
	for _, contract := range contracts {
		if contract.EndDate.Before(today) {
			continue
		}

		rows := contractUsage(usage, contract)
		if len(rows) == 0 {
			continue
		}

		actual := cumulativeDaily(rows)
		dailyRate, _ := recentDailyRate(rows, windowDays)

		current := actual[len(actual)-1].CumulativeCost
		projected := []domain.ChartPoint{}
		for i, date := 0, today; !date.After(contract.EndDate); i, date = i+1, date.AddDate(0, 0, 1) {
			projected = append(projected, domain.ChartPoint{
				Date:           date,
				DailyCost:      dailyRate,
				CumulativeCost: current + dailyRate*float64(i),
			})
		}

		charts = append(charts, domain.Chart{
			Customer:       contract.Customer,
			ContractNumber: contract.ContractNumber,
			ContractID:     contract.ContractItem,
			Capacity:       contract.Amount,
			Actual:         actual,
			Projected:      projected,
		})
	}
	return charts
}

// cumulativeDaily groups usage into a per-day cost series with a running sum,
// sorted ascending by date.
func cumulativeDaily(rows []warehousedomain.UsageRow) []domain.ChartPoint {
	byDay := map[int64]*domain.ChartPoint{}
	for _, row := range rows {
		key := row.UsageDate.Unix()
		point, ok := byDay[key]
		if !ok {
			point = &domain.ChartPoint{Date: row.UsageDate}
			byDay[key] = point
		}
		point.DailyCost += row.Cost
	}

	points := make([]domain.ChartPoint, 0, len(byDay))
	for _, point := range byDay {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	var running float64
	for i := range points {
		running += points[i].DailyCost
		points[i].CumulativeCost = running
	}
	return points
}
