package service

import (
	"math"
	"sort"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting/domain"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

const topUsageTypes = 5

// summarizeUsage aggregates the usage table into the dashboard headline
// numbers. Empty input yields a zero summary with no dates.
func summarizeUsage(usage []warehousedomain.UsageRow) domain.UsageSummary {
	summary := domain.UsageSummary{TopUsageTypes: []domain.UsageTypeTotal{}}
	if len(usage) == 0 {
		return summary
	}

	customers := map[string]struct{}{}
	accounts := map[string]struct{}{}
	byType := map[string]float64{}

	minDate := usage[0].UsageDate
	maxDate := usage[0].UsageDate
	for _, row := range usage {
		summary.TotalCredits += row.Credits
		summary.TotalCost += row.Cost
		customers[row.Customer] = struct{}{}
		accounts[row.AccountName] = struct{}{}
		byType[row.UsageType] += row.Credits
		if row.UsageDate.Before(minDate) {
			minDate = row.UsageDate
		}
		if row.UsageDate.After(maxDate) {
			maxDate = row.UsageDate
		}
	}

	summary.DistinctCustomers = len(customers)
	summary.DistinctAccounts = len(accounts)
	summary.FirstUsageDate = &minDate
	summary.LastUsageDate = &maxDate

	types := make([]domain.UsageTypeTotal, 0, len(byType))
	for usageType, credits := range byType {
		types = append(types, domain.UsageTypeTotal{UsageType: usageType, Credits: credits})
	}
	sort.SliceStable(types, func(i, j int) bool {
		if types[i].Credits != types[j].Credits {
			return types[i].Credits > types[j].Credits
		}
		return types[i].UsageType < types[j].UsageType
	})
	if len(types) > topUsageTypes {
		types = types[:topUsageTypes]
	}
	summary.TopUsageTypes = types

	if daily := dailySeries(usage); len(daily) > 0 {
		var sum float64
		for _, point := range daily {
			sum += point.Credits
		}
		summary.AvgDailyCredits = sum / float64(len(daily))
	}

	return summary
}

// summarizeBalances keeps each customer's most recent snapshot and totals
// the balance components across customers.
func summarizeBalances(balances []warehousedomain.BalanceRow) domain.BalanceSummary {
	latest := map[string]warehousedomain.BalanceRow{}
	for _, row := range balances {
		current, ok := latest[row.Customer]
		if !ok || row.BalanceDate.After(current.BalanceDate) {
			latest[row.Customer] = row
		}
	}

	summary := domain.BalanceSummary{Customers: len(latest)}
	for _, row := range latest {
		summary.TotalFreeUsage += row.FreeUsage
		summary.TotalCapacity += row.Capacity
		summary.TotalRollover += row.Rollover
		summary.TotalOnDemand += row.OnDemand
		if row.TotalBalance() > 0 {
			summary.CustomersWithBalance++
		}
		if row.OnDemand < 0 {
			summary.CustomersWithOnDemand++
		}
	}
	return summary
}

// dailySeries groups usage by day, sorted ascending by date. The per-day sums
// partition the totals: they add back up to the table totals exactly.
func dailySeries(usage []warehousedomain.UsageRow) []domain.DailyUsagePoint {
	byDay := map[int64]*domain.DailyUsagePoint{}
	for _, row := range usage {
		key := row.UsageDate.Unix()
		point, ok := byDay[key]
		if !ok {
			point = &domain.DailyUsagePoint{Date: row.UsageDate}
			byDay[key] = point
		}
		point.Credits += row.Credits
		point.Cost += row.Cost
	}

	points := make([]domain.DailyUsagePoint, 0, len(byDay))
	for _, point := range byDay {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// topCustomers ranks customers by total credits, keeping the first n.
func topCustomers(usage []warehousedomain.UsageRow, n int) []domain.TopCustomer {
	rows := drillDown(usage, func(r warehousedomain.UsageRow) string { return r.Customer },
		func(r warehousedomain.UsageRow) float64 { return r.Credits })

	cost := map[string]float64{}
	for _, row := range usage {
		cost[row.Customer] += row.Cost
	}

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	results := make([]domain.TopCustomer, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.TopCustomer{
			Customer: row.Group,
			Credits:  row.Total,
			Cost:     cost[row.Group],
		})
	}
	return results
}

// drillDown sums, counts and averages a metric per group, ranked descending
// by total with a name tiebreak for deterministic output.
func drillDown(usage []warehousedomain.UsageRow, groupBy func(warehousedomain.UsageRow) string, metric func(warehousedomain.UsageRow) float64) []domain.DrillDownRow {
	totals := map[string]*domain.DrillDownRow{}
	order := []string{}
	for _, row := range usage {
		group := groupBy(row)
		entry, ok := totals[group]
		if !ok {
			entry = &domain.DrillDownRow{Group: group}
			totals[group] = entry
			order = append(order, group)
		}
		entry.Total += metric(row)
		entry.Count++
	}

	results := make([]domain.DrillDownRow, 0, len(order))
	for _, group := range order {
		entry := totals[group]
		entry.Mean = entry.Total / float64(entry.Count)
		results = append(results, *entry)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Total != results[j].Total {
			return results[i].Total > results[j].Total
		}
		return results[i].Group < results[j].Group
	})
	return results
}

// growthRate compares the two most recent windows of `periods` rows, sorted
// by usage date. The windows count raw rows, not calendar days: usage is
// broken out by type, so a single day spans several rows and a window
// boundary can land mid-day. Returns 0 when fewer than two full windows of
// rows exist or the previous window sums to 0.
func growthRate(usage []warehousedomain.UsageRow, metric func(warehousedomain.UsageRow) float64, periods int) float64 {
	if periods <= 0 || len(usage) < periods*2 {
		return 0
	}

	rows := make([]warehousedomain.UsageRow, len(usage))
	copy(rows, usage)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UsageDate.Before(rows[j].UsageDate)
	})

	var recent, previous float64
	for _, row := range rows[len(rows)-periods:] {
		recent += metric(row)
	}
	for _, row := range rows[len(rows)-periods*2 : len(rows)-periods] {
		previous += metric(row)
	}
	if previous == 0 {
		return 0
	}
	return math.Round((recent-previous)/previous*10000) / 100
}
