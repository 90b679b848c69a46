package service

import (
	"testing"
	"time"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usageDay(offset int) time.Time {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestSummarizeUsage(t *testing.T) {
	usage := []warehousedomain.UsageRow{
		{Customer: "Acme Corporation", AccountName: "acme-prod", UsageDate: usageDay(0), UsageType: "compute", Credits: 100, Cost: 300},
		{Customer: "Acme Corporation", AccountName: "acme-prod", UsageDate: usageDay(0), UsageType: "storage", Credits: 20, Cost: 60},
		{Customer: "TechStart Labs", AccountName: "techstart", UsageDate: usageDay(1), UsageType: "compute", Credits: 40, Cost: 120},
	}

	summary := summarizeUsage(usage)

	assert.InDelta(t, 160.0, summary.TotalCredits, 1e-9)
	assert.InDelta(t, 480.0, summary.TotalCost, 1e-9)
	assert.Equal(t, 2, summary.DistinctCustomers)
	assert.Equal(t, 2, summary.DistinctAccounts)
	require.NotNil(t, summary.FirstUsageDate)
	require.NotNil(t, summary.LastUsageDate)
	assert.Equal(t, usageDay(0), *summary.FirstUsageDate)
	assert.Equal(t, usageDay(1), *summary.LastUsageDate)

	require.Len(t, summary.TopUsageTypes, 2)
	assert.Equal(t, "compute", summary.TopUsageTypes[0].UsageType)
	assert.InDelta(t, 140.0, summary.TopUsageTypes[0].Credits, 1e-9)

	// Two days: 120 + 40 credits.
	assert.InDelta(t, 80.0, summary.AvgDailyCredits, 1e-9)
}

func TestSummarizeUsageTopTypesCapped(t *testing.T) {
	types := []string{"compute", "storage", "data transfer", "cloud services", "snowpipe", "serverless tasks"}
	usage := make([]warehousedomain.UsageRow, 0, len(types))
	for i, usageType := range types {
		usage = append(usage, warehousedomain.UsageRow{
			Customer:  "Acme Corporation",
			UsageDate: usageDay(0),
			UsageType: usageType,
			Credits:   float64(100 - i),
		})
	}

	summary := summarizeUsage(usage)
	require.Len(t, summary.TopUsageTypes, 5)
	assert.Equal(t, "compute", summary.TopUsageTypes[0].UsageType)
	for _, entry := range summary.TopUsageTypes {
		assert.NotEqual(t, "serverless tasks", entry.UsageType)
	}
}

func TestSummarizeUsageEmpty(t *testing.T) {
	summary := summarizeUsage(nil)
	assert.Zero(t, summary.TotalCredits)
	assert.Nil(t, summary.FirstUsageDate)
	assert.Nil(t, summary.LastUsageDate)
	assert.Empty(t, summary.TopUsageTypes)
	assert.Zero(t, summary.AvgDailyCredits)
}

func TestDailySeriesPartitionsTotals(t *testing.T) {
	usage := []warehousedomain.UsageRow{
		{Customer: "A", UsageDate: usageDay(2), Credits: 5, Cost: 15},
		{Customer: "B", UsageDate: usageDay(0), Credits: 10, Cost: 30},
		{Customer: "A", UsageDate: usageDay(0), Credits: 7, Cost: 21},
		{Customer: "C", UsageDate: usageDay(1), Credits: 3, Cost: 9},
	}

	points := dailySeries(usage)
	require.Len(t, points, 3)
	assert.True(t, points[0].Date.Before(points[1].Date))
	assert.True(t, points[1].Date.Before(points[2].Date))

	var totalCredits, totalCost float64
	for _, point := range points {
		totalCredits += point.Credits
		totalCost += point.Cost
	}
	assert.InDelta(t, 25.0, totalCredits, 1e-9)
	assert.InDelta(t, 75.0, totalCost, 1e-9)
}

func TestSummarizeBalances(t *testing.T) {
	balances := []warehousedomain.BalanceRow{
		{Customer: "Acme Corporation", BalanceDate: usageDay(0), FreeUsage: 100, Capacity: 900, Rollover: 50, OnDemand: 0},
		{Customer: "Acme Corporation", BalanceDate: usageDay(5), FreeUsage: 80, Capacity: 700, Rollover: 50, OnDemand: 0},
		{Customer: "TechStart Labs", BalanceDate: usageDay(5), FreeUsage: 0, Capacity: 0, Rollover: 0, OnDemand: -200},
	}

	summary := summarizeBalances(balances)
	assert.Equal(t, 2, summary.Customers)
	assert.InDelta(t, 80.0, summary.TotalFreeUsage, 1e-9)
	assert.InDelta(t, 700.0, summary.TotalCapacity, 1e-9)
	assert.InDelta(t, 50.0, summary.TotalRollover, 1e-9)
	assert.InDelta(t, -200.0, summary.TotalOnDemand, 1e-9)
	assert.Equal(t, 1, summary.CustomersWithBalance)
	assert.Equal(t, 1, summary.CustomersWithOnDemand)
}

func TestSummarizeBalancesEmpty(t *testing.T) {
	summary := summarizeBalances(nil)
	assert.Zero(t, summary.Customers)
	assert.Zero(t, summary.CustomersWithBalance)
}

func TestTopCustomers(t *testing.T) {
	usage := []warehousedomain.UsageRow{
		{Customer: "SmallBiz Insights", UsageDate: usageDay(0), Credits: 10, Cost: 30},
		{Customer: "DataDriven Solutions", UsageDate: usageDay(0), Credits: 300, Cost: 900},
		{Customer: "Acme Corporation", UsageDate: usageDay(0), Credits: 150, Cost: 450},
		{Customer: "DataDriven Solutions", UsageDate: usageDay(1), Credits: 50, Cost: 150},
	}

	top := topCustomers(usage, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "DataDriven Solutions", top[0].Customer)
	assert.InDelta(t, 350.0, top[0].Credits, 1e-9)
	assert.InDelta(t, 1050.0, top[0].Cost, 1e-9)
	assert.Equal(t, "Acme Corporation", top[1].Customer)
}

func TestDrillDownByUsageType(t *testing.T) {
	usage := []warehousedomain.UsageRow{
		{UsageType: "compute", Credits: 10},
		{UsageType: "compute", Credits: 30},
		{UsageType: "storage", Credits: 15},
	}

	rows := drillDown(usage,
		func(r warehousedomain.UsageRow) string { return r.UsageType },
		func(r warehousedomain.UsageRow) float64 { return r.Credits })

	require.Len(t, rows, 2)
	assert.Equal(t, "compute", rows[0].Group)
	assert.InDelta(t, 40.0, rows[0].Total, 1e-9)
	assert.Equal(t, 2, rows[0].Count)
	assert.InDelta(t, 20.0, rows[0].Mean, 1e-9)
	assert.Equal(t, "storage", rows[1].Group)
}

func growthRows(values ...float64) []warehousedomain.UsageRow {
	rows := make([]warehousedomain.UsageRow, 0, len(values))
	for i, v := range values {
		rows = append(rows, warehousedomain.UsageRow{
			UsageDate: usageDay(i),
			UsageType: "compute",
			Credits:   v,
			Cost:      v * 3,
		})
	}
	return rows
}

func rowCredits(r warehousedomain.UsageRow) float64 { return r.Credits }

func TestGrowthRate(t *testing.T) {
	// Previous window sums 70, recent 140: +100%.
	rows := growthRows(10, 10, 10, 10, 10, 10, 10, 20, 20, 20, 20, 20, 20, 20)
	assert.InDelta(t, 100.0, growthRate(rows, rowCredits, 7), 1e-9)
}

func TestGrowthRateRounding(t *testing.T) {
	rows := growthRows(3, 1)
	// (1-3)/3 = -66.666...% rounded to 2 decimals.
	assert.InDelta(t, -66.67, growthRate(rows, rowCredits, 1), 1e-9)
}

func TestGrowthRateWindowsByRowNotByDay(t *testing.T) {
	// 14 days, three usage types per day, credits rising by one per day. With
	// 7-row windows the boundary lands mid-day: recent covers one row of day
	// 11 plus all of days 12-13 (156 credits), previous covers two rows of
	// day 9 through two rows of day 11 (140 credits).
	rows := make([]warehousedomain.UsageRow, 0, 14*3)
	for day := 0; day < 14; day++ {
		for _, usageType := range []string{"compute", "storage", "serverless tasks"} {
			rows = append(rows, warehousedomain.UsageRow{
				UsageDate: usageDay(day),
				UsageType: usageType,
				Credits:   float64(10 + day),
			})
		}
	}
	assert.InDelta(t, 11.43, growthRate(rows, rowCredits, 7), 1e-9)
}

func TestGrowthRateShortSeries(t *testing.T) {
	rows := growthRows(10, 20, 30)
	assert.Zero(t, growthRate(rows, rowCredits, 7))
}

func TestGrowthRateZeroPrevious(t *testing.T) {
	rows := growthRows(0, 0, 10, 20)
	assert.Zero(t, growthRate(rows, rowCredits, 2))
}
