package service

import (
	"testing"
	"time"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func contractFixture(customer string, amount float64) warehousedomain.ContractRow {
	return warehousedomain.ContractRow{
		Customer:       customer,
		ContractNumber: "CT-1001",
		ContractItem:   "Snowflake Credits",
		StartDate:      testToday.AddDate(0, 0, -100),
		EndDate:        testToday.AddDate(0, 0, 100),
		Amount:         amount,
		Currency:       "USD",
	}
}

func dailyCost(customer string, days int, cost float64) []warehousedomain.UsageRow {
	rows := make([]warehousedomain.UsageRow, 0, days)
	for i := 0; i < days; i++ {
		rows = append(rows, warehousedomain.UsageRow{
			Customer:  customer,
			UsageDate: testToday.AddDate(0, 0, -i),
			UsageType: "compute",
			Currency:  "USD",
			Credits:   cost / 3,
			Cost:      cost,
		})
	}
	return rows
}

func TestContractMetricsOverCapacity(t *testing.T) {
	contract := contractFixture("Acme Corporation", 10000)
	usage := dailyCost("Acme Corporation", 30, 400) // 12000 used

	results := contractMetrics([]warehousedomain.ContractRow{contract}, usage, testToday, 30)
	require.Len(t, results, 1)
	m := results[0]

	assert.InDelta(t, 12000.0, m.TotalUsed, 1e-9)
	assert.InDelta(t, 2000.0, m.Overage, 1e-9)
	assert.InDelta(t, -2000.0, m.Remaining, 1e-9)
	assert.InDelta(t, 120.0, m.UsedPercent, 1e-9)
	require.NotNil(t, m.DaysUntilOverage)
	assert.Zero(t, *m.DaysUntilOverage)
	require.NotNil(t, m.OverageDate)
	assert.Equal(t, testToday, *m.OverageDate)
}

func TestContractMetricsProjectedOverage(t *testing.T) {
	contract := contractFixture("Acme Corporation", 10000)
	usage := dailyCost("Acme Corporation", 30, 100) // 3000 used, 100/day

	results := contractMetrics([]warehousedomain.ContractRow{contract}, usage, testToday, 30)
	require.Len(t, results, 1)
	m := results[0]

	assert.InDelta(t, 100.0, m.DailyRunRate, 1e-9)
	assert.InDelta(t, 36500.0, m.AnnualRunRate, 1e-9)
	assert.InDelta(t, 7000.0, m.Remaining, 1e-9)
	assert.Zero(t, m.Overage)
	require.NotNil(t, m.DaysUntilOverage)
	assert.InDelta(t, 70.0, *m.DaysUntilOverage, 1e-9)
	require.NotNil(t, m.OverageDate)
	assert.Equal(t, testToday.AddDate(0, 0, 70), *m.OverageDate)
	assert.Equal(t, 200, m.DaysInContract)
	assert.Equal(t, 100, m.DaysElapsed)
	assert.Equal(t, 30, m.RunRatePeriod)
	assert.Equal(t, "Snowflake Credits", m.ContractID)
}

func TestContractMetricsReportsNominalWindow(t *testing.T) {
	contract := contractFixture("Acme Corporation", 10000)
	usage := dailyCost("Acme Corporation", 5, 100)

	results := contractMetrics([]warehousedomain.ContractRow{contract}, usage, testToday, 30)
	require.Len(t, results, 1)
	m := results[0]

	// The reported period is the requested window even when the observed
	// history is shorter; the rate itself divides by the 5-day span.
	assert.Equal(t, 30, m.RunRatePeriod)
	assert.InDelta(t, 100.0, m.DailyRunRate, 1e-9)
}

func TestContractMetricsOverageBeyondEndHasNoDate(t *testing.T) {
	contract := contractFixture("Acme Corporation", 10000)
	usage := dailyCost("Acme Corporation", 30, 10) // 300 used, 10/day

	results := contractMetrics([]warehousedomain.ContractRow{contract}, usage, testToday, 30)
	require.Len(t, results, 1)
	m := results[0]

	require.NotNil(t, m.DaysUntilOverage)
	assert.InDelta(t, 970.0, *m.DaysUntilOverage, 1e-9)
	assert.Nil(t, m.OverageDate)
}

func TestContractMetricsZeroRateFallsBackToCalendar(t *testing.T) {
	contract := contractFixture("Acme Corporation", 10000)
	usage := dailyCost("Acme Corporation", 10, 0)

	results := contractMetrics([]warehousedomain.ContractRow{contract}, usage, testToday, 30)
	require.Len(t, results, 1)
	m := results[0]

	assert.Zero(t, m.DailyRunRate)
	require.NotNil(t, m.DaysUntilOverage)
	assert.InDelta(t, 100.0, *m.DaysUntilOverage, 1e-9)
}

func TestContractMetricsSkipsExpiredAndUnused(t *testing.T) {
	expired := contractFixture("Acme Corporation", 10000)
	expired.EndDate = testToday.AddDate(0, 0, -1)

	unused := contractFixture("TechStart Labs", 5000)

	usage := dailyCost("Acme Corporation", 10, 100)
	results := contractMetrics([]warehousedomain.ContractRow{expired, unused}, usage, testToday, 30)
	assert.Empty(t, results)
}

func TestContractMetricsZeroCapacity(t *testing.T) {
	contract := contractFixture("Acme Corporation", 0)
	usage := dailyCost("Acme Corporation", 10, 100)

	results := contractMetrics([]warehousedomain.ContractRow{contract}, usage, testToday, 30)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].UsedPercent)
	assert.InDelta(t, 1000.0, results[0].Overage, 1e-9)
}

func TestContractChartsProjectionContinuesActual(t *testing.T) {
	contract := contractFixture("Acme Corporation", 10000)
	usage := dailyCost("Acme Corporation", 30, 100)

	charts := contractCharts([]warehousedomain.ContractRow{contract}, usage, testToday, 30)
	require.Len(t, charts, 1)
	chart := charts[0]

	assert.InDelta(t, 10000.0, chart.Capacity, 1e-9)
	require.Len(t, chart.Actual, 30)
	assert.InDelta(t, 3000.0, chart.Actual[len(chart.Actual)-1].CumulativeCost, 1e-9)

	// One point per day from today through the contract end.
	require.Len(t, chart.Projected, 101)
	first := chart.Projected[0]
	assert.Equal(t, testToday, first.Date)
	assert.InDelta(t, 3000.0, first.CumulativeCost, 1e-9)
	last := chart.Projected[len(chart.Projected)-1]
	assert.Equal(t, contract.EndDate, last.Date)
	assert.InDelta(t, 3000.0+100.0*100, last.CumulativeCost, 1e-9)
}

func TestContractChartsEmptyUsage(t *testing.T) {
	contract := contractFixture("Acme Corporation", 10000)
	assert.Empty(t, contractCharts([]warehousedomain.ContractRow{contract}, nil, testToday, 30))
}
