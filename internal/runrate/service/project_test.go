package service

import (
	"testing"
	"time"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	base := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func constantUsage(customer string, days int, credits, cost float64) []warehousedomain.UsageRow {
	rows := make([]warehousedomain.UsageRow, 0, days)
	for i := 0; i < days; i++ {
		rows = append(rows, warehousedomain.UsageRow{
			Customer:  customer,
			UsageDate: day(-i),
			UsageType: "compute",
			Currency:  "USD",
			Credits:   credits,
			Cost:      cost,
		})
	}
	return rows
}

func TestProjectOverallConstantDailyCost(t *testing.T) {
	// $300/day for the most recent 30 days with a 30-day window.
	usage := constantUsage("Acme Corporation", 30, 100, 300)

	result, ok := projectOverall(usage, nil, 30)
	require.True(t, ok)

	assert.InDelta(t, 300.0, result.DailyRateCost, 1e-9)
	assert.InDelta(t, 9000.0, result.MonthlyRateCost, 1e-9)
	assert.InDelta(t, 109500.0, result.AnnualRateCost, 1e-9)
	assert.Equal(t, 30, result.PeriodDays)
	assert.Nil(t, result.TotalBalance)
	assert.Nil(t, result.DaysUntilDepletion)
}

func TestProjectOverallDepletion(t *testing.T) {
	usage := constantUsage("Acme Corporation", 10, 20, 50)
	balances := []warehousedomain.BalanceRow{
		{Customer: "Acme Corporation", BalanceDate: day(0), Capacity: 1000},
	}

	result, ok := projectOverall(usage, balances, 10)
	require.True(t, ok)
	require.NotNil(t, result.TotalBalance)
	assert.InDelta(t, 1000.0, *result.TotalBalance, 1e-9)
	require.NotNil(t, result.DaysUntilDepletion)
	assert.InDelta(t, 20.0, *result.DaysUntilDepletion, 1e-9)
}

func TestProjectOverallDepletionGuards(t *testing.T) {
	// Zero burn rate: depletion cannot be projected.
	zeroUsage := constantUsage("Acme Corporation", 10, 0, 0)
	balances := []warehousedomain.BalanceRow{
		{Customer: "Acme Corporation", BalanceDate: day(0), Capacity: 1000},
	}
	result, ok := projectOverall(zeroUsage, balances, 10)
	require.True(t, ok)
	assert.Nil(t, result.DaysUntilDepletion)

	// Depleted balance: also nil, the caller distinguishes via balance <= 0.
	drained := []warehousedomain.BalanceRow{
		{Customer: "Acme Corporation", BalanceDate: day(0), Capacity: 0},
	}
	result, ok = projectOverall(constantUsage("Acme Corporation", 10, 20, 50), drained, 10)
	require.True(t, ok)
	assert.Nil(t, result.DaysUntilDepletion)
}

func TestProjectOverallWindowIsStrict(t *testing.T) {
	// One row exactly on the cutoff day must be excluded.
	usage := []warehousedomain.UsageRow{
		{Customer: "A", UsageDate: day(0), Credits: 10, Cost: 30},
		{Customer: "A", UsageDate: day(-7), Credits: 999, Cost: 999},
	}

	result, ok := projectOverall(usage, nil, 7)
	require.True(t, ok)
	assert.Equal(t, 1, result.PeriodDays)
	assert.InDelta(t, 10.0, result.DailyRateCredits, 1e-9)
}

func TestProjectOverallSparseHistoryUsesObservedSpan(t *testing.T) {
	// Only 3 days of history inside a 30-day window: divide by the observed
	// span, not the nominal window.
	usage := []warehousedomain.UsageRow{
		{Customer: "A", UsageDate: day(0), Credits: 30, Cost: 90},
		{Customer: "A", UsageDate: day(-1), Credits: 30, Cost: 90},
		{Customer: "A", UsageDate: day(-2), Credits: 30, Cost: 90},
	}

	result, ok := projectOverall(usage, nil, 30)
	require.True(t, ok)
	assert.Equal(t, 3, result.PeriodDays)
	assert.InDelta(t, 30.0, result.DailyRateCredits, 1e-9)
}

func TestProjectOverallEmpty(t *testing.T) {
	_, ok := projectOverall(nil, nil, 30)
	assert.False(t, ok)
}

func TestProjectByCustomerRanking(t *testing.T) {
	usage := append(
		constantUsage("SmallBiz Insights", 7, 10, 30),
		constantUsage("DataDriven Solutions", 7, 300, 900)...,
	)
	usage = append(usage, constantUsage("Acme Corporation", 7, 150, 450)...)

	results := projectByCustomer(usage, nil, 7)
	require.Len(t, results, 3)
	assert.Equal(t, "DataDriven Solutions", results[0].Customer)
	assert.Equal(t, "Acme Corporation", results[1].Customer)
	assert.Equal(t, "SmallBiz Insights", results[2].Customer)
}

func TestProjectByCustomerBalanceJoin(t *testing.T) {
	usage := constantUsage("Acme Corporation", 10, 20, 50)
	balances := []warehousedomain.BalanceRow{
		{Customer: "Acme Corporation", BalanceDate: day(-5), Capacity: 9999},
		{Customer: "Acme Corporation", BalanceDate: day(0), Capacity: 1000},
		{Customer: "Someone Else", BalanceDate: day(0), Capacity: 777},
	}

	results := projectByCustomer(usage, balances, 10)
	require.Len(t, results, 1)
	assert.InDelta(t, 1000.0, results[0].CurrentBalance, 1e-9)
	require.NotNil(t, results[0].DaysUntilDepletion)
	assert.InDelta(t, 20.0, *results[0].DaysUntilDepletion, 1e-9)
}

func TestProjectByCustomerMissingBalanceIsZero(t *testing.T) {
	usage := constantUsage("Acme Corporation", 7, 20, 50)
	balances := []warehousedomain.BalanceRow{
		{Customer: "Someone Else", BalanceDate: day(0), Capacity: 500},
	}

	results := projectByCustomer(usage, balances, 7)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].CurrentBalance)
	assert.Nil(t, results[0].DaysUntilDepletion)
}

func TestProjectByCustomerEmpty(t *testing.T) {
	assert.Empty(t, projectByCustomer(nil, nil, 7))
}
