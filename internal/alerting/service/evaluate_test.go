package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/alerting/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	contractdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/domain"
	reportingdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting/domain"
	runratedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate/domain"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testThresholds() config.AlertThresholds {
	return config.DefaultReportingConfig().Alerts
}

func sequentialIDs() func() snowflake.ID {
	var next int64
	return func() snowflake.ID {
		next++
		return snowflake.ID(next)
	}
}

func categories(alerts []domain.Alert) []domain.Category {
	out := make([]domain.Category, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, alert.Category)
	}
	return out
}

func TestEvaluateEmptyInputs(t *testing.T) {
	alerts := evaluate(inputs{}, testThresholds(), sequentialIDs())
	assert.Empty(t, alerts)
}

func TestEvaluateHighDailyUsage(t *testing.T) {
	in := inputs{summary: reportingdomain.UsageSummary{AvgDailyCredits: 1500}}

	alerts := evaluate(in, testThresholds(), sequentialIDs())
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.CategoryHighDailyUsage, alerts[0].Category)
	assert.Equal(t, domain.SeverityWarning, alerts[0].Severity)
	assert.InDelta(t, 1500.0, alerts[0].Value, 1e-9)
	assert.NotZero(t, alerts[0].ID)
}

func TestEvaluateGrowth(t *testing.T) {
	spike := evaluate(inputs{growth: reportingdomain.Growth{Periods: 7, CreditsPercent: 75}}, testThresholds(), sequentialIDs())
	require.Len(t, spike, 1)
	assert.Equal(t, domain.CategoryGrowthSpike, spike[0].Category)

	drop := evaluate(inputs{growth: reportingdomain.Growth{Periods: 7, CreditsPercent: -35}}, testThresholds(), sequentialIDs())
	require.Len(t, drop, 1)
	assert.Equal(t, domain.CategoryGrowthDrop, drop[0].Category)
	assert.Equal(t, domain.SeverityInfo, drop[0].Severity)

	flat := evaluate(inputs{growth: reportingdomain.Growth{Periods: 7, CreditsPercent: 5}}, testThresholds(), sequentialIDs())
	assert.Empty(t, flat)
}

func TestEvaluateBalanceRules(t *testing.T) {
	in := inputs{balances: []warehousedomain.BalanceRow{
		{Customer: "SmallBiz Insights", Currency: "USD", Capacity: 400},
		{Customer: "TechStart Labs", Currency: "USD", Capacity: 5000, OnDemand: -900},
		{Customer: "Acme Corporation", Currency: "USD", Capacity: 50000},
	}}

	alerts := evaluate(in, testThresholds(), sequentialIDs())
	require.Len(t, alerts, 2)
	assert.Contains(t, categories(alerts), domain.CategoryLowBalance)
	assert.Contains(t, categories(alerts), domain.CategoryOnDemandCharges)
}

func TestEvaluateBalanceUsesLatestSnapshot(t *testing.T) {
	early := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	in := inputs{balances: []warehousedomain.BalanceRow{
		{Customer: "Acme Corporation", BalanceDate: early, Capacity: 100},
		{Customer: "Acme Corporation", BalanceDate: late, Capacity: 50000},
	}}

	alerts := evaluate(in, testThresholds(), sequentialIDs())
	assert.Empty(t, alerts)
}

func TestEvaluateDepletion(t *testing.T) {
	soon := 12.0
	far := 200.0
	in := inputs{customers: []runratedomain.CustomerRunRate{
		{Customer: "SmallBiz Insights", DaysUntilDepletion: &soon},
		{Customer: "Acme Corporation", DaysUntilDepletion: &far},
		{Customer: "TechStart Labs"},
	}}

	alerts := evaluate(in, testThresholds(), sequentialIDs())
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.CategoryDepletionSoon, alerts[0].Category)
	assert.Equal(t, domain.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "SmallBiz Insights", alerts[0].Customer)
}

func TestEvaluateProjectedOverage(t *testing.T) {
	overageDate := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	days := 35.0
	in := inputs{contracts: []contractdomain.Metrics{
		{Customer: "Acme Corporation", ContractNumber: "CT-1", Currency: "USD", Overage: 2000},
		{Customer: "TechStart Labs", ContractNumber: "CT-2", Currency: "USD", OverageDate: &overageDate, DaysUntilOverage: &days},
		{Customer: "Global Analytics Co", ContractNumber: "CT-3", Currency: "USD"},
	}}

	alerts := evaluate(in, testThresholds(), sequentialIDs())
	require.Len(t, alerts, 2)
	assert.Equal(t, domain.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "Acme Corporation", alerts[0].Customer)
	assert.Equal(t, domain.SeverityWarning, alerts[1].Severity)
}

func TestEvaluateOrdersBySeverity(t *testing.T) {
	soon := 5.0
	in := inputs{
		summary:   reportingdomain.UsageSummary{AvgDailyCredits: 2000},
		customers: []runratedomain.CustomerRunRate{{Customer: "SmallBiz Insights", DaysUntilDepletion: &soon}},
	}

	alerts := evaluate(in, testThresholds(), sequentialIDs())
	require.Len(t, alerts, 2)
	assert.Equal(t, domain.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, domain.SeverityWarning, alerts[1].Severity)
}
