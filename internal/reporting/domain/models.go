package domain

import (
	"context"
	"time"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// Request scopes an aggregation over the usage and balance views.
type Request struct {
	Start      time.Time
	End        time.Time
	Customer   string
	UsageTypes []string
}

// UsageTypeTotal is one usage type's share of total credits.
type UsageTypeTotal struct {
	UsageType string  `json:"usage_type"`
	Credits   float64 `json:"credits"`
}

// UsageSummary describes consumption across the selected period.
type UsageSummary struct {
	TotalCredits      float64 `json:"total_credits"`
	TotalCost         float64 `json:"total_cost"`
	DistinctCustomers int     `json:"distinct_customers"`
	DistinctAccounts  int     `json:"distinct_accounts"`

	FirstUsageDate *time.Time `json:"first_usage_date,omitempty"`
	LastUsageDate  *time.Time `json:"last_usage_date,omitempty"`

	TopUsageTypes   []UsageTypeTotal `json:"top_usage_types"`
	AvgDailyCredits float64          `json:"avg_daily_credits"`
}

// BalanceSummary aggregates the latest balance snapshot per customer.
type BalanceSummary struct {
	Customers int `json:"customers"`

	TotalFreeUsage float64 `json:"total_free_usage"`
	TotalCapacity  float64 `json:"total_capacity"`
	TotalRollover  float64 `json:"total_rollover"`
	TotalOnDemand  float64 `json:"total_on_demand"`

	CustomersWithBalance  int `json:"customers_with_balance"`
	CustomersWithOnDemand int `json:"customers_with_on_demand"`
}

// DailyUsagePoint is one day of the usage trend series.
type DailyUsagePoint struct {
	Date    time.Time `json:"date"`
	Credits float64   `json:"credits"`
	Cost    float64   `json:"cost"`
}

// TopCustomer is one customer's total consumption, ranked by credits.
type TopCustomer struct {
	Customer string  `json:"customer"`
	Credits  float64 `json:"credits"`
	Cost     float64 `json:"cost"`
}

// DrillDownRow is one group's sum, row count and mean for a chosen metric.
type DrillDownRow struct {
	Group string  `json:"group"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// Growth is the week-over-week style growth comparison of the two most
// recent equally sized windows of the daily series.
type Growth struct {
	Periods        int     `json:"periods"`
	CreditsPercent float64 `json:"credits_percent"`
	CostPercent    float64 `json:"cost_percent"`
}

type UsageSummaryResponse struct {
	Source  warehousedomain.Source `json:"source"`
	Summary UsageSummary           `json:"summary"`
}

type BalanceSummaryResponse struct {
	Source  warehousedomain.Source `json:"source"`
	Summary BalanceSummary         `json:"summary"`
}

type DailyUsageResponse struct {
	Source warehousedomain.Source `json:"source"`
	Points []DailyUsagePoint      `json:"points"`
}

type TopCustomersResponse struct {
	Source    warehousedomain.Source `json:"source"`
	Customers []TopCustomer          `json:"customers"`
}

type GrowthResponse struct {
	Source warehousedomain.Source `json:"source"`
	Growth Growth                 `json:"growth"`
}

// Service aggregates warehouse data into dashboard-shaped summaries.
type Service interface {
	UsageSummary(ctx context.Context, req Request) (UsageSummaryResponse, error)
	BalanceSummary(ctx context.Context, req Request) (BalanceSummaryResponse, error)
	DailyUsage(ctx context.Context, req Request) (DailyUsageResponse, error)
	TopCustomers(ctx context.Context, req Request, n int) (TopCustomersResponse, error)
	Growth(ctx context.Context, req Request) (GrowthResponse, error)
}
