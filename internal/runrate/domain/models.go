package domain

import (
	"context"
	"time"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// Request scopes a run-rate projection.
type Request struct {
	Start      time.Time
	End        time.Time
	Customer   string
	UsageTypes []string
	WindowDays int
}

// Overall is the portfolio-wide projection over the observation window.
type Overall struct {
	DailyRateCredits   float64 `json:"daily_rate_credits"`
	DailyRateCost      float64 `json:"daily_rate_cost"`
	WeeklyRateCredits  float64 `json:"weekly_rate_credits"`
	WeeklyRateCost     float64 `json:"weekly_rate_cost"`
	MonthlyRateCredits float64 `json:"monthly_rate_credits"`
	MonthlyRateCost    float64 `json:"monthly_rate_cost"`
	AnnualRateCredits  float64 `json:"annual_rate_credits"`
	AnnualRateCost     float64 `json:"annual_rate_cost"`

	PeriodDays  int       `json:"period_days"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	TotalBalance       *float64 `json:"total_balance,omitempty"`
	DaysUntilDepletion *float64 `json:"days_until_depletion,omitempty"`

	HasData bool `json:"has_data"`
}

// CustomerRunRate is one customer's projection, ranked by daily credit rate.
type CustomerRunRate struct {
	Customer     string    `json:"customer"`
	TotalCredits float64   `json:"total_credits"`
	TotalCost    float64   `json:"total_cost"`
	Currency     string    `json:"currency"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`

	DailyRateCredits        float64 `json:"daily_rate_credits"`
	DailyRateCost           float64 `json:"daily_rate_cost"`
	ProjectedMonthlyCredits float64 `json:"projected_monthly_credits"`
	ProjectedMonthlyCost    float64 `json:"projected_monthly_cost"`

	CurrentBalance     float64  `json:"current_balance"`
	DaysUntilDepletion *float64 `json:"days_until_depletion,omitempty"`
	PeriodDays         int      `json:"period_days"`
}

// OverallResponse tags the projection with its effective data source.
type OverallResponse struct {
	Source  warehousedomain.Source `json:"source"`
	RunRate Overall                `json:"run_rate"`
}

// CustomersResponse is the ranked per-customer projection table.
type CustomersResponse struct {
	Source    warehousedomain.Source `json:"source"`
	Customers []CustomerRunRate      `json:"customers"`
}

// Service computes consumption run rates and depletion horizons.
type Service interface {
	Overall(ctx context.Context, req Request) (OverallResponse, error)
	ByCustomer(ctx context.Context, req Request) (CustomersResponse, error)
}
