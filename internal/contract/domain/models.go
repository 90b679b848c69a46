package domain

import (
	"context"
	"time"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// Request scopes the contract metrics computation.
type Request struct {
	Customer   string
	WindowDays int
}

// Metrics describes one active contract's consumption against its capacity.
type Metrics struct {
	Customer       string    `json:"customer"`
	ContractNumber string    `json:"contract_number"`
	ContractID     string    `json:"contract_id"`
	Currency       string    `json:"currency"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`

	Capacity    float64 `json:"capacity"`
	TotalUsed   float64 `json:"total_used"`
	Overage     float64 `json:"overage"`
	Remaining   float64 `json:"remaining"`
	UsedPercent float64 `json:"used_percent"`

	DailyRunRate  float64 `json:"daily_run_rate"`
	AnnualRunRate float64 `json:"annual_run_rate"`

	DaysUntilOverage *float64   `json:"days_until_overage,omitempty"`
	OverageDate      *time.Time `json:"overage_date,omitempty"`

	DaysInContract int `json:"days_in_contract"`
	DaysElapsed    int `json:"days_elapsed"`
	RunRatePeriod  int `json:"run_rate_period"`
}

// ChartPoint is one day of a consumption line.
type ChartPoint struct {
	Date           time.Time `json:"date"`
	DailyCost      float64   `json:"daily_cost"`
	CumulativeCost float64   `json:"cumulative_cost"`
}

// Chart is the consumption-versus-capacity series for one contract: the
// actual cumulative spend so far, then a flat-rate projection continuing from
// the last actual value out to the contract end.
type Chart struct {
	Customer       string       `json:"customer"`
	ContractNumber string       `json:"contract_number"`
	ContractID     string       `json:"contract_id"`
	Capacity       float64      `json:"capacity"`
	Actual         []ChartPoint `json:"actual"`
	Projected      []ChartPoint `json:"projected"`
}

type MetricsResponse struct {
	Source    warehousedomain.Source `json:"source"`
	Contracts []Metrics              `json:"contracts"`
}

type ChartResponse struct {
	Source warehousedomain.Source `json:"source"`
	Charts []Chart                `json:"charts"`
}

// Service computes contract depletion metrics and chart series.
type Service interface {
	Metrics(ctx context.Context, req Request) (MetricsResponse, error)
	Chart(ctx context.Context, req Request) (ChartResponse, error)
}
