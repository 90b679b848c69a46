package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Category string

const (
	CategoryHighDailyUsage   Category = "high_daily_usage"
	CategoryGrowthSpike      Category = "growth_spike"
	CategoryGrowthDrop       Category = "growth_drop"
	CategoryLowBalance       Category = "low_balance"
	CategoryOnDemandCharges  Category = "on_demand_charges"
	CategoryDepletionSoon    Category = "depletion_soon"
	CategoryProjectedOverage Category = "projected_overage"
)

// Alert is one derived observation worth surfacing on the dashboard.
type Alert struct {
	ID       snowflake.ID `json:"id"`
	Severity Severity     `json:"severity"`
	Category Category     `json:"category"`
	Customer string       `json:"customer,omitempty"`
	Message  string       `json:"message"`
	Value    float64      `json:"value"`
}

// Request scopes alert evaluation.
type Request struct {
	Start      time.Time
	End        time.Time
	WindowDays int
}

type AlertsResponse struct {
	Source warehousedomain.Source `json:"source"`
	Alerts []Alert                `json:"alerts"`
}

// Service derives alerts from usage, balance, run-rate and contract data.
type Service interface {
	Evaluate(ctx context.Context, req Request) (AlertsResponse, error)
}
