package domain

import "time"

// Source tags whether a dataset came from the live warehouse or the built-in
// sample generator.
type Source string

const (
	SourceLive   Source = "live"
	SourceSample Source = "sample"
)

// UsageRow is one day of metered consumption for one account and usage type.
type UsageRow struct {
	Organization   string    `json:"organization"`
	Customer       string    `json:"customer"`
	ContractNumber string    `json:"contract_number"`
	AccountName    string    `json:"account_name"`
	AccountLocator string    `json:"account_locator"`
	Region         string    `json:"region"`
	ServiceLevel   string    `json:"service_level"`
	UsageDate      time.Time `json:"usage_date"`
	UsageType      string    `json:"usage_type"`
	BalanceSource  string    `json:"balance_source"`
	Currency       string    `json:"currency"`
	Credits        float64   `json:"credits_used"`
	Cost           float64   `json:"usage_in_currency"`
}

// BalanceRow is a daily remaining-balance snapshot for one customer.
type BalanceRow struct {
	Organization   string    `json:"organization"`
	Customer       string    `json:"customer"`
	ContractNumber string    `json:"contract_number"`
	BalanceDate    time.Time `json:"balance_date"`
	Currency       string    `json:"currency"`
	FreeUsage      float64   `json:"free_usage_balance"`
	Capacity       float64   `json:"capacity_balance"`
	OnDemand       float64   `json:"on_demand_consumption_balance"`
	Rollover       float64   `json:"rollover_balance"`
}

// TotalBalance is the funds still available for consumption. On-demand is
// excluded: a negative on-demand balance is consumption beyond prepaid funds,
// not available balance.
func (b BalanceRow) TotalBalance() float64 {
	return b.FreeUsage + b.Capacity + b.Rollover
}

// ContractRow is one purchased capacity contract item.
type ContractRow struct {
	Customer       string    `json:"customer"`
	ContractNumber string    `json:"contract_number"`
	ContractItem   string    `json:"contract_item"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
}

// UsageQuery selects usage rows by date range and optional filters.
type UsageQuery struct {
	Start      time.Time
	End        time.Time
	Customer   string
	UsageTypes []string
}

// BalanceQuery selects balance snapshots by date range and optional customer.
type BalanceQuery struct {
	Start    time.Time
	End      time.Time
	Customer string
}

// ContractQuery selects contract items, optionally for one customer.
type ContractQuery struct {
	Customer string
}
