package service

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/alerting/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	contractdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/domain"
	reportingdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting/domain"
	runratedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate/domain"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// inputs gathers the already-aggregated views the rules read from.
type inputs struct {
	summary   reportingdomain.UsageSummary
	growth    reportingdomain.Growth
	customers []runratedomain.CustomerRunRate
	balances  []warehousedomain.BalanceRow
	contracts []contractdomain.Metrics
}

// evaluate applies every threshold rule. Empty inputs produce zero alerts.
func evaluate(in inputs, thresholds config.AlertThresholds, nextID func() snowflake.ID) []domain.Alert {
	alerts := []domain.Alert{}

	add := func(severity domain.Severity, category domain.Category, customer, message string, value float64) {
		alerts = append(alerts, domain.Alert{
			ID:       nextID(),
			Severity: severity,
			Category: category,
			Customer: customer,
			Message:  message,
			Value:    value,
		})
	}

	if in.summary.AvgDailyCredits > thresholds.HighDailyCredits {
		add(domain.SeverityWarning, domain.CategoryHighDailyUsage, "",
			fmt.Sprintf("average daily consumption of %.1f credits exceeds %.0f", in.summary.AvgDailyCredits, thresholds.HighDailyCredits),
			in.summary.AvgDailyCredits)
	}

	if in.growth.Periods > 0 {
		switch {
		case in.growth.CreditsPercent >= thresholds.GrowthSpikePercent && thresholds.GrowthSpikePercent > 0:
			add(domain.SeverityWarning, domain.CategoryGrowthSpike, "",
				fmt.Sprintf("credit consumption grew %.1f%% over the last %d days", in.growth.CreditsPercent, in.growth.Periods),
				in.growth.CreditsPercent)
		case in.growth.CreditsPercent <= thresholds.GrowthDropPercent && thresholds.GrowthDropPercent < 0:
			add(domain.SeverityInfo, domain.CategoryGrowthDrop, "",
				fmt.Sprintf("credit consumption fell %.1f%% over the last %d days", -in.growth.CreditsPercent, in.growth.Periods),
				in.growth.CreditsPercent)
		}
	}

	for _, row := range latestBalances(in.balances) {
		if total := row.TotalBalance(); total < thresholds.LowBalance {
			add(domain.SeverityWarning, domain.CategoryLowBalance, row.Customer,
				fmt.Sprintf("remaining balance %.2f %s is below %.0f", total, row.Currency, thresholds.LowBalance),
				total)
		}
		if row.OnDemand < thresholds.OnDemandBalance {
			add(domain.SeverityCritical, domain.CategoryOnDemandCharges, row.Customer,
				fmt.Sprintf("on-demand consumption of %.2f %s beyond prepaid capacity", row.OnDemand, row.Currency),
				row.OnDemand)
		}
	}

	horizon := float64(thresholds.DepletionHorizonDays)
	for _, customer := range in.customers {
		if customer.DaysUntilDepletion == nil || horizon <= 0 {
			continue
		}
		if days := *customer.DaysUntilDepletion; days <= horizon {
			add(domain.SeverityCritical, domain.CategoryDepletionSoon, customer.Customer,
				fmt.Sprintf("balance depletes in %.0f days at the current run rate", days),
				days)
		}
	}

	if thresholds.OverageLookaheadAlert {
		for _, contract := range in.contracts {
			switch {
			case contract.Overage > 0:
				add(domain.SeverityCritical, domain.CategoryProjectedOverage, contract.Customer,
					fmt.Sprintf("contract %s is %.2f %s over its purchased capacity", contract.ContractNumber, contract.Overage, contract.Currency),
					contract.Overage)
			case contract.OverageDate != nil:
				add(domain.SeverityWarning, domain.CategoryProjectedOverage, contract.Customer,
					fmt.Sprintf("contract %s projected to exceed capacity on %s", contract.ContractNumber, contract.OverageDate.Format("2006-01-02")),
					*contract.DaysUntilOverage)
			}
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})
	return alerts
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityCritical:
		return 0
	case domain.SeverityWarning:
		return 1
	default:
		return 2
	}
}

func latestBalances(balances []warehousedomain.BalanceRow) []warehousedomain.BalanceRow {
	latest := map[string]warehousedomain.BalanceRow{}
	order := []string{}
	for _, row := range balances {
		current, ok := latest[row.Customer]
		if !ok {
			order = append(order, row.Customer)
		}
		if !ok || row.BalanceDate.After(current.BalanceDate) {
			latest[row.Customer] = row
		}
	}

	rows := make([]warehousedomain.BalanceRow, 0, len(order))
	for _, customer := range order {
		rows = append(rows, latest[customer])
	}
	return rows
}
