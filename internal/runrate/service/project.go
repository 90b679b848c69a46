package service

import (
	"sort"
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate/domain"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// recentWindow selects rows with usage_date strictly after max_date − windowDays
// and measures the span actually covered. Rate divisions use the observed span,
// not the nominal window, so sparse history does not under-state the rate.
func recentWindow(usage []warehousedomain.UsageRow, windowDays int) ([]warehousedomain.UsageRow, time.Time, int, bool) {
	if len(usage) == 0 || windowDays <= 0 {
		return nil, time.Time{}, 0, false
	}

	maxDate := usage[0].UsageDate
	for _, row := range usage[1:] {
		if row.UsageDate.After(maxDate) {
			maxDate = row.UsageDate
		}
	}
	cutoff := maxDate.AddDate(0, 0, -windowDays)

	recent := make([]warehousedomain.UsageRow, 0, len(usage))
	for _, row := range usage {
		if row.UsageDate.After(cutoff) {
			recent = append(recent, row)
		}
	}
	if len(recent) == 0 {
		return nil, time.Time{}, 0, false
	}

	minDate := recent[0].UsageDate
	for _, row := range recent[1:] {
		if row.UsageDate.Before(minDate) {
			minDate = row.UsageDate
		}
	}
	actualDays := daysBetween(minDate, maxDate) + 1

	return recent, maxDate, actualDays, true
}

// projectOverall computes the portfolio-wide run rate. The boolean is false
// when there is no usage inside the window.
func projectOverall(usage []warehousedomain.UsageRow, balances []warehousedomain.BalanceRow, windowDays int) (domain.Overall, bool) {
	recent, _, actualDays, ok := recentWindow(usage, windowDays)
	if !ok {
		return domain.Overall{}, false
	}

	var totalCredits, totalCost float64
	periodStart := recent[0].UsageDate
	periodEnd := recent[0].UsageDate
	for _, row := range recent {
		totalCredits += row.Credits
		totalCost += row.Cost
		if row.UsageDate.Before(periodStart) {
			periodStart = row.UsageDate
		}
		if row.UsageDate.After(periodEnd) {
			periodEnd = row.UsageDate
		}
	}

	dailyCredits := totalCredits / float64(actualDays)
	dailyCost := totalCost / float64(actualDays)

	result := domain.Overall{
		DailyRateCredits:   dailyCredits,
		DailyRateCost:      dailyCost,
		WeeklyRateCredits:  dailyCredits * 7,
		WeeklyRateCost:     dailyCost * 7,
		MonthlyRateCredits: dailyCredits * 30,
		MonthlyRateCost:    dailyCost * 30,
		AnnualRateCredits:  dailyCredits * 365,
		AnnualRateCost:     dailyCost * 365,
		PeriodDays:         actualDays,
		PeriodStart:        periodStart,
		PeriodEnd:          periodEnd,
		HasData:            true,
	}

	if len(balances) > 0 {
		var totalBalance float64
		for _, row := range latestBalances(balances) {
			totalBalance += row.TotalBalance()
		}
		result.TotalBalance = &totalBalance
		result.DaysUntilDepletion = depletionDays(totalBalance, dailyCost)
	}

	return result, true
}

// projectByCustomer computes per-customer run rates over the shared window,
// ranked descending by daily credit rate.
func projectByCustomer(usage []warehousedomain.UsageRow, balances []warehousedomain.BalanceRow, windowDays int) []domain.CustomerRunRate {
	recent, _, actualDays, ok := recentWindow(usage, windowDays)
	if !ok {
		return []domain.CustomerRunRate{}
	}

	type accumulator struct {
		credits  float64
		cost     float64
		currency string
		start    time.Time
		end      time.Time
	}

	byCustomer := map[string]*accumulator{}
	order := []string{}
	for _, row := range recent {
		acc, seen := byCustomer[row.Customer]
		if !seen {
			acc = &accumulator{currency: row.Currency, start: row.UsageDate, end: row.UsageDate}
			byCustomer[row.Customer] = acc
			order = append(order, row.Customer)
		}
		acc.credits += row.Credits
		acc.cost += row.Cost
		if row.UsageDate.Before(acc.start) {
			acc.start = row.UsageDate
		}
		if row.UsageDate.After(acc.end) {
			acc.end = row.UsageDate
		}
	}

	latest := latestBalances(balances)

	results := make([]domain.CustomerRunRate, 0, len(order))
	for _, customer := range order {
		acc := byCustomer[customer]
		dailyCredits := acc.credits / float64(actualDays)
		dailyCost := acc.cost / float64(actualDays)

		var balance float64
		if row, ok := latest[customer]; ok {
			balance = row.TotalBalance()
		}

		result := domain.CustomerRunRate{
			Customer:                customer,
			TotalCredits:            acc.credits,
			TotalCost:               acc.cost,
			Currency:                acc.currency,
			PeriodStart:             acc.start,
			PeriodEnd:               acc.end,
			DailyRateCredits:        dailyCredits,
			DailyRateCost:           dailyCost,
			ProjectedMonthlyCredits: dailyCredits * 30,
			ProjectedMonthlyCost:    dailyCost * 30,
			CurrentBalance:          balance,
			PeriodDays:              actualDays,
		}
		if len(balances) > 0 {
			result.DaysUntilDepletion = depletionDays(balance, dailyCost)
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DailyRateCredits > results[j].DailyRateCredits
	})

	return results
}

// latestBalances picks each customer's most recent balance snapshot.
func latestBalances(balances []warehousedomain.BalanceRow) map[string]warehousedomain.BalanceRow {
	latest := map[string]warehousedomain.BalanceRow{}
	for _, row := range balances {
		current, ok := latest[row.Customer]
		if !ok || row.BalanceDate.After(current.BalanceDate) {
			latest[row.Customer] = row
		}
	}
	return latest
}

// depletionDays returns nil unless both balance and burn rate are positive.
// Nil means "cannot project", which is distinct from "already depleted".
func depletionDays(balance, dailyCost float64) *float64 {
	if dailyCost <= 0 || balance <= 0 {
		return nil
	}
	days := balance / dailyCost
	return &days
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
