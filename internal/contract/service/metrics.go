package service

import (
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/domain"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// contractMetrics computes depletion metrics for every active contract.
// Contracts whose window holds no usage are skipped rather than reported at
// zero percent.
func contractMetrics(contracts []warehousedomain.ContractRow, usage []warehousedomain.UsageRow, today time.Time, windowDays int) []domain.Metrics {
	results := make([]domain.Metrics, 0, len(contracts))
	for _, contract := range contracts {
		if contract.EndDate.Before(today) {
			continue
		}

		rows := contractUsage(usage, contract)
		if len(rows) == 0 {
			continue
		}

		var totalUsed float64
		for _, row := range rows {
			totalUsed += row.Cost
		}

		capacity := contract.Amount
		overage := totalUsed - capacity
		if overage < 0 {
			overage = 0
		}
		remaining := capacity - totalUsed

		var usedPercent float64
		if capacity > 0 {
			usedPercent = totalUsed / capacity * 100
		}

		dailyRate, periodDays := recentDailyRate(rows, windowDays)

		metrics := domain.Metrics{
			Customer:       contract.Customer,
			ContractNumber: contract.ContractNumber,
			ContractID:     contract.ContractItem,
			Currency:       contract.Currency,
			StartDate:      contract.StartDate,
			EndDate:        contract.EndDate,
			Capacity:       capacity,
			TotalUsed:      totalUsed,
			Overage:        overage,
			Remaining:      remaining,
			UsedPercent:    usedPercent,
			DailyRunRate:   dailyRate,
			AnnualRunRate:  dailyRate * 365,
			DaysInContract: daysBetween(contract.StartDate, contract.EndDate),
			DaysElapsed:    daysBetween(contract.StartDate, today),
			RunRatePeriod:  windowDays,
		}

		// A zero-length observation window leaves the projection undefined.
		if periodDays > 0 {
			if days, ok := daysUntilOverage(dailyRate, remaining, today, contract.EndDate); ok {
				metrics.DaysUntilOverage = &days
				if date := overageDate(today, days, contract.EndDate); date != nil {
					metrics.OverageDate = date
				}
			}
		}

		results = append(results, metrics)
	}
	return results
}

// contractUsage restricts usage rows to the contract's customer and its
// [start, end] window, inclusive on both ends.
func contractUsage(usage []warehousedomain.UsageRow, contract warehousedomain.ContractRow) []warehousedomain.UsageRow {
	rows := make([]warehousedomain.UsageRow, 0, len(usage))
	for _, row := range usage {
		if row.Customer != contract.Customer {
			continue
		}
		if row.UsageDate.Before(contract.StartDate) || row.UsageDate.After(contract.EndDate) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// recentDailyRate derives the burn rate from rows strictly after
// max_date − windowDays, divided by the span those rows actually cover.
func recentDailyRate(rows []warehousedomain.UsageRow, windowDays int) (float64, int) {
	if len(rows) == 0 || windowDays <= 0 {
		return 0, 0
	}

	maxDate := rows[0].UsageDate
	for _, row := range rows[1:] {
		if row.UsageDate.After(maxDate) {
			maxDate = row.UsageDate
		}
	}
	cutoff := maxDate.AddDate(0, 0, -windowDays)

	var total float64
	minDate := maxDate
	seen := false
	for _, row := range rows {
		if !row.UsageDate.After(cutoff) {
			continue
		}
		total += row.Cost
		seen = true
		if row.UsageDate.Before(minDate) {
			minDate = row.UsageDate
		}
	}
	if !seen {
		return 0, 0
	}

	actualDays := daysBetween(minDate, maxDate) + 1
	return total / float64(actualDays), actualDays
}

// daysUntilOverage applies the three-branch projection rule. With a positive
// rate and remaining funds the answer is remaining/rate. Already over
// capacity is 0 days. Without a usable rate the contract simply runs out at
// its end date.
func daysUntilOverage(dailyRate, remaining float64, today, end time.Time) (float64, bool) {
	switch {
	case dailyRate > 0 && remaining > 0:
		return remaining / dailyRate, true
	case remaining <= 0:
		return 0, true
	case dailyRate <= 0 && remaining > 0:
		return float64(daysBetween(today, end)), true
	}
	return 0, false
}

// overageDate is nil when the projected date falls past the contract end.
func overageDate(today time.Time, days float64, end time.Time) *time.Time {
	date := today.AddDate(0, 0, int(days))
	if date.After(end) {
		return nil
	}
	return &date
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
