package service

import (
	"strings"
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

const unknownCategory = "unknown"

// cleanUsage normalizes rows at the load boundary: dates become UTC civil
// dates, categorical fields are trimmed and lower-cased, missing categories
// become "unknown". Idempotent, and a no-op on an empty slice.
func cleanUsage(rows []domain.UsageRow) []domain.UsageRow {
	for i := range rows {
		rows[i].UsageDate = civilDate(rows[i].UsageDate)
		rows[i].Organization = strings.TrimSpace(rows[i].Organization)
		rows[i].Customer = strings.TrimSpace(rows[i].Customer)
		rows[i].ContractNumber = strings.TrimSpace(rows[i].ContractNumber)
		rows[i].AccountName = strings.TrimSpace(rows[i].AccountName)
		rows[i].AccountLocator = strings.TrimSpace(rows[i].AccountLocator)
		rows[i].Region = strings.TrimSpace(rows[i].Region)
		rows[i].ServiceLevel = strings.TrimSpace(rows[i].ServiceLevel)
		rows[i].Currency = strings.TrimSpace(rows[i].Currency)
		rows[i].UsageType = cleanCategory(rows[i].UsageType)
		rows[i].BalanceSource = cleanCategory(rows[i].BalanceSource)
	}
	return rows
}

func cleanBalances(rows []domain.BalanceRow) []domain.BalanceRow {
	for i := range rows {
		rows[i].BalanceDate = civilDate(rows[i].BalanceDate)
		rows[i].Organization = strings.TrimSpace(rows[i].Organization)
		rows[i].Customer = strings.TrimSpace(rows[i].Customer)
		rows[i].ContractNumber = strings.TrimSpace(rows[i].ContractNumber)
		rows[i].Currency = strings.TrimSpace(rows[i].Currency)
	}
	return rows
}

func cleanContracts(rows []domain.ContractRow) []domain.ContractRow {
	for i := range rows {
		rows[i].StartDate = civilDate(rows[i].StartDate)
		rows[i].EndDate = civilDate(rows[i].EndDate)
		rows[i].Customer = strings.TrimSpace(rows[i].Customer)
		rows[i].ContractNumber = strings.TrimSpace(rows[i].ContractNumber)
		rows[i].ContractItem = strings.TrimSpace(rows[i].ContractItem)
		rows[i].Currency = strings.TrimSpace(rows[i].Currency)
	}
	return rows
}

func cleanCategory(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return unknownCategory
	}
	return value
}

// civilDate drops the time-of-day component and pins the date to UTC.
func civilDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
