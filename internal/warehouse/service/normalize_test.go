package service

import (
	"testing"
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/stretchr/testify/assert"
)

func TestCleanUsage(t *testing.T) {
	rows := []domain.UsageRow{
		{
			Customer:      "  Acme Corporation ",
			UsageDate:     time.Date(2025, 5, 1, 13, 45, 12, 0, time.FixedZone("X", 3600)),
			UsageType:     "  Compute ",
			BalanceSource: "",
			Currency:      " USD",
		},
	}

	cleaned := cleanUsage(rows)

	assert.Equal(t, "Acme Corporation", cleaned[0].Customer)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), cleaned[0].UsageDate)
	assert.Equal(t, "compute", cleaned[0].UsageType)
	assert.Equal(t, "unknown", cleaned[0].BalanceSource)
	assert.Equal(t, "USD", cleaned[0].Currency)
}

func TestCleanUsageIdempotent(t *testing.T) {
	rows := []domain.UsageRow{
		{
			Customer:  "Acme Corporation",
			UsageDate: time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC),
			UsageType: "Data Transfer",
			Credits:   12.5,
		},
	}

	once := cleanUsage(rows)
	first := make([]domain.UsageRow, len(once))
	copy(first, once)

	twice := cleanUsage(once)
	assert.Equal(t, first, twice)
}

func TestCleanUsageEmpty(t *testing.T) {
	assert.Empty(t, cleanUsage(nil))
	assert.Empty(t, cleanUsage([]domain.UsageRow{}))
}

func TestCleanBalancesAndContracts(t *testing.T) {
	balances := cleanBalances([]domain.BalanceRow{
		{
			Customer:    " TechStart Labs ",
			BalanceDate: time.Date(2025, 5, 2, 23, 59, 59, 0, time.UTC),
			FreeUsage:   10,
			Capacity:    100,
			Rollover:    5,
		},
	})
	assert.Equal(t, "TechStart Labs", balances[0].Customer)
	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), balances[0].BalanceDate)
	assert.Equal(t, 115.0, balances[0].TotalBalance())

	contracts := cleanContracts([]domain.ContractRow{
		{
			Customer:     "TechStart Labs",
			ContractItem: " Snowflake Credits ",
			StartDate:    time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC),
		},
	})
	assert.Equal(t, "Snowflake Credits", contracts[0].ContractItem)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), contracts[0].StartDate)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), contracts[0].EndDate)
}
