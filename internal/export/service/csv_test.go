package service

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestUsageCSVRoundsMoneyColumns(t *testing.T) {
	rows := []warehousedomain.UsageRow{{
		Organization:   "Reseller Org",
		Customer:       "Acme Corporation",
		ContractNumber: "CT-1001",
		AccountName:    "acme-prod",
		AccountLocator: "AB12345",
		Region:         "us-east-1",
		ServiceLevel:   "standard",
		UsageDate:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		UsageType:      "compute",
		BalanceSource:  "capacity",
		Currency:       "USD",
		Credits:        12.3456789,
		Cost:           37.0370367,
	}}

	data, err := usageCSV(rows)
	require.NoError(t, err)
	records := parseCSV(t, data)
	require.Len(t, records, 2)
	assert.Equal(t, usageHeaders, records[0])

	record := records[1]
	assert.Equal(t, "2025-06-15", record[7])
	// CREDITS_USED passes through, USAGE_IN_CURRENCY is money-like.
	assert.Equal(t, "12.3456789", record[11])
	assert.Equal(t, "37.04", record[12])
}

func TestBalanceCSVRoundsAllBalanceColumns(t *testing.T) {
	rows := []warehousedomain.BalanceRow{{
		Customer:    "Acme Corporation",
		BalanceDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Currency:    "USD",
		FreeUsage:   10.005,
		Capacity:    999.999,
		OnDemand:    -500.005,
		Rollover:    0.004,
	}}

	data, err := balanceCSV(rows)
	require.NoError(t, err)
	records := parseCSV(t, data)
	require.Len(t, records, 2)

	record := records[1]
	assert.Equal(t, "10.01", record[5])
	assert.Equal(t, "1000", record[6])
	assert.Equal(t, "-500.01", record[7])
	assert.Equal(t, "0", record[8])
}

func TestContractCSV(t *testing.T) {
	rows := []warehousedomain.ContractRow{{
		Customer:       "Acme Corporation",
		ContractNumber: "CT-1001",
		ContractItem:   "Snowflake Credits",
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Amount:         150000.123,
		Currency:       "USD",
	}}

	data, err := contractCSV(rows)
	require.NoError(t, err)
	records := parseCSV(t, data)
	require.Len(t, records, 2)
	assert.Equal(t, "150000.12", records[1][5])
}

func TestEmptyTablesProduceNoPayload(t *testing.T) {
	data, err := usageCSV(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = balanceCSV(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = contractCSV(nil)
	require.NoError(t, err)
	assert.Nil(t, data)
}
