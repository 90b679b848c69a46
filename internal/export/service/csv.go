package service

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/shopspring/decimal"
)

const csvDateLayout = "2006-01-02"

var usageHeaders = []string{
	"ORGANIZATION_NAME", "SOLD_TO_CUSTOMER_NAME", "SOLD_TO_CONTRACT_NUMBER",
	"ACCOUNT_NAME", "ACCOUNT_LOCATOR", "REGION", "SERVICE_LEVEL",
	"USAGE_DATE", "USAGE_TYPE", "BALANCE_SOURCE", "CURRENCY",
	"CREDITS_USED", "USAGE_IN_CURRENCY",
}

var balanceHeaders = []string{
	"ORGANIZATION_NAME", "SOLD_TO_CUSTOMER_NAME", "SOLD_TO_CONTRACT_NUMBER",
	"BALANCE_DATE", "CURRENCY", "FREE_USAGE_BALANCE", "CAPACITY_BALANCE",
	"ON_DEMAND_CONSUMPTION_BALANCE", "ROLLOVER_BALANCE",
}

var contractHeaders = []string{
	"SOLD_TO_CUSTOMER_NAME", "SOLD_TO_CONTRACT_NUMBER", "CONTRACT_ITEM",
	"START_DATE", "END_DATE", "AMOUNT", "CURRENCY",
}

func usageCSV(rows []warehousedomain.UsageRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Organization, row.Customer, row.ContractNumber,
			row.AccountName, row.AccountLocator, row.Region, row.ServiceLevel,
			row.UsageDate.Format(csvDateLayout), row.UsageType, row.BalanceSource, row.Currency,
			numericCell("CREDITS_USED", row.Credits),
			numericCell("USAGE_IN_CURRENCY", row.Cost),
		})
	}
	return marshalCSV(usageHeaders, records)
}

func balanceCSV(rows []warehousedomain.BalanceRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Organization, row.Customer, row.ContractNumber,
			row.BalanceDate.Format(csvDateLayout), row.Currency,
			numericCell("FREE_USAGE_BALANCE", row.FreeUsage),
			numericCell("CAPACITY_BALANCE", row.Capacity),
			numericCell("ON_DEMAND_CONSUMPTION_BALANCE", row.OnDemand),
			numericCell("ROLLOVER_BALANCE", row.Rollover),
		})
	}
	return marshalCSV(balanceHeaders, records)
}

func contractCSV(rows []warehousedomain.ContractRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Customer, row.ContractNumber, row.ContractItem,
			row.StartDate.Format(csvDateLayout), row.EndDate.Format(csvDateLayout),
			numericCell("AMOUNT", row.Amount), row.Currency,
		})
	}
	return marshalCSV(contractHeaders, records)
}

// numericCell formats a numeric column. Columns whose name carries BALANCE,
// USAGE or AMOUNT are money-like and rounded to 2 decimals.
func numericCell(column string, v float64) string {
	if strings.Contains(column, "BALANCE") || strings.Contains(column, "USAGE") || strings.Contains(column, "AMOUNT") {
		return decimal.NewFromFloat(v).Round(2).String()
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func marshalCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
