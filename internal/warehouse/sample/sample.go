// Package sample generates a deterministic synthetic dataset with the same
// shape as the warehouse views. It backs the dashboard when the live source
// is unavailable.
package sample

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

const (
	seed           = 42
	costPerCredit  = 3.00
	weekendFactor  = 0.4
	dailyTrendStep = 0.002
)

type customer struct {
	Name       string
	Org        string
	Contract   string
	Tier       string
	Multiplier float64
	Capacity   float64
	Free       float64
	Rollover   float64
	Amount     float64
}

var customers = []customer{
	{"Acme Corporation", "Acme Inc", "ACME-2024-001", "enterprise", 1.5, 50000, 1000, 5000, 150000},
	{"TechStart Labs", "TechStart Holdings", "TSL-2024-002", "standard", 0.6, 15000, 500, 1000, 45000},
	{"Global Analytics Co", "Global Analytics", "GAC-2024-003", "enterprise", 2.2, 100000, 2000, 10000, 300000},
	{"DataDriven Solutions", "DataDriven Group", "DDS-2024-004", "business_critical", 3.0, 200000, 5000, 25000, 600000},
	{"SmallBiz Insights", "SmallBiz LLC", "SBI-2024-005", "standard", 0.3, 5000, 200, 500, 15000},
}

var usageTypeWeights = []struct {
	Name   string
	Weight float64
}{
	{"compute", 0.5},
	{"storage", 0.2},
	{"data transfer", 0.1},
	{"cloud services", 0.1},
	{"snowpipe", 0.05},
	{"serverless tasks", 0.05},
}

var regions = []string{"AWS_US_WEST_2", "AWS_US_EAST_1", "AZURE_EASTUS2", "AWS_EU_WEST_1"}

var balanceSources = []string{"capacity", "free usage", "rollover"}

// Usage returns synthetic usage rows covering [start, end], five customers
// with a weekend dip and a slight growth trend, priced at $3 per credit.
func Usage(start, end time.Time) []domain.UsageRow {
	start = civil(start)
	end = civil(end)
	if end.Before(start) {
		return []domain.UsageRow{}
	}

	rng := rand.New(rand.NewSource(seed))
	rows := []domain.UsageRow{}

	for _, c := range customers {
		baseDaily := 100 * c.Multiplier

		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dayFactor := 1.0
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				dayFactor = weekendFactor
			}
			trendFactor := 1 + float64(daysBetween(start, d))*dailyTrendStep
			randomFactor := 0.7 + rng.Float64()*0.6

			for _, ut := range usageTypeWeights {
				credits := baseDaily * ut.Weight * dayFactor * trendFactor * randomFactor
				credits = math.Max(0, credits+rng.NormFloat64()*credits*0.1)
				if credits <= 0.01 {
					continue
				}

				rows = append(rows, domain.UsageRow{
					Organization:   c.Org,
					Customer:       c.Name,
					ContractNumber: c.Contract,
					AccountName:    accountName(c.Name),
					AccountLocator: fmt.Sprintf("LOC%05d", locator(c.Name)),
					Region:         regions[rng.Intn(len(regions))],
					ServiceLevel:   c.Tier,
					UsageDate:      d,
					UsageType:      ut.Name,
					BalanceSource:  balanceSources[rng.Intn(len(balanceSources))],
					Currency:       "USD",
					Credits:        round4(credits),
					Cost:           round2(credits * costPerCredit),
				})
			}
		}
	}

	return rows
}

// Balances returns synthetic daily balance snapshots for [start, end],
// drawing down free funds first, then rollover, then capacity.
func Balances(start, end time.Time) []domain.BalanceRow {
	start = civil(start)
	end = civil(end)
	if end.Before(start) {
		return []domain.BalanceRow{}
	}

	rng := rand.New(rand.NewSource(seed))
	rows := []domain.BalanceRow{}

	for _, c := range customers {
		dailyBurn := 100 * c.Multiplier * costPerCredit

		capacityBal := c.Capacity
		freeBal := c.Free
		rolloverBal := c.Rollover

		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			consumption := dailyBurn * (0.8 + rng.Float64()*0.4)

			if freeBal > 0 {
				freeBal -= math.Min(freeBal, consumption*0.1)
			}
			if rolloverBal > 0 {
				rolloverBal -= math.Min(rolloverBal, consumption*0.1)
			}
			capacityBal = math.Max(0, capacityBal-consumption*0.8)

			rows = append(rows, domain.BalanceRow{
				Organization:   c.Org,
				Customer:       c.Name,
				ContractNumber: c.Contract,
				BalanceDate:    d,
				Currency:       "USD",
				FreeUsage:      round2(math.Max(0, freeBal)),
				Capacity:       round2(capacityBal),
				OnDemand:       0,
				Rollover:       round2(math.Max(0, rolloverBal)),
			})
		}
	}

	return rows
}

// Contracts returns one synthetic contract item per customer, running from
// 180 days before today through 185 days after.
func Contracts(today time.Time) []domain.ContractRow {
	today = civil(today)
	rows := make([]domain.ContractRow, 0, len(customers))

	for _, c := range customers {
		rows = append(rows, domain.ContractRow{
			Customer:       c.Name,
			ContractNumber: c.Contract,
			ContractItem:   "Snowflake Credits",
			StartDate:      today.AddDate(0, 0, -180),
			EndDate:        today.AddDate(0, 0, 185),
			Amount:         c.Amount,
			Currency:       "USD",
		})
	}

	return rows
}

// Customers returns the synthetic customer names in stable order.
func Customers() []string {
	names := make([]string, 0, len(customers))
	for _, c := range customers {
		names = append(names, c.Name)
	}
	return names
}

func accountName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_")) + "_account"
}

func locator(name string) int {
	sum := 0
	for _, r := range name {
		sum = sum*31 + int(r)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum % 100000
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
