package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/clock"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWarehouse struct {
	usage     []domain.UsageRow
	balances  []domain.BalanceRow
	contracts []domain.ContractRow
	customers []string
	err       error
}

func (s *stubWarehouse) Usage(context.Context, domain.UsageQuery) ([]domain.UsageRow, error) {
	return s.usage, s.err
}

func (s *stubWarehouse) Balances(context.Context, domain.BalanceQuery) ([]domain.BalanceRow, error) {
	return s.balances, s.err
}

func (s *stubWarehouse) Contracts(context.Context, domain.ContractQuery) ([]domain.ContractRow, error) {
	return s.contracts, s.err
}

func (s *stubWarehouse) Customers(context.Context) ([]string, error) {
	return s.customers, s.err
}

func newTestLoader(warehouse domain.Service, sampleFallback bool) *Loader {
	cfg := config.DefaultReportingConfig()
	cfg.Query.SampleFallback = sampleFallback
	return NewLoader(Params{
		Warehouse: warehouse,
		Log:       zap.NewNop(),
		Reporting: config.NewStaticReportingConfigHolder(cfg),
		Clock:     clock.NewFakeClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)),
	})
}

func TestLoaderPassesThroughLiveData(t *testing.T) {
	warehouse := &stubWarehouse{usage: []domain.UsageRow{{Customer: "Acme Corporation"}}}
	loader := newTestLoader(warehouse, true)

	rows, source, err := loader.Usage(context.Background(), domain.UsageQuery{})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceLive, source)
	assert.Len(t, rows, 1)
}

func TestLoaderFallsBackOnQueryError(t *testing.T) {
	warehouse := &stubWarehouse{err: &domain.SourceError{
		Kind: domain.ErrorKindQuery,
		View: "partner_usage_in_currency_daily",
		Err:  errors.New("syntax error"),
	}}
	loader := newTestLoader(warehouse, true)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	rows, source, err := loader.Usage(context.Background(), domain.UsageQuery{Start: start, End: end})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSample, source)
	assert.NotEmpty(t, rows)
}

func TestLoaderNeverFallsBackOnAuthError(t *testing.T) {
	authErr := &domain.SourceError{
		Kind: domain.ErrorKindAuth,
		View: "partner_usage_in_currency_daily",
		Err:  errors.New("password authentication failed"),
	}
	loader := newTestLoader(&stubWarehouse{err: authErr}, true)

	_, source, err := loader.Usage(context.Background(), domain.UsageQuery{})
	require.Error(t, err)
	assert.Equal(t, domain.SourceLive, source)
	assert.True(t, domain.IsAuthError(err))
}

func TestLoaderRespectsDisabledFallback(t *testing.T) {
	queryErr := &domain.SourceError{
		Kind: domain.ErrorKindConnection,
		View: "partner_remaining_balance_daily",
		Err:  errors.New("connection refused"),
	}
	loader := newTestLoader(&stubWarehouse{err: queryErr}, false)

	_, _, err := loader.Balances(context.Background(), domain.BalanceQuery{})
	assert.Error(t, err)
}

func TestLoaderUsageFallbackAppliesQueryFilters(t *testing.T) {
	warehouse := &stubWarehouse{err: &domain.SourceError{
		Kind: domain.ErrorKindQuery,
		View: "partner_usage_in_currency_daily",
		Err:  errors.New("syntax error"),
	}}
	loader := newTestLoader(warehouse, true)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	rows, source, err := loader.Usage(context.Background(), domain.UsageQuery{
		Start:      start,
		End:        end,
		Customer:   "Acme Corporation",
		UsageTypes: []string{"compute"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSample, source)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Equal(t, "Acme Corporation", row.Customer)
		assert.Equal(t, "compute", row.UsageType)
	}
}

func TestLoaderBalanceFallbackFiltersCustomer(t *testing.T) {
	warehouse := &stubWarehouse{err: &domain.SourceError{
		Kind: domain.ErrorKindQuery,
		View: "partner_remaining_balance_daily",
		Err:  errors.New("syntax error"),
	}}
	loader := newTestLoader(warehouse, true)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	rows, source, err := loader.Balances(context.Background(), domain.BalanceQuery{
		Start:    start,
		End:      end,
		Customer: "SmallBiz Insights",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSample, source)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Equal(t, "SmallBiz Insights", row.Customer)
	}
}

func TestLoaderContractFallbackFiltersCustomer(t *testing.T) {
	warehouse := &stubWarehouse{err: &domain.SourceError{
		Kind: domain.ErrorKindQuery,
		View: "partner_contract_items",
		Err:  errors.New("table not found"),
	}}
	loader := newTestLoader(warehouse, true)

	rows, source, err := loader.Contracts(context.Background(), domain.ContractQuery{Customer: "Acme Corporation"})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSample, source)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Equal(t, "Acme Corporation", row.Customer)
	}
}

func TestLoaderCustomersFallback(t *testing.T) {
	warehouse := &stubWarehouse{err: &domain.SourceError{
		Kind: domain.ErrorKindQuery,
		View: "partner_usage_in_currency_daily",
		Err:  errors.New("boom"),
	}}
	loader := newTestLoader(warehouse, true)

	customers, source, err := loader.Customers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSample, source)
	assert.Contains(t, customers, "Acme Corporation")
}
