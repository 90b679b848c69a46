// Package fallback wraps the warehouse loaders with the sample-data decision.
// Auth failures always propagate so the caller can ask for a manual retry;
// every other load failure serves the synthetic dataset when enabled.
package fallback

import (
	"context"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/clock"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	obsmetrics "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/observability/metrics"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/sample"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Warehouse domain.Service
	Log       *zap.Logger
	Reporting *config.ReportingConfigHolder
	Clock     clock.Clock
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

// Loader loads warehouse rows and tags each result with its effective source.
type Loader struct {
	warehouse domain.Service
	log       *zap.Logger
	reporting *config.ReportingConfigHolder
	clock     clock.Clock
	metrics   *obsmetrics.Metrics
}

func NewLoader(p Params) *Loader {
	return &Loader{
		warehouse: p.Warehouse,
		log:       p.Log.Named("warehouse.fallback"),
		reporting: p.Reporting,
		clock:     p.Clock,
		metrics:   p.Metrics,
	}
}

func (l *Loader) Usage(ctx context.Context, q domain.UsageQuery) ([]domain.UsageRow, domain.Source, error) {
	rows, err := l.warehouse.Usage(ctx, q)
	if err == nil {
		return rows, domain.SourceLive, nil
	}
	if !l.shouldFallback(err) {
		return nil, domain.SourceLive, err
	}
	l.recordFallback(err)
	return filterSampleUsage(sample.Usage(q.Start, q.End), q), domain.SourceSample, nil
}

func (l *Loader) Balances(ctx context.Context, q domain.BalanceQuery) ([]domain.BalanceRow, domain.Source, error) {
	rows, err := l.warehouse.Balances(ctx, q)
	if err == nil {
		return rows, domain.SourceLive, nil
	}
	if !l.shouldFallback(err) {
		return nil, domain.SourceLive, err
	}
	l.recordFallback(err)
	return filterSampleBalances(sample.Balances(q.Start, q.End), q.Customer), domain.SourceSample, nil
}

func (l *Loader) Contracts(ctx context.Context, q domain.ContractQuery) ([]domain.ContractRow, domain.Source, error) {
	rows, err := l.warehouse.Contracts(ctx, q)
	if err == nil {
		return rows, domain.SourceLive, nil
	}
	if !l.shouldFallback(err) {
		return nil, domain.SourceLive, err
	}
	l.recordFallback(err)

	return filterSampleContracts(sample.Contracts(l.clock.Now()), q.Customer), domain.SourceSample, nil
}

func (l *Loader) Customers(ctx context.Context) ([]string, domain.Source, error) {
	customers, err := l.warehouse.Customers(ctx)
	if err == nil {
		return customers, domain.SourceLive, nil
	}
	if !l.shouldFallback(err) {
		return nil, domain.SourceLive, err
	}
	l.recordFallback(err)
	return sample.Customers(), domain.SourceSample, nil
}

// Sample rows pass through the same filters the live SQL path applies, so
// callers cannot tell the two sources apart.
func filterSampleUsage(rows []domain.UsageRow, q domain.UsageQuery) []domain.UsageRow {
	types := map[string]struct{}{}
	for _, usageType := range q.UsageTypes {
		types[usageType] = struct{}{}
	}

	filtered := rows[:0]
	for _, row := range rows {
		if q.Customer != "" && row.Customer != q.Customer {
			continue
		}
		if len(types) > 0 {
			if _, ok := types[row.UsageType]; !ok {
				continue
			}
		}
		filtered = append(filtered, row)
	}
	return filtered
}

func filterSampleBalances(rows []domain.BalanceRow, customer string) []domain.BalanceRow {
	if customer == "" {
		return rows
	}
	filtered := rows[:0]
	for _, row := range rows {
		if row.Customer == customer {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func filterSampleContracts(rows []domain.ContractRow, customer string) []domain.ContractRow {
	if customer == "" {
		return rows
	}
	filtered := rows[:0]
	for _, row := range rows {
		if row.Customer == customer {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func (l *Loader) shouldFallback(err error) bool {
	if domain.IsAuthError(err) {
		return false
	}
	return l.reporting.Get().Query.SampleFallback
}

func (l *Loader) recordFallback(err error) {
	view := ""
	reason := string(domain.ErrorKindQuery)
	if srcErr, ok := domain.AsSourceError(err); ok {
		view = srcErr.View
		reason = string(srcErr.Kind)
	}
	l.metrics.RecordSampleFallback(view, reason)
	l.log.Warn("serving sample data", zap.String("view", view), zap.String("reason", reason))
}
