package service

import (
	"context"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting/domain"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/fallback"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Loader    *fallback.Loader
	Log       *zap.Logger
	Reporting *config.ReportingConfigHolder
}

type Service struct {
	loader    *fallback.Loader
	log       *zap.Logger
	reporting *config.ReportingConfigHolder
}

func NewService(p Params) domain.Service {
	return &Service{
		loader:    p.Loader,
		log:       p.Log.Named("reporting.service"),
		reporting: p.Reporting,
	}
}

func (s *Service) UsageSummary(ctx context.Context, req domain.Request) (domain.UsageSummaryResponse, error) {
	usage, source, err := s.loadUsage(ctx, req)
	if err != nil {
		return domain.UsageSummaryResponse{}, err
	}
	return domain.UsageSummaryResponse{Source: source, Summary: summarizeUsage(usage)}, nil
}

func (s *Service) BalanceSummary(ctx context.Context, req domain.Request) (domain.BalanceSummaryResponse, error) {
	balances, source, err := s.loader.Balances(ctx, warehousedomain.BalanceQuery{
		Start:    req.Start,
		End:      req.End,
		Customer: req.Customer,
	})
	if err != nil {
		return domain.BalanceSummaryResponse{}, err
	}
	return domain.BalanceSummaryResponse{Source: source, Summary: summarizeBalances(balances)}, nil
}

func (s *Service) DailyUsage(ctx context.Context, req domain.Request) (domain.DailyUsageResponse, error) {
	usage, source, err := s.loadUsage(ctx, req)
	if err != nil {
		return domain.DailyUsageResponse{}, err
	}
	return domain.DailyUsageResponse{Source: source, Points: dailySeries(usage)}, nil
}

func (s *Service) TopCustomers(ctx context.Context, req domain.Request, n int) (domain.TopCustomersResponse, error) {
	usage, source, err := s.loadUsage(ctx, req)
	if err != nil {
		return domain.TopCustomersResponse{}, err
	}
	return domain.TopCustomersResponse{Source: source, Customers: topCustomers(usage, n)}, nil
}

func (s *Service) Growth(ctx context.Context, req domain.Request) (domain.GrowthResponse, error) {
	usage, source, err := s.loadUsage(ctx, req)
	if err != nil {
		return domain.GrowthResponse{}, err
	}

	periods := s.reporting.Get().RunRate.GrowthPeriods
	return domain.GrowthResponse{
		Source: source,
		Growth: domain.Growth{
			Periods:        periods,
			CreditsPercent: growthRate(usage, func(r warehousedomain.UsageRow) float64 { return r.Credits }, periods),
			CostPercent:    growthRate(usage, func(r warehousedomain.UsageRow) float64 { return r.Cost }, periods),
		},
	}, nil
}

func (s *Service) loadUsage(ctx context.Context, req domain.Request) ([]warehousedomain.UsageRow, warehousedomain.Source, error) {
	return s.loader.Usage(ctx, warehousedomain.UsageQuery{
		Start:      req.Start,
		End:        req.End,
		Customer:   req.Customer,
		UsageTypes: req.UsageTypes,
	})
}
