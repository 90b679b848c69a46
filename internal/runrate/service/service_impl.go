package service

import (
	"context"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/fallback"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
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
		log:       p.Log.Named("runrate.service"),
		reporting: p.Reporting,
	}
}

func (s *Service) Overall(ctx context.Context, req domain.Request) (domain.OverallResponse, error) {
	usage, balances, source, err := s.load(ctx, req)
	if err != nil {
		return domain.OverallResponse{}, err
	}

	result, _ := projectOverall(usage, balances, s.windowDays(req))
	return domain.OverallResponse{Source: source, RunRate: result}, nil
}

func (s *Service) ByCustomer(ctx context.Context, req domain.Request) (domain.CustomersResponse, error) {
	usage, balances, source, err := s.load(ctx, req)
	if err != nil {
		return domain.CustomersResponse{}, err
	}

	return domain.CustomersResponse{
		Source:    source,
		Customers: projectByCustomer(usage, balances, s.windowDays(req)),
	}, nil
}

func (s *Service) load(ctx context.Context, req domain.Request) ([]warehousedomain.UsageRow, []warehousedomain.BalanceRow, warehousedomain.Source, error) {
	usage, usageSource, err := s.loader.Usage(ctx, warehousedomain.UsageQuery{
		Start:      req.Start,
		End:        req.End,
		Customer:   req.Customer,
		UsageTypes: req.UsageTypes,
	})
	if err != nil {
		return nil, nil, usageSource, err
	}

	balances, balanceSource, err := s.loader.Balances(ctx, warehousedomain.BalanceQuery{
		Start:    req.Start,
		End:      req.End,
		Customer: req.Customer,
	})
	if err != nil {
		return nil, nil, balanceSource, err
	}

	source := usageSource
	if balanceSource == warehousedomain.SourceSample {
		source = warehousedomain.SourceSample
	}
	return usage, balances, source, nil
}

func (s *Service) windowDays(req domain.Request) int {
	if req.WindowDays > 0 {
		return req.WindowDays
	}
	return s.reporting.Get().RunRate.DefaultWindowDays
}
