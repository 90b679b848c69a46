package service

import (
	"context"
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/clock"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/domain"
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
	Clock     clock.Clock
}

type Service struct {
	loader    *fallback.Loader
	log       *zap.Logger
	reporting *config.ReportingConfigHolder
	clock     clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		loader:    p.Loader,
		log:       p.Log.Named("contract.service"),
		reporting: p.Reporting,
		clock:     p.Clock,
	}
}

func (s *Service) Metrics(ctx context.Context, req domain.Request) (domain.MetricsResponse, error) {
	contracts, usage, source, err := s.load(ctx, req.Customer)
	if err != nil {
		return domain.MetricsResponse{}, err
	}
	return domain.MetricsResponse{
		Source:    source,
		Contracts: contractMetrics(contracts, usage, s.today(), s.windowDays(req)),
	}, nil
}

func (s *Service) Chart(ctx context.Context, req domain.Request) (domain.ChartResponse, error) {
	contracts, usage, source, err := s.load(ctx, req.Customer)
	if err != nil {
		return domain.ChartResponse{}, err
	}
	return domain.ChartResponse{
		Source: source,
		Charts: contractCharts(contracts, usage, s.today(), s.windowDays(req)),
	}, nil
}

func (s *Service) load(ctx context.Context, customer string) ([]warehousedomain.ContractRow, []warehousedomain.UsageRow, warehousedomain.Source, error) {
	contracts, contractSource, err := s.loader.Contracts(ctx, warehousedomain.ContractQuery{Customer: customer})
	if err != nil {
		return nil, nil, contractSource, err
	}
	if len(contracts) == 0 {
		return nil, nil, contractSource, nil
	}

	start := contracts[0].StartDate
	end := contracts[0].EndDate
	for _, contract := range contracts[1:] {
		if contract.StartDate.Before(start) {
			start = contract.StartDate
		}
		if contract.EndDate.After(end) {
			end = contract.EndDate
		}
	}

	usage, usageSource, err := s.loader.Usage(ctx, warehousedomain.UsageQuery{
		Start:    start,
		End:      end,
		Customer: customer,
	})
	if err != nil {
		return nil, nil, usageSource, err
	}

	source := contractSource
	if usageSource == warehousedomain.SourceSample {
		source = warehousedomain.SourceSample
	}
	return contracts, usage, source, nil
}

func (s *Service) today() time.Time {
	now := s.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) windowDays(req domain.Request) int {
	if req.WindowDays > 0 {
		return req.WindowDays
	}
	return s.reporting.Get().RunRate.DefaultWindowDays
}
