package service

import (
	"context"
	"fmt"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/clock"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/export/domain"
	obsmetrics "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/observability/metrics"
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
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	loader    *fallback.Loader
	log       *zap.Logger
	reporting *config.ReportingConfigHolder
	clock     clock.Clock
	metrics   *obsmetrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		loader:    p.Loader,
		log:       p.Log.Named("export.service"),
		reporting: p.Reporting,
		clock:     p.Clock,
		metrics:   p.Metrics,
	}
}

func (s *Service) Usage(ctx context.Context, req domain.Request) (domain.Export, error) {
	rows, source, err := s.loader.Usage(ctx, warehousedomain.UsageQuery{
		Start:      req.Start,
		End:        req.End,
		Customer:   req.Customer,
		UsageTypes: req.UsageTypes,
	})
	if err != nil {
		return domain.Export{}, err
	}

	data, err := usageCSV(rows)
	if err != nil {
		return domain.Export{}, err
	}
	return s.export("usage", s.reporting.Get().Export.UsageFilename, source, data), nil
}

func (s *Service) Balances(ctx context.Context, req domain.Request) (domain.Export, error) {
	rows, source, err := s.loader.Balances(ctx, warehousedomain.BalanceQuery{
		Start:    req.Start,
		End:      req.End,
		Customer: req.Customer,
	})
	if err != nil {
		return domain.Export{}, err
	}

	data, err := balanceCSV(rows)
	if err != nil {
		return domain.Export{}, err
	}
	return s.export("balances", s.reporting.Get().Export.BalanceFilename, source, data), nil
}

func (s *Service) Contracts(ctx context.Context, req domain.Request) (domain.Export, error) {
	rows, source, err := s.loader.Contracts(ctx, warehousedomain.ContractQuery{Customer: req.Customer})
	if err != nil {
		return domain.Export{}, err
	}

	data, err := contractCSV(rows)
	if err != nil {
		return domain.Export{}, err
	}
	return s.export("contracts", s.reporting.Get().Export.ContractFilename, source, data), nil
}

func (s *Service) export(table, template string, source warehousedomain.Source, data []byte) domain.Export {
	if len(data) > 0 {
		s.metrics.RecordExport(table)
	}
	return domain.Export{
		Filename: fmt.Sprintf(template, s.clock.Now().UTC().Format("2006-01-02")),
		Source:   source,
		Data:     data,
	}
}
