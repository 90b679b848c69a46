package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/alerting/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	contractdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/domain"
	reportingdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting/domain"
	runratedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate/domain"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/fallback"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Loader    *fallback.Loader
	Reporting *config.ReportingConfigHolder
	Usage     reportingdomain.Service
	RunRate   runratedomain.Service
	Contracts contractdomain.Service
	Node      *snowflake.Node
	Log       *zap.Logger
}

type Service struct {
	loader    *fallback.Loader
	reporting *config.ReportingConfigHolder
	usage     reportingdomain.Service
	runRate   runratedomain.Service
	contracts contractdomain.Service
	node      *snowflake.Node
	log       *zap.Logger
}

func NewService(p Params) domain.Service {
	return &Service{
		loader:    p.Loader,
		reporting: p.Reporting,
		usage:     p.Usage,
		runRate:   p.RunRate,
		contracts: p.Contracts,
		node:      p.Node,
		log:       p.Log.Named("alerting.service"),
	}
}

func (s *Service) Evaluate(ctx context.Context, req domain.Request) (domain.AlertsResponse, error) {
	reportingReq := reportingdomain.Request{Start: req.Start, End: req.End}

	summary, err := s.usage.UsageSummary(ctx, reportingReq)
	if err != nil {
		return domain.AlertsResponse{}, err
	}
	growth, err := s.usage.Growth(ctx, reportingReq)
	if err != nil {
		return domain.AlertsResponse{}, err
	}
	customers, err := s.runRate.ByCustomer(ctx, runratedomain.Request{
		Start:      req.Start,
		End:        req.End,
		WindowDays: req.WindowDays,
	})
	if err != nil {
		return domain.AlertsResponse{}, err
	}
	contracts, err := s.contracts.Metrics(ctx, contractdomain.Request{WindowDays: req.WindowDays})
	if err != nil {
		return domain.AlertsResponse{}, err
	}
	balances, balanceSource, err := s.loader.Balances(ctx, warehousedomain.BalanceQuery{
		Start: req.Start,
		End:   req.End,
	})
	if err != nil {
		return domain.AlertsResponse{}, err
	}

	source := warehousedomain.SourceLive
	for _, src := range []warehousedomain.Source{summary.Source, growth.Source, customers.Source, contracts.Source, balanceSource} {
		if src == warehousedomain.SourceSample {
			source = warehousedomain.SourceSample
		}
	}

	alerts := evaluate(inputs{
		summary:   summary.Summary,
		growth:    growth.Growth,
		customers: customers.Customers,
		balances:  balances,
		contracts: contracts.Contracts,
	}, s.reporting.Get().Alerts, s.node.Generate)

	return domain.AlertsResponse{Source: source, Alerts: alerts}, nil
}
