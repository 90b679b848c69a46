package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/clock"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
	obsmetrics "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/observability/metrics"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/pkg/cache"
	pkgdb "github.com/sfc-gh-jasvestis/reseller-billing-app/pkg/db"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Reporting *config.ReportingConfigHolder
	Clock     clock.Clock
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	reporting *config.ReportingConfigHolder
	clock     clock.Clock
	metrics   *obsmetrics.Metrics
	tracer    trace.Tracer

	usageCache    cache.Cache[string, []domain.UsageRow]
	balanceCache  cache.Cache[string, []domain.BalanceRow]
	contractCache cache.Cache[string, []domain.ContractRow]
	customerCache cache.Cache[string, []string]
}

func NewService(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("warehouse.service"),
		reporting:     p.Reporting,
		clock:         p.Clock,
		metrics:       p.Metrics,
		tracer:        otel.Tracer("resellerd/warehouse"),
		usageCache:    cache.NewTTLCache[string, []domain.UsageRow](),
		balanceCache:  cache.NewTTLCache[string, []domain.BalanceRow](),
		contractCache: cache.NewTTLCache[string, []domain.ContractRow](),
		customerCache: cache.NewTTLCache[string, []string](),
	}
}

type usageRecord struct {
	Organization   sql.NullString  `gorm:"column:organization_name"`
	Customer       sql.NullString  `gorm:"column:sold_to_customer_name"`
	ContractNumber sql.NullString  `gorm:"column:sold_to_contract_number"`
	AccountName    sql.NullString  `gorm:"column:account_name"`
	AccountLocator sql.NullString  `gorm:"column:account_locator"`
	Region         sql.NullString  `gorm:"column:region"`
	ServiceLevel   sql.NullString  `gorm:"column:service_level"`
	UsageDate      time.Time       `gorm:"column:usage_date"`
	UsageType      sql.NullString  `gorm:"column:usage_type"`
	BalanceSource  sql.NullString  `gorm:"column:balance_source"`
	Currency       sql.NullString  `gorm:"column:currency"`
	Credits        sql.NullFloat64 `gorm:"column:credits_used"`
	Cost           sql.NullFloat64 `gorm:"column:usage_in_currency"`
}

type balanceRecord struct {
	Organization   sql.NullString  `gorm:"column:organization_name"`
	Customer       sql.NullString  `gorm:"column:sold_to_customer_name"`
	ContractNumber sql.NullString  `gorm:"column:sold_to_contract_number"`
	BalanceDate    time.Time       `gorm:"column:balance_date"`
	Currency       sql.NullString  `gorm:"column:currency"`
	FreeUsage      sql.NullFloat64 `gorm:"column:free_usage_balance"`
	Capacity       sql.NullFloat64 `gorm:"column:capacity_balance"`
	OnDemand       sql.NullFloat64 `gorm:"column:on_demand_consumption_balance"`
	Rollover       sql.NullFloat64 `gorm:"column:rollover_balance"`
}

type contractRecord struct {
	Customer       sql.NullString  `gorm:"column:sold_to_customer_name"`
	ContractNumber sql.NullString  `gorm:"column:sold_to_contract_number"`
	ContractItem   sql.NullString  `gorm:"column:contract_item"`
	StartDate      time.Time       `gorm:"column:start_date"`
	EndDate        time.Time       `gorm:"column:end_date"`
	Amount         sql.NullFloat64 `gorm:"column:amount"`
	Currency       sql.NullString  `gorm:"column:currency"`
}

func (s *Service) Usage(ctx context.Context, q domain.UsageQuery) ([]domain.UsageRow, error) {
	cfg := s.reporting.Get()
	view := cfg.Warehouse.UsageView

	key := usageCacheKey(q)
	if rows, ok := s.usageCache.Get(key); ok {
		s.metrics.RecordCacheLookup(view, true)
		return rows, nil
	}
	s.metrics.RecordCacheLookup(view, false)

	ctx, span := s.tracer.Start(ctx, "warehouse.Usage",
		trace.WithAttributes(attribute.String("warehouse.view", view)))
	defer span.End()

	var sb strings.Builder
	args := []interface{}{}
	fmt.Fprintf(&sb, `SELECT organization_name, sold_to_customer_name, sold_to_contract_number,
		account_name, account_locator, region, service_level,
		usage_date, usage_type, balance_source, currency, credits_used, usage_in_currency
		FROM %s WHERE usage_date >= ? AND usage_date <= ?`, s.tableName(cfg, view))
	args = append(args, q.Start, q.End)

	if customer := strings.TrimSpace(q.Customer); customer != "" {
		sb.WriteString(" AND sold_to_customer_name = ?")
		args = append(args, customer)
	}
	if types := cleanTypeFilter(q.UsageTypes); len(types) > 0 {
		sb.WriteString(" AND lower(usage_type) IN ?")
		args = append(args, types)
	}
	fmt.Fprintf(&sb, " ORDER BY usage_date LIMIT %d", cfg.Query.MaxRows)

	var records []usageRecord
	if err := s.scan(ctx, cfg, sb.String(), args, &records); err != nil {
		return nil, s.loadError(view, err)
	}
	s.metrics.RecordWarehouseQuery(view, "ok")

	rows := make([]domain.UsageRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, domain.UsageRow{
			Organization:   r.Organization.String,
			Customer:       r.Customer.String,
			ContractNumber: r.ContractNumber.String,
			AccountName:    r.AccountName.String,
			AccountLocator: r.AccountLocator.String,
			Region:         r.Region.String,
			ServiceLevel:   r.ServiceLevel.String,
			UsageDate:      r.UsageDate,
			UsageType:      r.UsageType.String,
			BalanceSource:  r.BalanceSource.String,
			Currency:       r.Currency.String,
			Credits:        r.Credits.Float64,
			Cost:           r.Cost.Float64,
		})
	}
	rows = cleanUsage(rows)

	s.usageCache.Set(key, rows, s.cacheTTL(cfg))
	return rows, nil
}

func (s *Service) Balances(ctx context.Context, q domain.BalanceQuery) ([]domain.BalanceRow, error) {
	cfg := s.reporting.Get()
	view := cfg.Warehouse.BalanceView

	key := balanceCacheKey(q)
	if rows, ok := s.balanceCache.Get(key); ok {
		s.metrics.RecordCacheLookup(view, true)
		return rows, nil
	}
	s.metrics.RecordCacheLookup(view, false)

	ctx, span := s.tracer.Start(ctx, "warehouse.Balances",
		trace.WithAttributes(attribute.String("warehouse.view", view)))
	defer span.End()

	var sb strings.Builder
	args := []interface{}{}
	fmt.Fprintf(&sb, `SELECT organization_name, sold_to_customer_name, sold_to_contract_number,
		balance_date, currency, free_usage_balance, capacity_balance,
		on_demand_consumption_balance, rollover_balance
		FROM %s WHERE balance_date >= ? AND balance_date <= ?`, s.tableName(cfg, view))
	args = append(args, q.Start, q.End)

	if customer := strings.TrimSpace(q.Customer); customer != "" {
		sb.WriteString(" AND sold_to_customer_name = ?")
		args = append(args, customer)
	}
	fmt.Fprintf(&sb, " ORDER BY balance_date LIMIT %d", cfg.Query.MaxRows)

	var records []balanceRecord
	if err := s.scan(ctx, cfg, sb.String(), args, &records); err != nil {
		return nil, s.loadError(view, err)
	}
	s.metrics.RecordWarehouseQuery(view, "ok")

	rows := make([]domain.BalanceRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, domain.BalanceRow{
			Organization:   r.Organization.String,
			Customer:       r.Customer.String,
			ContractNumber: r.ContractNumber.String,
			BalanceDate:    r.BalanceDate,
			Currency:       r.Currency.String,
			FreeUsage:      r.FreeUsage.Float64,
			Capacity:       r.Capacity.Float64,
			OnDemand:       r.OnDemand.Float64,
			Rollover:       r.Rollover.Float64,
		})
	}
	rows = cleanBalances(rows)

	s.balanceCache.Set(key, rows, s.cacheTTL(cfg))
	return rows, nil
}

func (s *Service) Contracts(ctx context.Context, q domain.ContractQuery) ([]domain.ContractRow, error) {
	cfg := s.reporting.Get()
	view := cfg.Warehouse.ContractView

	key := "contracts|" + strings.ToLower(strings.TrimSpace(q.Customer))
	if rows, ok := s.contractCache.Get(key); ok {
		s.metrics.RecordCacheLookup(view, true)
		return rows, nil
	}
	s.metrics.RecordCacheLookup(view, false)

	ctx, span := s.tracer.Start(ctx, "warehouse.Contracts",
		trace.WithAttributes(attribute.String("warehouse.view", view)))
	defer span.End()

	var sb strings.Builder
	args := []interface{}{}
	fmt.Fprintf(&sb, `SELECT sold_to_customer_name, sold_to_contract_number, contract_item,
		start_date, end_date, amount, currency FROM %s`, s.tableName(cfg, view))

	if customer := strings.TrimSpace(q.Customer); customer != "" {
		sb.WriteString(" WHERE sold_to_customer_name = ?")
		args = append(args, customer)
	}
	fmt.Fprintf(&sb, " ORDER BY start_date LIMIT %d", cfg.Query.MaxRows)

	var records []contractRecord
	if err := s.scan(ctx, cfg, sb.String(), args, &records); err != nil {
		return nil, s.loadError(view, err)
	}
	s.metrics.RecordWarehouseQuery(view, "ok")

	rows := make([]domain.ContractRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, domain.ContractRow{
			Customer:       r.Customer.String,
			ContractNumber: r.ContractNumber.String,
			ContractItem:   r.ContractItem.String,
			StartDate:      r.StartDate,
			EndDate:        r.EndDate,
			Amount:         r.Amount.Float64,
			Currency:       r.Currency.String,
		})
	}
	rows = cleanContracts(rows)

	s.contractCache.Set(key, rows, s.cacheTTL(cfg))
	return rows, nil
}

func (s *Service) Customers(ctx context.Context) ([]string, error) {
	cfg := s.reporting.Get()
	view := cfg.Warehouse.UsageView

	if customers, ok := s.customerCache.Get("customers"); ok {
		s.metrics.RecordCacheLookup(view, true)
		return customers, nil
	}
	s.metrics.RecordCacheLookup(view, false)

	ctx, span := s.tracer.Start(ctx, "warehouse.Customers",
		trace.WithAttributes(attribute.String("warehouse.view", view)))
	defer span.End()

	lookbackDays := cfg.Query.CustomerListDays
	if lookbackDays <= 0 {
		lookbackDays = 90
	}
	cutoff := s.clock.Now().UTC().AddDate(0, 0, -lookbackDays)

	query := fmt.Sprintf(`SELECT DISTINCT sold_to_customer_name FROM %s
		WHERE usage_date >= ? AND sold_to_customer_name IS NOT NULL
		ORDER BY sold_to_customer_name`, s.tableName(cfg, view))

	var customers []string
	if err := s.scan(ctx, cfg, query, []interface{}{cutoff}, &customers); err != nil {
		return nil, s.loadError(view, err)
	}
	s.metrics.RecordWarehouseQuery(view, "ok")

	out := customers[:0]
	for _, c := range customers {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	s.customerCache.Set("customers", out, s.cacheTTL(cfg))
	return out, nil
}

func (s *Service) scan(ctx context.Context, cfg config.ReportingConfig, query string, args []interface{}, dest interface{}) error {
	if timeout := cfg.Query.TimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}
	return s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
}

func (s *Service) tableName(cfg config.ReportingConfig, view string) string {
	schema := strings.TrimSpace(cfg.Warehouse.Schema)
	if schema == "" {
		return view
	}
	return schema + "." + view
}

func (s *Service) cacheTTL(cfg config.ReportingConfig) time.Duration {
	ttl := cfg.Query.CacheTTLSeconds
	if ttl <= 0 {
		return 0
	}
	return time.Duration(ttl) * time.Second
}

func (s *Service) loadError(view string, err error) error {
	kind := domain.ErrorKindQuery
	switch {
	case pkgdb.IsAuthError(err):
		kind = domain.ErrorKindAuth
	case pkgdb.IsConnectionError(err):
		kind = domain.ErrorKindConnection
	}

	s.metrics.RecordWarehouseQuery(view, string(kind))
	s.log.Warn("warehouse load failed",
		zap.String("view", view),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	return &domain.SourceError{Kind: kind, View: view, Err: err}
}

func usageCacheKey(q domain.UsageQuery) string {
	types := cleanTypeFilter(q.UsageTypes)
	sort.Strings(types)
	return strings.Join([]string{
		"usage",
		q.Start.UTC().Format("2006-01-02"),
		q.End.UTC().Format("2006-01-02"),
		strings.ToLower(strings.TrimSpace(q.Customer)),
		strings.Join(types, ","),
	}, "|")
}

func balanceCacheKey(q domain.BalanceQuery) string {
	return strings.Join([]string{
		"balance",
		q.Start.UTC().Format("2006-01-02"),
		q.End.UTC().Format("2006-01-02"),
		strings.ToLower(strings.TrimSpace(q.Customer)),
	}, "|")
}

func cleanTypeFilter(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
