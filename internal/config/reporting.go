package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReportingConfig carries the tunables of the reporting pipeline: warehouse
// view names, query limits, cache TTL, projection windows, alert thresholds
// and presentation maps.
type ReportingConfig struct {
	Warehouse WarehouseConfig `mapstructure:"warehouse"`
	Query     QueryConfig     `mapstructure:"query"`
	RunRate   RunRateConfig   `mapstructure:"runRate"`
	Alerts    AlertThresholds `mapstructure:"alerts"`
	Display   DisplayConfig   `mapstructure:"display"`
	Export    ExportConfig    `mapstructure:"export"`
}

type WarehouseConfig struct {
	Schema        string `mapstructure:"schema"`
	UsageView     string `mapstructure:"usageView"`
	BalanceView   string `mapstructure:"balanceView"`
	ContractView  string `mapstructure:"contractView"`
	RateSheetView string `mapstructure:"rateSheetView"`
}

type QueryConfig struct {
	MaxRows          int  `mapstructure:"maxRows"`
	TimeoutSeconds   int  `mapstructure:"timeoutSeconds"`
	CacheTTLSeconds  int  `mapstructure:"cacheTTLSeconds"`
	LookbackDays     int  `mapstructure:"lookbackDays"`
	SampleFallback   bool `mapstructure:"sampleFallback"`
	CustomerListDays int  `mapstructure:"customerListDays"`
}

type RunRateConfig struct {
	DefaultWindowDays int   `mapstructure:"defaultWindowDays"`
	WindowChoices     []int `mapstructure:"windowChoices"`
	GrowthPeriods     int   `mapstructure:"growthPeriods"`
}

type AlertThresholds struct {
	HighDailyCredits      float64 `mapstructure:"highDailyCredits"`
	GrowthSpikePercent    float64 `mapstructure:"growthSpikePercent"`
	GrowthDropPercent     float64 `mapstructure:"growthDropPercent"`
	LowBalance            float64 `mapstructure:"lowBalance"`
	OnDemandBalance       float64 `mapstructure:"onDemandBalance"`
	DepletionHorizonDays  int     `mapstructure:"depletionHorizonDays"`
	OverageLookaheadAlert bool    `mapstructure:"overageLookaheadAlert"`
}

type DisplayConfig struct {
	UsageTypes     map[string]string `mapstructure:"usageTypes"`
	BalanceSources map[string]string `mapstructure:"balanceSources"`
}

type ExportConfig struct {
	UsageFilename    string `mapstructure:"usageFilename"`
	BalanceFilename  string `mapstructure:"balanceFilename"`
	ContractFilename string `mapstructure:"contractFilename"`
}

func DefaultReportingConfig() ReportingConfig {
	return ReportingConfig{
		Warehouse: WarehouseConfig{
			Schema:        "billing",
			UsageView:     "partner_usage_in_currency_daily",
			BalanceView:   "partner_remaining_balance_daily",
			ContractView:  "partner_contract_items",
			RateSheetView: "partner_rate_sheet_daily",
		},
		Query: QueryConfig{
			MaxRows:          100000,
			TimeoutSeconds:   300,
			CacheTTLSeconds:  3600,
			LookbackDays:     30,
			SampleFallback:   true,
			CustomerListDays: 90,
		},
		RunRate: RunRateConfig{
			DefaultWindowDays: 30,
			WindowChoices:     []int{7, 14, 30, 60, 90},
			GrowthPeriods:     7,
		},
		Alerts: AlertThresholds{
			HighDailyCredits:      1000,
			GrowthSpikePercent:    50,
			GrowthDropPercent:     -20,
			LowBalance:            1000,
			OnDemandBalance:       -500,
			DepletionHorizonDays:  30,
			OverageLookaheadAlert: true,
		},
		Display: DisplayConfig{
			UsageTypes: map[string]string{
				"compute":        "Compute",
				"storage":        "Storage",
				"data transfer":  "Data Transfer",
				"cloud services": "Cloud Services",
				"serverless":     "Serverless",
			},
			BalanceSources: map[string]string{
				"capacity":              "Capacity",
				"rollover":              "Rollover",
				"free usage":            "Free Usage",
				"on demand consumption": "On Demand",
			},
		},
		Export: ExportConfig{
			UsageFilename:    "usage_export_%s.csv",
			BalanceFilename:  "balance_export_%s.csv",
			ContractFilename: "contract_export_%s.csv",
		},
	}
}

type ReportingConfigHolder struct {
	current atomic.Value // holds ReportingConfig
}

func NewReportingConfigHolder() (*ReportingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reporting")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/resellerd/config") // Volume-mounted config
	v.AddConfigPath("/etc/resellerd")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("RESELLERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReportingConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		v.SetDefault("reporting", defaults)
	}

	cfg := defaults
	if err := v.UnmarshalKey("reporting", &cfg); err != nil {
		return nil, err
	}
	if err := validateReportingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReportingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := DefaultReportingConfig()
		if err := v.UnmarshalKey("reporting", &updated); err != nil {
			log.Printf("[reporting-config] reload failed: %v", err)
			return
		}
		if err := validateReportingConfig(updated); err != nil {
			log.Printf("[reporting-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[reporting-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ReportingConfigHolder) Get() ReportingConfig {
	return h.current.Load().(ReportingConfig)
}

// NewStaticReportingConfigHolder returns a holder pinned to cfg, for tests.
func NewStaticReportingConfigHolder(cfg ReportingConfig) *ReportingConfigHolder {
	holder := &ReportingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateReportingConfig(cfg ReportingConfig) error {
	if strings.TrimSpace(cfg.Warehouse.UsageView) == "" ||
		strings.TrimSpace(cfg.Warehouse.BalanceView) == "" ||
		strings.TrimSpace(cfg.Warehouse.ContractView) == "" {
		return errors.New("reporting.warehouse view names cannot be empty")
	}
	if cfg.Query.MaxRows <= 0 {
		return errors.New("reporting.query.maxRows must be positive")
	}
	if cfg.RunRate.DefaultWindowDays <= 0 {
		return errors.New("reporting.runRate.defaultWindowDays must be positive")
	}
	if cfg.RunRate.GrowthPeriods <= 0 {
		return errors.New("reporting.runRate.growthPeriods must be positive")
	}
	return nil
}
