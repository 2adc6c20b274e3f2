package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"agrolens/internal/alerting"
	"agrolens/internal/backtest"
	"agrolens/internal/logging"
)

// Config materialises application configuration. Every analysis parameter is
// passed per call from here; nothing is mutated globally at runtime.
type Config struct {
	App      AppConfig       `mapstructure:"app"`
	Logging  logging.Config  `mapstructure:"logging"`
	Data     DataConfig      `mapstructure:"data"`
	Analysis AnalysisConfig  `mapstructure:"analysis"`
	Backtest BacktestConfig  `mapstructure:"backtest"`
	Alerts   alerting.Config `mapstructure:"alerts"`
	Watch    WatchConfig     `mapstructure:"watch"`
	Export   ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DataConfig points at the CSV inputs and names the tracked asset.
type DataConfig struct {
	PriceCSV   string `mapstructure:"price_csv"`
	ClimateCSV string `mapstructure:"climate_csv"`
	Asset      string `mapstructure:"asset"`
}

// AnalysisConfig carries the shared analytical parameters.
type AnalysisConfig struct {
	LagDays         int     `mapstructure:"lag_days"`
	ForecastHorizon int     `mapstructure:"forecast_horizon"`
	ConfidenceZ     float64 `mapstructure:"confidence_z"`
	RankLimit       int     `mapstructure:"rank_limit"`
}

// BacktestConfig names the strategy and its tunables.
type BacktestConfig struct {
	Strategy        string  `mapstructure:"strategy"`
	RainThresholdMM float64 `mapstructure:"rain_threshold_mm"`
	EnterBelow      float64 `mapstructure:"enter_below"`
	ExitAbove       float64 `mapstructure:"exit_above"`
	MovePct         float64 `mapstructure:"move_pct"`
}

// Params converts the section into strategy parameters.
func (c BacktestConfig) Params() backtest.Params {
	return backtest.Params{
		RainThresholdMM: c.RainThresholdMM,
		EnterBelow:      c.EnterBelow,
		ExitAbove:       c.ExitAbove,
		MovePct:         c.MovePct,
	}
}

// WatchConfig governs the periodic alert re-evaluation loop.
type WatchConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	AlignToBucket bool          `mapstructure:"align_to_bucket"`
	StartupDelay  time.Duration `mapstructure:"startup_delay"`
	WindowDays    int           `mapstructure:"window_days"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AGROLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "agrolens")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("data.asset", "asset")

	v.SetDefault("analysis.lag_days", 60)
	v.SetDefault("analysis.forecast_horizon", 30)
	v.SetDefault("analysis.confidence_z", 1.96)
	v.SetDefault("analysis.rank_limit", 3)

	v.SetDefault("backtest.strategy", backtest.StrategyClimateThreshold)
	v.SetDefault("backtest.rain_threshold_mm", 100.0)
	v.SetDefault("backtest.enter_below", -0.5)
	v.SetDefault("backtest.exit_above", 0.0)
	v.SetDefault("backtest.move_pct", 0.02)

	v.SetDefault("alerts.volatility_warn_pct", 10.0)
	v.SetDefault("alerts.volatility_crit_pct", 15.0)
	v.SetDefault("alerts.rainfall_deficit_mm", 50.0)
	v.SetDefault("alerts.rainfall_excess_mm", 300.0)
	v.SetDefault("alerts.rainfall_baseline_mm", 150.0)
	v.SetDefault("alerts.oscillation_pct", 2.0)

	v.SetDefault("watch.interval", "1h")
	v.SetDefault("watch.align_to_bucket", true)
	v.SetDefault("watch.startup_delay", "0s")
	v.SetDefault("watch.window_days", 30)

	v.SetDefault("export.max_data_points", 100000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate rejects configuration mistakes up front. Bad parameters are
// programmer errors and fail loudly; thin data is handled downstream.
func (c *Config) Validate() error {
	if c.Analysis.LagDays < 0 {
		return fmt.Errorf("analysis.lag_days cannot be negative")
	}
	if c.Analysis.ForecastHorizon <= 0 {
		return fmt.Errorf("analysis.forecast_horizon must be greater than zero")
	}
	if c.Analysis.ConfidenceZ <= 0 {
		return fmt.Errorf("analysis.confidence_z must be greater than zero")
	}
	if c.Analysis.RankLimit <= 0 {
		return fmt.Errorf("analysis.rank_limit must be greater than zero")
	}
	if _, err := backtest.New(c.Backtest.Strategy, c.Backtest.Params()); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	if c.Alerts.VolatilityWarnPct <= 0 || c.Alerts.VolatilityCritPct <= 0 {
		return fmt.Errorf("alerts volatility thresholds must be greater than zero")
	}
	if c.Alerts.VolatilityWarnPct > c.Alerts.VolatilityCritPct {
		return fmt.Errorf("alerts.volatility_warn_pct cannot exceed alerts.volatility_crit_pct")
	}
	if c.Alerts.RainfallDeficitMM < 0 {
		return fmt.Errorf("alerts.rainfall_deficit_mm cannot be negative")
	}
	if c.Alerts.RainfallExcessMM <= c.Alerts.RainfallDeficitMM {
		return fmt.Errorf("alerts.rainfall_excess_mm must exceed alerts.rainfall_deficit_mm")
	}
	if c.Alerts.OscillationPct <= 0 {
		return fmt.Errorf("alerts.oscillation_pct must be greater than zero")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be greater than zero")
	}
	if c.Watch.WindowDays <= 0 {
		return fmt.Errorf("watch.window_days must be greater than zero")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
