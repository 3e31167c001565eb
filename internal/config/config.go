package config

import "time"

type Config struct {
	Log              LogConfig              `toml:"log"`
	Clients          ClientsConfig          `toml:"clients"`
	Store            StoreConfig            `toml:"store"`
	Retry            RetryConfig            `toml:"retry"`
	Enrichment       EnrichmentConfig       `toml:"enrichment"`
	Market           MarketConfig           `toml:"market"`
	Metrics          MetricsConfig          `toml:"metrics"`
	PortfolioWatcher PortfolioWatcherConfig `toml:"portfolio_watcher"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"required,oneof=trace debug info warn error"`
}

type ClientsConfig struct {
	TinkoffInvest TinkoffInvestConfig `toml:"tinkoff_invest"`
}

type TinkoffInvestConfig struct {
	Address    string   `toml:"address" validate:"required,url"`
	Token      string   `toml:"token"` // May be omitted if already stored.
	AccountID  string   `toml:"account_id"`
	UseSandbox bool     `toml:"use_sandbox"`
	Timeout    Duration `toml:"timeout"`
}

type StoreConfig struct {
	Path          string `toml:"path" validate:"required"`
	EncryptionKey string `toml:"encryption_key"`
}

type RetryConfig struct {
	MaxAttempts int      `toml:"max_attempts" validate:"min=1"`
	BaseDelay   Duration `toml:"base_delay"`
	MaxDelay    Duration `toml:"max_delay"`
}

type EnrichmentConfig struct {
	Concurrency int `toml:"concurrency" validate:"min=1"`
}

type MarketConfig struct {
	AssetClass          string   `toml:"asset_class" validate:"required,oneof=stocks etfs bonds currencies"`
	Tickers             []string `toml:"tickers"`
	CandlesDepthDays    int      `toml:"candles_depth_days" validate:"min=1"`
	CandlesInterval     string   `toml:"candles_interval" validate:"required"`
	OperationsDepthDays int      `toml:"operations_depth_days" validate:"min=1"`

	// OrderRoundTrip places a far-from-market limit order for the first
	// instrument and cancels it.
	OrderRoundTrip bool `toml:"order_round_trip"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr" validate:"required_if=Enabled true"`
}

type PortfolioWatcherConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// Duration is a time.Duration decoded from strings like "11s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) D() time.Duration { return time.Duration(d) }
