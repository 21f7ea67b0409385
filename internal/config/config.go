// Package config handles configuration loading for FinFetch.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Providers  ProvidersConfig  `mapstructure:"providers"  yaml:"providers"`
	HTTP       HTTPConfig       `mapstructure:"http"       yaml:"http"`
	Scraper    ScraperConfig    `mapstructure:"scraper"    yaml:"scraper"`
	Indicators IndicatorsConfig `mapstructure:"indicators" yaml:"indicators"`
	News       NewsConfig       `mapstructure:"news"       yaml:"news"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
}

// ProvidersConfig holds price-history provider settings. A missing API key
// silently disqualifies the corresponding paid provider from the fallback
// chain; it is never an error.
type ProvidersConfig struct {
	TwelveDataKey     string  `mapstructure:"twelve_data_key"    yaml:"twelve_data_key"`
	TiingoKey         string  `mapstructure:"tiingo_key"         yaml:"tiingo_key"`
	RetryDelaySec     float64 `mapstructure:"retry_delay_sec"    yaml:"retry_delay_sec"`
	PreferredExchange string  `mapstructure:"preferred_exchange" yaml:"preferred_exchange"` // "NSE" or "BSE"
}

// RetryDelay returns the inter-provider delay as a duration.
func (p ProvidersConfig) RetryDelay() time.Duration {
	return time.Duration(p.RetryDelaySec * float64(time.Second))
}

// HTTPConfig holds timeout and retry tuning for outbound requests.
type HTTPConfig struct {
	ConnectTimeoutSec float64 `mapstructure:"connect_timeout_sec" yaml:"connect_timeout_sec"`
	ReadTimeoutSec    float64 `mapstructure:"read_timeout_sec"    yaml:"read_timeout_sec"`
	MaxRetries        int     `mapstructure:"max_retries"         yaml:"max_retries"`
	BackoffSec        float64 `mapstructure:"backoff_sec"         yaml:"backoff_sec"`
}

// ScraperConfig holds respectful-scraping settings for Screener.in.
type ScraperConfig struct {
	DelayMinSec   float64 `mapstructure:"delay_min_sec"  yaml:"delay_min_sec"`
	DelayMaxSec   float64 `mapstructure:"delay_max_sec"  yaml:"delay_max_sec"`
	CacheTTLSec   int     `mapstructure:"cache_ttl_sec"  yaml:"cache_ttl_sec"`
	TimeoutSec    float64 `mapstructure:"timeout_sec"    yaml:"timeout_sec"`
	RateLimitWait float64 `mapstructure:"rate_limit_wait" yaml:"rate_limit_wait"` // sleep after a 429, seconds
}

// IndicatorsConfig holds every technical indicator parameter.
type IndicatorsConfig struct {
	RSILength    int `mapstructure:"rsi_length"     yaml:"rsi_length"`
	RSISMALength int `mapstructure:"rsi_sma_length" yaml:"rsi_sma_length"`
	RSIEMALength int `mapstructure:"rsi_ema_length" yaml:"rsi_ema_length"`

	ADXLength    int `mapstructure:"adx_length"    yaml:"adx_length"`
	ADXSmoothing int `mapstructure:"adx_smoothing" yaml:"adx_smoothing"`

	PSARAFStart float64 `mapstructure:"psar_af_start" yaml:"psar_af_start"`
	PSARAFStep  float64 `mapstructure:"psar_af_step"  yaml:"psar_af_step"`
	PSARAFMax   float64 `mapstructure:"psar_af_max"   yaml:"psar_af_max"`

	SuperTrendPeriod     int     `mapstructure:"supertrend_period"     yaml:"supertrend_period"`
	SuperTrendMultiplier float64 `mapstructure:"supertrend_multiplier" yaml:"supertrend_multiplier"`

	DonchianLength    int `mapstructure:"donchian_length"     yaml:"donchian_length"`
	DonchianSlopeBars int `mapstructure:"donchian_slope_bars" yaml:"donchian_slope_bars"`

	OBVSMALength    int `mapstructure:"obv_sma_length"    yaml:"obv_sma_length"`
	VolumeSMALength int `mapstructure:"volume_sma_length" yaml:"volume_sma_length"`
}

// NewsConfig holds news feed settings.
type NewsConfig struct {
	Limit       int `mapstructure:"limit"         yaml:"limit"`
	CacheTTLSec int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finfetch/config.yaml (home directory)
//  3. /etc/finfetch/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINFETCH_<SECTION>_<KEY>, e.g. FINFETCH_PROVIDERS_TIINGO_KEY.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finfetch"))
	v.AddConfigPath("/etc/finfetch")

	v.SetEnvPrefix("FINFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: defaults plus env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("providers.retry_delay_sec", 1.0)
	v.SetDefault("providers.preferred_exchange", "NSE")

	v.SetDefault("http.connect_timeout_sec", 10.0)
	v.SetDefault("http.read_timeout_sec", 60.0)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.backoff_sec", 5.0)

	v.SetDefault("scraper.delay_min_sec", 4.0)
	v.SetDefault("scraper.delay_max_sec", 8.0)
	v.SetDefault("scraper.cache_ttl_sec", 1800)
	v.SetDefault("scraper.timeout_sec", 15.0)
	v.SetDefault("scraper.rate_limit_wait", 30.0)

	v.SetDefault("indicators.rsi_length", 14)
	v.SetDefault("indicators.rsi_sma_length", 14)
	v.SetDefault("indicators.rsi_ema_length", 14)
	v.SetDefault("indicators.adx_length", 14)
	v.SetDefault("indicators.adx_smoothing", 14)
	v.SetDefault("indicators.psar_af_start", 0.002)
	v.SetDefault("indicators.psar_af_step", 0.002)
	v.SetDefault("indicators.psar_af_max", 0.5)
	v.SetDefault("indicators.supertrend_period", 7)
	v.SetDefault("indicators.supertrend_multiplier", 3.0)
	v.SetDefault("indicators.donchian_length", 20)
	v.SetDefault("indicators.donchian_slope_bars", 5)
	v.SetDefault("indicators.obv_sma_length", 20)
	v.SetDefault("indicators.volume_sma_length", 20)

	v.SetDefault("news.limit", 10)
	v.SetDefault("news.cache_ttl_sec", 900)

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
// These also work without the FINFETCH_ prefix for .env compatibility.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FINFETCH_PROVIDERS_TWELVE_DATA_KEY"); key != "" {
		cfg.Providers.TwelveDataKey = key
	}
	if key := os.Getenv("TWELVE_DATA_API_KEY"); key != "" {
		cfg.Providers.TwelveDataKey = key
	}
	if key := os.Getenv("FINFETCH_PROVIDERS_TIINGO_KEY"); key != "" {
		cfg.Providers.TiingoKey = key
	}
	if key := os.Getenv("TIINGO_API_KEY"); key != "" {
		cfg.Providers.TiingoKey = key
	}
	if ex := os.Getenv("PREFERRED_EXCHANGE"); ex != "" {
		cfg.Providers.PreferredExchange = strings.ToUpper(strings.TrimSpace(ex))
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
