package config

import (
	"github.com/spf13/viper"
)

// Bank transaction delete policies (see BankService.DeleteTransaction).
const (
	DeletePolicyReverse = "reverse"
	DeletePolicyDeny    = "deny"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Business
	Currency string `mapstructure:"CURRENCY"`

	// Variance classification thresholds at session close, in percent.
	VarianceWarningPct  float64 `mapstructure:"VARIANCE_WARNING_PCT"`
	VarianceCriticalPct float64 `mapstructure:"VARIANCE_CRITICAL_PCT"`

	// BankTxDeletePolicy: "reverse" — deleting a bank transaction reverses
	// its balance effect first; "deny" — deletion is rejected outright.
	BankTxDeletePolicy string `mapstructure:"BANK_TX_DELETE_POLICY"`

	// Rate limiting
	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 5)
	viper.SetDefault("CURRENCY", "EUR")
	viper.SetDefault("VARIANCE_WARNING_PCT", 1.0)
	viper.SetDefault("VARIANCE_CRITICAL_PCT", 5.0)
	viper.SetDefault("BANK_TX_DELETE_POLICY", DeletePolicyReverse)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 1000)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
