package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Budget   BudgetConfig   `mapstructure:"budget"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// BudgetConfig holds the period budget. Amounts are decimal strings so
// they survive config round-trips without float rounding.
type BudgetConfig struct {
	Ceiling string `mapstructure:"ceiling"`
	Spent   string `mapstructure:"spent"` // amount already spent this period
}

// CeilingDecimal parses the budget ceiling.
func (b BudgetConfig) CeilingDecimal() (decimal.Decimal, error) {
	return parseAmount("budget.ceiling", b.Ceiling)
}

// SpentDecimal parses the initial spent amount.
func (b BudgetConfig) SpentDecimal() (decimal.Decimal, error) {
	return parseAmount("budget.spent", b.Spent)
}

// PolicyConfig holds the principal's spend rules.
type PolicyConfig struct {
	ApprovalThreshold          string   `mapstructure:"approval_threshold"`
	BlockedMerchants           []string `mapstructure:"blocked_merchants"`
	SuspiciousItemKeywords     []string `mapstructure:"suspicious_item_keywords"`
	SuspiciousMerchantKeywords []string `mapstructure:"suspicious_merchant_keywords"`
}

// ApprovalThresholdDecimal parses the approval threshold.
func (p PolicyConfig) ApprovalThresholdDecimal() (decimal.Decimal, error) {
	return parseAmount("policy.approval_threshold", p.ApprovalThreshold)
}

// DatabaseConfig holds the optional PostgreSQL audit sink settings.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds the optional Redis replay-guard settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: AGW_ (Agent Guard).
// Nested keys use underscore: AGW_BUDGET_CEILING, AGW_SERVER_PORT, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("budget.ceiling", "10000")
	v.SetDefault("budget.spent", "0")
	v.SetDefault("policy.approval_threshold", "5000")
	v.SetDefault("policy.blocked_merchants", []string{
		"sketchy-crypto.com", "unknown-seller.net",
	})
	v.SetDefault("policy.suspicious_item_keywords", []string{
		"crypto", "gift card", "casino", "mystery", "hacked", "stolen",
	})
	v.SetDefault("policy.suspicious_merchant_keywords", []string{
		"scam", "scammy", "sketchy", "dark", "darkweb", "hack", "illegal",
		"fraud", "suspicious", "unknown", "untrusted", "shady", "fake",
	})
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "agentguard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: AGW_BUDGET_CEILING -> budget.ceiling
	v.SetEnvPrefix("AGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validateAmounts(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAmounts() error {
	if _, err := c.Budget.CeilingDecimal(); err != nil {
		return err
	}
	if _, err := c.Budget.SpentDecimal(); err != nil {
		return err
	}
	if _, err := c.Policy.ApprovalThresholdDecimal(); err != nil {
		return err
	}
	return nil
}

func parseAmount(key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", key, raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative, got %q", key, raw)
	}
	return d, nil
}
