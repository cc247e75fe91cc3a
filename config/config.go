package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	PSP        PSPConfig        `mapstructure:"psp"`
	Withdrawal WithdrawalConfig `mapstructure:"withdrawal"`
	Fraud      FraudConfig      `mapstructure:"fraud"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// WebhookConfig configures the TLS listener that receives PSP callbacks.
type WebhookConfig struct {
	Port          int    `mapstructure:"port"`
	PublicBaseURL string `mapstructure:"public_base_url"` // origin the PSP calls, e.g. https://pix.example.com
	CertFile      string `mapstructure:"cert_file"`
	KeyFile       string `mapstructure:"key_file"`
	PSPCAFile     string `mapstructure:"psp_ca_file"`
	HMACSecret    string `mapstructure:"hmac_secret"`
	PSPIP         string `mapstructure:"psp_ip"`
}

// PSPConfig configures the outbound PIX client.
type PSPConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	CertFile     string        `mapstructure:"cert_file"`
	KeyFile      string        `mapstructure:"key_file"`
	P12File      string        `mapstructure:"p12_file"`
	P12Password  string        `mapstructure:"p12_password"`
	PayerPixKey  string        `mapstructure:"payer_pix_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// CAFile, when set, replaces the system roots for verifying the PSP.
	CAFile string `mapstructure:"ca_file"`
	// TokenCacheKey, when set, encrypts cached access tokens (64 hex chars).
	TokenCacheKey string `mapstructure:"token_cache_key"`
}

// WithdrawalConfig bounds amounts (in cents) and drives PSP retries.
type WithdrawalConfig struct {
	MinAmount       int64            `mapstructure:"min_amount"`
	MaxAmount       int64            `mapstructure:"max_amount"`
	TenantMaxAmount map[string]int64 `mapstructure:"tenant_max_amount"`
	RetryAttempts   int              `mapstructure:"retry_attempts"`
	RetryBaseDelay  time.Duration    `mapstructure:"retry_base_delay"`
	StaleAfter      time.Duration    `mapstructure:"stale_after"`
}

// TenantCeilings parses the per-tenant maximum amounts.
func (w WithdrawalConfig) TenantCeilings() (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(w.TenantMaxAmount))
	for k, v := range w.TenantMaxAmount {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("withdrawal.tenant_max_amount: invalid tenant id %q: %w", k, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("withdrawal.tenant_max_amount: ceiling for %s must be positive", k)
		}
		out[id] = v
	}
	return out, nil
}

type FraudConfig struct {
	DailyLimit int64  `mapstructure:"daily_limit"`
	Timezone   string `mapstructure:"timezone"`
}

// Location resolves the timezone used for the unusual-hour rule.
func (f FraudConfig) Location() (*time.Location, error) {
	return time.LoadLocation(f.Timezone)
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

type DatabaseConfig struct {
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

type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type WorkerConfig struct {
	Concurrency   int    `mapstructure:"concurrency"`
	SweepSchedule string `mapstructure:"sweep_schedule"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: PIXGW_.
// Nested keys use underscore: PIXGW_PSP_CLIENT_ID, PIXGW_WEBHOOK_HMAC_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("webhook.port", 8443)
	v.SetDefault("webhook.public_base_url", "")
	v.SetDefault("webhook.cert_file", "")
	v.SetDefault("webhook.key_file", "")
	v.SetDefault("webhook.psp_ca_file", "")
	v.SetDefault("webhook.hmac_secret", "")
	v.SetDefault("webhook.psp_ip", "34.193.116.226")
	v.SetDefault("psp.base_url", "https://pix-h.api.efipay.com.br")
	v.SetDefault("psp.client_id", "")
	v.SetDefault("psp.client_secret", "")
	v.SetDefault("psp.cert_file", "")
	v.SetDefault("psp.key_file", "")
	v.SetDefault("psp.p12_file", "")
	v.SetDefault("psp.p12_password", "")
	v.SetDefault("psp.payer_pix_key", "")
	v.SetDefault("psp.timeout", "15s")
	v.SetDefault("psp.token_cache_key", "")
	v.SetDefault("psp.ca_file", "")
	v.SetDefault("withdrawal.min_amount", 100)
	v.SetDefault("withdrawal.max_amount", 1000000)
	v.SetDefault("withdrawal.tenant_max_amount", map[string]int64{})
	v.SetDefault("withdrawal.retry_attempts", 3)
	v.SetDefault("withdrawal.retry_base_delay", "1s")
	v.SetDefault("withdrawal.stale_after", "15m")
	v.SetDefault("fraud.daily_limit", 1000000)
	v.SetDefault("fraud.timezone", "America/Sao_Paulo")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "pix_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "pix-gateway")
	v.SetDefault("worker.concurrency", 10)
	v.SetDefault("worker.sweep_schedule", "*/5 * * * *")
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

	// Environment variables: PIXGW_PSP_CLIENT_ID -> psp.client_id
	v.SetEnvPrefix("PIXGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate reports every setting that would stop the gateway from moving
// money or authenticating callbacks. It does not touch the filesystem.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.PSP.BaseURL == "" {
		errs = append(errs, errors.New("psp.base_url is required"))
	}
	if c.PSP.ClientID == "" || c.PSP.ClientSecret == "" {
		errs = append(errs, errors.New("psp.client_id and psp.client_secret are required"))
	}
	if c.PSP.P12File == "" && (c.PSP.CertFile == "" || c.PSP.KeyFile == "") {
		errs = append(errs, errors.New("psp.p12_file or psp.cert_file/psp.key_file is required"))
	}
	if c.PSP.PayerPixKey == "" {
		errs = append(errs, errors.New("psp.payer_pix_key is required"))
	}
	if k := c.PSP.TokenCacheKey; k != "" && len(k) != 64 {
		errs = append(errs, errors.New("psp.token_cache_key must be 64 hex characters"))
	}
	if c.Webhook.CertFile == "" || c.Webhook.KeyFile == "" {
		errs = append(errs, errors.New("webhook.cert_file and webhook.key_file are required"))
	}
	if c.Webhook.PSPCAFile == "" {
		errs = append(errs, errors.New("webhook.psp_ca_file is required"))
	}
	if c.Webhook.HMACSecret == "" {
		errs = append(errs, errors.New("webhook.hmac_secret is required"))
	}
	if c.Webhook.PublicBaseURL == "" {
		errs = append(errs, errors.New("webhook.public_base_url is required"))
	}
	if c.Withdrawal.MinAmount <= 0 || c.Withdrawal.MaxAmount < c.Withdrawal.MinAmount {
		errs = append(errs, errors.New("withdrawal.min_amount must be positive and not above withdrawal.max_amount"))
	}
	if c.Withdrawal.RetryAttempts < 1 {
		errs = append(errs, errors.New("withdrawal.retry_attempts must be at least 1"))
	}
	if _, err := c.Withdrawal.TenantCeilings(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Fraud.Location(); err != nil {
		errs = append(errs, fmt.Errorf("fraud.timezone: %w", err))
	}
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q must be postgres or memory", c.Storage.Driver))
	}
	return errors.Join(errs...)
}
