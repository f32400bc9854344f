package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Azure       AzureConfig       `mapstructure:"azure"`
	Reconciler  ReconcilerConfig  `mapstructure:"reconciler"`
	ServiceTags ServiceTagsConfig `mapstructure:"servicetags"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type ServerConfig struct {
	AdminPort   int    `mapstructure:"admin_port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Host        string `mapstructure:"host"`
	SecretKey   string `mapstructure:"secret_key"`
}

type MetricsConfig struct {
	Enabled               bool `mapstructure:"enabled"`
	EnableDispatchLatency bool `mapstructure:"enable_dispatch_latency"`
	EnableAdminRequests   bool `mapstructure:"enable_admin_requests"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// AzureConfig points at the firewall mutation endpoint; the function is
// the only component allowed to talk to provider firewalls directly.
type AzureConfig struct {
	FunctionURL     string        `mapstructure:"function_url"`
	FunctionKey     string        `mapstructure:"function_key"`
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxFailures  uint32        `mapstructure:"max_failures"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout"`
}

type ReconcilerConfig struct {
	DispatchConcurrency   int           `mapstructure:"dispatch_concurrency"`
	RetryFailedDispatches bool          `mapstructure:"retry_failed_dispatches"`
	LockTTL               time.Duration `mapstructure:"lock_ttl"`
}

type ServiceTagsConfig struct {
	FeedURL         string        `mapstructure:"feed_url"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

type TelemetryConfig struct {
	Exporters []ExporterConfig `mapstructure:"exporters"`
}

type ExporterConfig struct {
	Name     string                 `mapstructure:"name"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

var globalConfig Config

// Load reads config.yaml from configPath, layers environment variables
// over it, and fills in defaults. The file is required; every deployment
// ships one.
func Load(configPath string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := v.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&globalConfig)
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.AdminPort == 0 {
		cfg.Server.AdminPort = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Azure.DispatchTimeout == 0 {
		cfg.Azure.DispatchTimeout = 120 * time.Second
	}
	if cfg.Azure.Breaker.MaxFailures == 0 {
		cfg.Azure.Breaker.MaxFailures = 5
	}
	if cfg.Azure.Breaker.ResetTimeout == 0 {
		cfg.Azure.Breaker.ResetTimeout = 30 * time.Second
	}
	if cfg.Reconciler.DispatchConcurrency == 0 {
		cfg.Reconciler.DispatchConcurrency = 4
	}
	if cfg.Reconciler.LockTTL == 0 {
		cfg.Reconciler.LockTTL = 15 * time.Minute
	}
	if cfg.ServiceTags.DownloadTimeout == 0 {
		cfg.ServiceTags.DownloadTimeout = 60 * time.Second
	}
}

func GetConfig() *Config {
	return &globalConfig
}
