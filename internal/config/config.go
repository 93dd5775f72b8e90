package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	EventBus EventBusConfig `mapstructure:"eventbus"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Plaid    PlaidConfig    `mapstructure:"plaid"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Conflict ConflictConfig `mapstructure:"conflict"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type WorkerConfig struct {
	PoolSize   int `mapstructure:"pool_size"`
	MaxRetries int `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type EventBusConfig struct {
	ChannelBufferSize int           `mapstructure:"channel_buffer_size"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
}

type StorageConfig struct {
	// Driver is memory, bolt or sqlite.
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// RedisConfig enables the status mirror when URL is set.
type RedisConfig struct {
	URL       string        `mapstructure:"url"`
	StatusTTL time.Duration `mapstructure:"status_ttl"`
}

type PlaidConfig struct {
	Environment string        `mapstructure:"environment"`
	ClientID    string        `mapstructure:"client_id"`
	Secret      string        `mapstructure:"secret"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PageSize    int           `mapstructure:"page_size"`
}

type SyncConfig struct {
	WindowDays              int           `mapstructure:"window_days"`
	StaleAfter              time.Duration `mapstructure:"stale_after"`
	IncrementalOverlap      time.Duration `mapstructure:"incremental_overlap"`
	MaxConcurrentAccounts   int           `mapstructure:"max_concurrent_accounts"`
	NewTransactionThreshold int           `mapstructure:"new_transaction_threshold"`
	IncrementalInterval     time.Duration `mapstructure:"incremental_interval"`
	SchedulerEnabled        bool          `mapstructure:"scheduler_enabled"`
	MinBatteryLevel         int           `mapstructure:"min_battery_level"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

type ConflictConfig struct {
	Strategy string `mapstructure:"strategy"`
}

var defaults = map[string]interface{}{
	"server.port":             "8080",
	"server.host":             "0.0.0.0",
	"server.shutdown_timeout": 30 * time.Second,

	"worker.pool_size":   4,
	"worker.max_retries": 5,

	"logging.level": "info",

	"eventbus.channel_buffer_size": 1000,
	"eventbus.retry_delay":         100 * time.Millisecond,

	"storage.driver": "bolt",
	"storage.path":   "finsync.db",

	"redis.url":        "",
	"redis.status_ttl": 24 * time.Hour,

	"plaid.environment": "sandbox",
	"plaid.client_id":   "",
	"plaid.secret":      "",
	"plaid.base_url":    "",
	"plaid.timeout":     30 * time.Second,
	"plaid.page_size":   500,

	"sync.window_days":               30,
	"sync.stale_after":               15 * time.Minute,
	"sync.incremental_overlap":       72 * time.Hour,
	"sync.max_concurrent_accounts":   4,
	"sync.new_transaction_threshold": 5,
	"sync.incremental_interval":      15 * time.Minute,
	"sync.scheduler_enabled":         true,
	"sync.min_battery_level":         20,

	"retry.max_attempts": 3,
	"retry.base_delay":   500 * time.Millisecond,
	"retry.max_delay":    10 * time.Second,

	"conflict.strategy": "use_remote",
}

// aliases keeps the short env names used in deployments working.
var aliases = map[string]string{
	"logging.level":                "LOG_LEVEL",
	"server.shutdown_timeout":      "SHUTDOWN_TIMEOUT",
	"worker.max_retries":           "MAX_RETRIES",
	"eventbus.channel_buffer_size": "EVENT_CHANNEL_BUFFER_SIZE",
}

// Load reads .env, an optional config file named by FINSYNC_CONFIG, and the
// environment. Env names are the upper snake case of the key, e.g.
// sync.window_days is SYNC_WINDOW_DAYS.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range aliases {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path := os.Getenv("FINSYNC_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
