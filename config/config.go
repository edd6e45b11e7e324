// Package config loads settings from .env, the environment and an optional
// YAML file, and opens the journal database.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string         `mapstructure:"service_name"`
	Server      ServerConfig   `mapstructure:"server"`
	Algod       NodeConfig     `mapstructure:"algod"`
	Indexer     NodeConfig     `mapstructure:"indexer"`
	Reservation Reservation    `mapstructure:"reservation"`
	Wallet      WalletConfig   `mapstructure:"wallet"`
	Database    DatabaseConfig `mapstructure:"database"`
	Log         LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

type NodeConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Reservation struct {
	MinRound         uint64 `mapstructure:"min_round"`
	ConfirmRounds    uint64 `mapstructure:"confirm_rounds"`
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
}

// WalletConfig selects the signer: a remote bridge when RemoteURL is set,
// otherwise a local account from Mnemonic.
type WalletConfig struct {
	Mnemonic  string        `mapstructure:"mnemonic"`
	RemoteURL string        `mapstructure:"remote_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig enables the transaction journal. Without it the journal is
// a no-op.
type DatabaseConfig struct {
	Enabled bool `mapstructure:"enabled"`
	LogSQL  bool `mapstructure:"log_sql"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envKeys maps config keys to the environment variables that set them.
var envKeys = map[string]string{
	"service_name":                  "SERVICE_NAME",
	"server.port":                   "PORT",
	"server.cors_origins":           "CORS_ORIGINS",
	"algod.url":                     "ALGOD_URL",
	"algod.token":                   "ALGOD_TOKEN",
	"algod.timeout":                 "ALGOD_TIMEOUT",
	"indexer.url":                   "INDEXER_URL",
	"indexer.token":                 "INDEXER_TOKEN",
	"indexer.timeout":               "INDEXER_TIMEOUT",
	"reservation.min_round":         "MIN_ROUND",
	"reservation.confirm_rounds":    "CONFIRM_ROUNDS",
	"reservation.fetch_concurrency": "FETCH_CONCURRENCY",
	"wallet.mnemonic":               "WALLET_MNEMONIC",
	"wallet.remote_url":             "WALLET_REMOTE_URL",
	"wallet.timeout":                "WALLET_TIMEOUT",
	"database.enabled":              "JOURNAL_ENABLED",
	"database.log_sql":              "DB_LOG_SQL",
	"log.level":                     "LOG_LEVEL",
	"log.format":                    "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "hotel-chain")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("algod.url", "https://testnet-api.algonode.cloud")
	v.SetDefault("algod.timeout", 15*time.Second)
	v.SetDefault("indexer.url", "https://testnet-idx.algonode.cloud")
	v.SetDefault("indexer.timeout", 15*time.Second)
	v.SetDefault("reservation.min_round", 0)
	v.SetDefault("reservation.confirm_rounds", 4)
	v.SetDefault("reservation.fetch_concurrency", 8)
	v.SetDefault("wallet.timeout", 2*time.Minute)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.log_sql", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads .env (optional), then an optional YAML file at path (or
// CONFIG_PATH), then the environment. Later sources win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Algod.URL) == "" {
		return fmt.Errorf("algod url is required")
	}
	if strings.TrimSpace(c.Indexer.URL) == "" {
		return fmt.Errorf("indexer url is required")
	}
	if c.Reservation.FetchConcurrency < 0 {
		return fmt.Errorf("fetch concurrency must not be negative")
	}
	return nil
}

// CORSOriginList splits the comma separated origin list; empty means "*".
func (s ServerConfig) CORSOriginList() []string {
	parts := strings.Split(s.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
