package config

import (
	"log"
	"time"

	"github.com/spf13/viper"

	"github.com/rpattn/feedtrack/internal/feedxml"
)

// Config is the full runtime configuration.
type Config struct {
	ListenAddr     string
	FetchTimeout   time.Duration
	SnapshotDir    string
	AnalyticsDB    string
	AdminToken     string
	AllowedOrigins []string
	StockTokens    feedxml.StockTokens
}

// DefaultConfig returns the values used when no config file or environment
// overrides exist.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		FetchTimeout:   30 * time.Second,
		SnapshotDir:    "snapshots",
		AnalyticsDB:    "analytics.db",
		AllowedOrigins: []string{"*"},
	}
}

// Load reads config.yaml from configPath with environment overrides mapped
// from FEEDTRACK_* variables (FEEDTRACK_SERVER_LISTEN, FEEDTRACK_ADMIN_TOKEN,
// ...). Extra stock-status vocabulary for further locales can be declared
// under the parser section.
func Load(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("FEEDTRACK")

	v.BindEnv("server.listen")
	v.BindEnv("server.allowed_origins")
	v.BindEnv("fetch.timeout_seconds")
	v.BindEnv("snapshot.dir")
	v.BindEnv("analytics.db")
	v.BindEnv("admin.token")

	if err := v.ReadInConfig(); err != nil {
		log.Println("[CONFIG] no config.yaml found, using defaults and env vars")
	} else {
		log.Printf("[CONFIG] loaded %s", v.ConfigFileUsed())
	}

	if v.IsSet("server.listen") {
		cfg.ListenAddr = v.GetString("server.listen")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("fetch.timeout_seconds") {
		cfg.FetchTimeout = time.Duration(v.GetInt("fetch.timeout_seconds")) * time.Second
	}
	if v.IsSet("snapshot.dir") {
		cfg.SnapshotDir = v.GetString("snapshot.dir")
	}
	if v.IsSet("analytics.db") {
		cfg.AnalyticsDB = v.GetString("analytics.db")
	}
	if v.IsSet("admin.token") {
		cfg.AdminToken = v.GetString("admin.token")
	}

	cfg.StockTokens = feedxml.StockTokens{
		InStockWords:      v.GetStringSlice("parser.in_stock_words"),
		OutOfStockWords:   v.GetStringSlice("parser.out_of_stock_words"),
		InStockPhrases:    v.GetStringSlice("parser.in_stock_phrases"),
		OutOfStockPhrases: v.GetStringSlice("parser.out_of_stock_phrases"),
	}

	return cfg, nil
}
