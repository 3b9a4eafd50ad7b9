package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds server settings loaded from a TOML file. Every field has a
// matching serve flag; flags win over file values.
//
//	addr = ":8080"
//	timeout = "30s"
//
//	[cache]
//	redis_addr = "localhost:6379"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_db = "gridlock"
type Config struct {
	Addr    string   `toml:"addr"`
	Timeout duration `toml:"timeout"`

	Cache struct {
		Disabled      bool   `toml:"disabled"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
	} `toml:"cache"`

	Store struct {
		MongoURI string `toml:"mongo_uri"`
		MongoDB  string `toml:"mongo_db"`
	} `toml:"store"`
}

// duration wraps time.Duration for TOML strings like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// loadConfig reads a TOML config file.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyConfig overlays file values onto serve options, keeping any value
// already set by a flag.
func applyConfig(opts *serveOpts, cfg *Config, flagSet func(name string) bool) {
	if cfg.Addr != "" && !flagSet("addr") {
		opts.addr = cfg.Addr
	}
	if cfg.Timeout.Duration > 0 && !flagSet("timeout") {
		opts.timeout = cfg.Timeout.Duration
	}
	if cfg.Cache.Disabled && !flagSet("no-cache") {
		opts.noCache = true
	}
	if cfg.Cache.RedisAddr != "" && !flagSet("redis-addr") {
		opts.redisAddr = cfg.Cache.RedisAddr
	}
	if cfg.Cache.RedisPassword != "" && !flagSet("redis-password") {
		opts.redisPassword = cfg.Cache.RedisPassword
	}
	if cfg.Cache.RedisDB != 0 && !flagSet("redis-db") {
		opts.redisDB = cfg.Cache.RedisDB
	}
	if cfg.Store.MongoURI != "" && !flagSet("mongo-uri") {
		opts.mongoURI = cfg.Store.MongoURI
	}
	if cfg.Store.MongoDB != "" && !flagSet("mongo-db") {
		opts.mongoDB = cfg.Store.MongoDB
	}
}
