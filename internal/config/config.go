package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Drivers supported by the graph store.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Transports supported by the MCP server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all docgraph configuration
type Config struct {
	Store StoreConfig

	// MCP server settings
	Transport string `env:"DOCGRAPH_TRANSPORT" envDefault:"stdio"`
	HTTPAddr  string `env:"DOCGRAPH_HTTP_ADDR" envDefault:":8081"`

	LogLevel  string `env:"DOCGRAPH_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"DOCGRAPH_LOG_FORMAT" envDefault:"console"`
}

// StoreConfig selects and locates the graph store
type StoreConfig struct {
	Driver      string        `env:"DOCGRAPH_STORE_DRIVER" envDefault:"sqlite"`
	DSN         string        `env:"DOCGRAPH_STORE_DSN" envDefault:"./data/docgraph.db"`
	BusyTimeout time.Duration `env:"DOCGRAPH_BUSY_TIMEOUT" envDefault:"5s"`
}

// Load reads config from environment variables after loading envFile, or
// ./.env when envFile is empty. A missing default .env is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q (want %s or %s)", c.Store.Driver, DriverSQLite, DriverPostgres)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store DSN is required")
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportStdio, TransportHTTP)
	}
	if c.Store.BusyTimeout < 0 {
		return fmt.Errorf("busy timeout must not be negative")
	}
	return nil
}
