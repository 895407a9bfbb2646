package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type APIConfig struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// storage
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"phonebook.db"`
	DBDSN       string `envconfig:"DB_DSN"`

	DBPoolMaxConns          int32  `envconfig:"DB_POOL_MAX_CONNS" default:"10"`
	DBPoolMinConns          int32  `envconfig:"DB_POOL_MIN_CONNS" default:"0"`
	DBPoolMaxConnLifetime   string `envconfig:"DB_POOL_MAX_CONN_LIFETIME"`
	DBPoolMaxConnIdleTime   string `envconfig:"DB_POOL_MAX_CONN_IDLE_TIME"`
	DBPoolHealthCheckPeriod string `envconfig:"DB_POOL_HEALTH_CHECK_PERIOD"`

	// avatar provider (PokeAPI)
	AvatarBaseURL string        `envconfig:"AVATAR_BASE_URL" default:"https://pokeapi.co"`
	AvatarRPS     float64       `envconfig:"AVATAR_RPS" default:"5"`
	AvatarBurst   int           `envconfig:"AVATAR_BURST" default:"10"`
	AvatarTimeout time.Duration `envconfig:"AVATAR_TIMEOUT" default:"8s"`

	// contact events; publishing is off when EVENTS_QUEUE_URL is empty
	AWSRegion          string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	EventsQueueURL     string `envconfig:"EVENTS_QUEUE_URL"`
	LocalstackEndpoint string `envconfig:"LOCALSTACK_ENDPOINT"`
}

func (c APIConfig) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for store driver %q", c.StoreDriver)
		}
	case DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for store driver %q", c.StoreDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.AvatarRPS <= 0 {
		return fmt.Errorf("AVATAR_RPS must be positive")
	}
	return nil
}

func LoadAPI() APIConfig {
	cfg, err := ProcessAPI()
	if err != nil {
		panic(err)
	}
	return cfg
}

func ProcessAPI() (APIConfig, error) {
	var cfg APIConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return APIConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return APIConfig{}, err
	}
	return cfg, nil
}
