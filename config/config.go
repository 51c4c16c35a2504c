package config

import (
	"github.com/axgrid/ctrprep/domain"
	"github.com/caarlos0/env/v11"
	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST"`
	Port     int    `yaml:"port" env:"REDIS_PORT"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type CounterConfig struct {
	Key     string        `yaml:"key" env:"CTR_KEY"`
	Value   string        `yaml:"value" env:"CTR_VALUE"`
	Mode    string        `yaml:"mode" env:"CTR_MODE"`
	Timeout time.Duration `yaml:"timeout" env:"CTR_TIMEOUT"`
}

// LedgerConfig points at the durable store holding the highest counter already handed out.
// An empty DSN disables the ledger.
type LedgerConfig struct {
	DSN    string `yaml:"dsn" env:"LEDGER_DSN"`
	Table  string `yaml:"table" env:"LEDGER_TABLE"`
	Column string `yaml:"column" env:"LEDGER_COLUMN"`
}

type Config struct {
	Redis    RedisConfig   `yaml:"redis"`
	Counter  CounterConfig `yaml:"counter"`
	Ledger   LedgerConfig  `yaml:"ledger"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL"`
}

func Default() Config {
	return Config{
		Redis: RedisConfig{
			Host: domain.DefaultRedisHost,
			Port: domain.DefaultRedisPort,
		},
		Counter: CounterConfig{
			Key:   domain.DefaultCounterKey,
			Value: domain.DefaultCounterValue,
			Mode:  domain.SEED_IF_ABSENT.String(),
		},
		Ledger: LedgerConfig{
			Table:  domain.DefaultLedgerTable,
			Column: domain.DefaultLedgerColumn,
		},
		LogLevel: "info",
	}
}

// Load applies, in order, the defaults, the YAML file at path (skipped when path is empty)
// and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.WrapPrefix(err, "read config", 0)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.WrapPrefix(err, "parse config "+path, 0)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.WrapPrefix(err, "parse env", 0)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Redis.Host == "" {
		return errors.New("redis host is empty")
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return errors.Errorf("invalid redis port %d", c.Redis.Port)
	}
	if c.Counter.Key == "" {
		return errors.New("counter key is empty")
	}
	if _, err := c.SeedMode(); err != nil {
		return errors.WrapPrefix(err, c.Counter.Mode, 0)
	}
	return nil
}

func (c Config) SeedMode() (domain.SeedMode, error) {
	return domain.ParseSeedMode(c.Counter.Mode)
}

func (c Config) LedgerEnabled() bool {
	return c.Ledger.DSN != ""
}
