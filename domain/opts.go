/*
 * Created by Zed 05.12.2023, 21:24
 */

package domain

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"io"
	"time"
)

const (
	DefaultCounterKey   = "ctr"
	DefaultCounterValue = "4294967295" // 4294967296 - 1
	DefaultRedisHost    = "redis"
	DefaultRedisPort    = 6379
	DefaultLedgerTable  = "Utxos"
	DefaultLedgerColumn = "UTXOcounter"
)

type SeedMode string

const (
	SEED_IF_ABSENT SeedMode = "if-absent"
	SEED_OVERWRITE SeedMode = "overwrite"
)

func ParseSeedMode(s string) (SeedMode, error) {
	switch SeedMode(s) {
	case "", SEED_IF_ABSENT:
		return SEED_IF_ABSENT, nil
	case SEED_OVERWRITE:
		return SEED_OVERWRITE, nil
	}
	return "", ErrInvalidSeedMode
}

func (m SeedMode) String() string {
	return string(m)
}

type BaseOptions struct {
	Logger zerolog.Logger
	Name   string
}

type RedisOptions struct {
	Client  redis.UniversalClient
	Key     string
	Timeout time.Duration
}

type InitializerOptions struct {
	BaseOptions
	Redis  RedisOptions
	Value  string
	Mode   SeedMode
	Output io.Writer
	Ledger Ledger
}

func (o *InitializerOptions) GetType() string {
	return "Initializer"
}

func (o *InitializerOptions) GetName() string {
	return o.BaseOptions.Name
}

type CounterOptions struct {
	BaseOptions
	Redis RedisOptions
}

func (o *CounterOptions) GetType() string {
	return "Counter"
}

func (o *CounterOptions) GetName() string {
	return o.BaseOptions.Name
}

type LedgerOptions struct {
	BaseOptions
	DB     *gorm.DB
	Table  string
	Column string
}

func (o *LedgerOptions) GetType() string {
	return "Ledger"
}

func (o *LedgerOptions) GetName() string {
	return o.BaseOptions.Name
}

type VerifyOptions struct {
	BaseOptions
	Counter Counter
	Ledger  Ledger
}

func (o *VerifyOptions) GetType() string {
	return "Verify"
}

func (o *VerifyOptions) GetName() string {
	return o.BaseOptions.Name
}

type ServiceOpts interface {
	GetType() string
	GetName() string
}
