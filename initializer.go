/*
 * Created by Zed 08.12.2023, 14:39
 */

package ctrprep

import (
	"context"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"io"
	"time"
)

type Initializer interface {
	Run(ctx context.Context) (domain.Report, error)
	GetOpts() domain.ServiceOpts
}

type InitializerBuilder struct {
	opts  domain.InitializerOptions
	redis redisParams
}

func NewInitializer() *InitializerBuilder {
	return &InitializerBuilder{
		redis: defaultRedisParams(),
		opts: domain.InitializerOptions{
			BaseOptions: domain.BaseOptions{
				Logger: zerolog.Nop(),
				Name:   "initializer",
			},
			Redis: domain.RedisOptions{
				Key: domain.DefaultCounterKey,
			},
			Value: domain.DefaultCounterValue,
			Mode:  domain.SEED_IF_ABSENT,
		},
	}
}

func (b *InitializerBuilder) WithName(name string) *InitializerBuilder {
	b.opts.Name = name
	return b
}

func (b *InitializerBuilder) WithLogger(logger zerolog.Logger) *InitializerBuilder {
	b.opts.Logger = logger
	return b
}

func (b *InitializerBuilder) WithRedis(host string, port int) *InitializerBuilder {
	b.redis.host = host
	b.redis.port = port
	return b
}

func (b *InitializerBuilder) WithPassword(password string) *InitializerBuilder {
	b.redis.password = password
	return b
}

func (b *InitializerBuilder) WithDB(db int) *InitializerBuilder {
	b.redis.db = db
	return b
}

// WithClient uses an existing client instead of dialing. Run closes it.
func (b *InitializerBuilder) WithClient(client redis.UniversalClient) *InitializerBuilder {
	b.redis.client = client
	return b
}

func (b *InitializerBuilder) WithKey(key string) *InitializerBuilder {
	b.opts.Redis.Key = key
	return b
}

func (b *InitializerBuilder) WithValue(value string) *InitializerBuilder {
	b.opts.Value = value
	return b
}

func (b *InitializerBuilder) WithMode(mode domain.SeedMode) *InitializerBuilder {
	b.opts.Mode = mode
	return b
}

func (b *InitializerBuilder) WithOverwrite() *InitializerBuilder {
	b.opts.Mode = domain.SEED_OVERWRITE
	return b
}

func (b *InitializerBuilder) WithTimeout(t time.Duration) *InitializerBuilder {
	b.redis.timeout = t
	b.opts.Redis.Timeout = t
	return b
}

func (b *InitializerBuilder) WithOutput(w io.Writer) *InitializerBuilder {
	b.opts.Output = w
	return b
}

func (b *InitializerBuilder) WithLedger(ledger domain.Ledger) *InitializerBuilder {
	b.opts.Ledger = ledger
	return b
}

func (b *InitializerBuilder) Build() (Initializer, error) {
	b.opts.Redis.Client = b.redis.open()
	res, err := service.NewInitializerService(b.opts)
	if err != nil {
		_ = b.opts.Redis.Client.Close()
		return nil, err
	}
	return res, nil
}

func (b *InitializerBuilder) ShouldBuild() Initializer {
	res, err := b.Build()
	if err != nil {
		panic(err)
	}
	return res
}
