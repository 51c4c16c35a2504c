package ctrprep

import (
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"time"
)

type Counter interface {
	domain.Counter
	GetOpts() domain.ServiceOpts
	Close() error
}

type CounterBuilder struct {
	opts  domain.CounterOptions
	redis redisParams
}

func NewCounter() *CounterBuilder {
	return &CounterBuilder{
		redis: defaultRedisParams(),
		opts: domain.CounterOptions{
			BaseOptions: domain.BaseOptions{
				Logger: zerolog.Nop(),
				Name:   "counter",
			},
			Redis: domain.RedisOptions{
				Key: domain.DefaultCounterKey,
			},
		},
	}
}

func (b *CounterBuilder) WithName(name string) *CounterBuilder {
	b.opts.Name = name
	return b
}

func (b *CounterBuilder) WithLogger(logger zerolog.Logger) *CounterBuilder {
	b.opts.Logger = logger
	return b
}

func (b *CounterBuilder) WithRedis(host string, port int) *CounterBuilder {
	b.redis.host = host
	b.redis.port = port
	return b
}

func (b *CounterBuilder) WithPassword(password string) *CounterBuilder {
	b.redis.password = password
	return b
}

func (b *CounterBuilder) WithDB(db int) *CounterBuilder {
	b.redis.db = db
	return b
}

func (b *CounterBuilder) WithClient(client redis.UniversalClient) *CounterBuilder {
	b.redis.client = client
	return b
}

func (b *CounterBuilder) WithKey(key string) *CounterBuilder {
	b.opts.Redis.Key = key
	return b
}

func (b *CounterBuilder) WithTimeout(t time.Duration) *CounterBuilder {
	b.redis.timeout = t
	b.opts.Redis.Timeout = t
	return b
}

func (b *CounterBuilder) Build() (Counter, error) {
	b.opts.Redis.Client = b.redis.open()
	res, err := service.NewCounterService(b.opts)
	if err != nil {
		_ = b.opts.Redis.Client.Close()
		return nil, err
	}
	return res, nil
}

func (b *CounterBuilder) ShouldBuild() Counter {
	res, err := b.Build()
	if err != nil {
		panic(err)
	}
	return res
}
