/*
 * Created by Zed 05.12.2023, 21:15
 */

package service

import (
	"context"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/script"
	"github.com/axgrid/ctrprep/utils"
	"github.com/go-errors/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"sync/atomic"
)

type CounterService struct {
	opts   domain.CounterOptions
	client redis.UniversalClient
	logger zerolog.Logger
	key    string
	lastId atomic.Uint64
}

func NewCounterService(opts domain.CounterOptions) (*CounterService, error) {
	if opts.Redis.Client == nil {
		return nil, domain.ErrRedisNotConfigured
	}
	if opts.Redis.Key == "" {
		return nil, errors.New("empty counter key")
	}
	return &CounterService{
		opts:   opts,
		client: opts.Redis.Client,
		logger: opts.Logger.With().Str("name", opts.Name).Str("key", opts.Redis.Key).Logger(),
		key:    opts.Redis.Key,
	}, nil
}

func (c *CounterService) GetOpts() domain.ServiceOpts {
	return &c.opts
}

func (c *CounterService) Key() string {
	return c.key
}

func (c *CounterService) Get(ctx context.Context) (uint64, error) {
	raw, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrCounterMissing
		}
		return 0, errors.WrapPrefix(err, "get "+c.key, 0)
	}
	v, err := utils.ParseCounter(raw)
	if err != nil {
		return 0, errors.WrapPrefix(domain.ErrCounterNotNumber, raw, 0)
	}
	c.lastId.Store(v)
	return v, nil
}

// Next hands out the next counter value.
func (c *CounterService) Next(ctx context.Context) (uint64, error) {
	v, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, errors.WrapPrefix(err, "incr "+c.key, 0)
	}
	c.lastId.Store(uint64(v))
	return uint64(v), nil
}

// Advance raises the counter to candidate when candidate is larger and returns the distance
// between the two. A missing counter is not created.
func (c *CounterService) Advance(ctx context.Context, candidate uint64) (uint64, error) {
	diff, err := script.Advance(ctx, c.client, c.key, candidate)
	if err != nil {
		return 0, err
	}
	c.logger.Debug().Uint64("candidate", candidate).Uint64("diff", diff).Msg("advance")
	return diff, nil
}

func (c *CounterService) ScriptLoaded(ctx context.Context) (bool, error) {
	return script.Loaded(ctx, c.client)
}

func (c *CounterService) LastId() uint64 {
	return c.lastId.Load()
}

func (c *CounterService) Close() error {
	return c.client.Close()
}
