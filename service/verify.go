package service

import (
	"context"
	"fmt"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/utils"
	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
)

type VerifyResult struct {
	Redis  uint64
	Ledger uint64
	Lag    uint64
}

// VerifyService checks that the Redis counter is not behind the durable ledger.
type VerifyService struct {
	opts    domain.VerifyOptions
	counter domain.Counter
	ledger  domain.Ledger
	logger  zerolog.Logger
}

func NewVerifyService(opts domain.VerifyOptions) (*VerifyService, error) {
	if opts.Counter == nil {
		return nil, domain.ErrRedisNotConfigured
	}
	if opts.Ledger == nil {
		return nil, domain.ErrLedgerNotConfigured
	}
	return &VerifyService{
		opts:    opts,
		counter: opts.Counter,
		ledger:  opts.Ledger,
		logger:  opts.Logger.With().Str("name", opts.Name).Str("key", opts.Counter.Key()).Logger(),
	}, nil
}

func (v *VerifyService) GetOpts() domain.ServiceOpts {
	return &v.opts
}

func (v *VerifyService) Verify(ctx context.Context) (VerifyResult, error) {
	var res VerifyResult
	var err error
	if res.Redis, err = v.counter.Get(ctx); err != nil {
		return res, err
	}
	if res.Ledger, err = v.ledger.MaxCounter(ctx); err != nil {
		return res, err
	}
	res.Lag = utils.Diff(res.Redis, res.Ledger)
	if res.Ledger > res.Redis {
		v.logger.Error().Uint64("redis", res.Redis).Uint64("ledger", res.Ledger).Msg("counters mismatch")
		return res, errors.WrapPrefix(domain.ErrCounterMismatch, fmt.Sprintf("ledger %d is ahead of redis %d", res.Ledger, res.Redis), 0)
	}
	v.logger.Info().Uint64("redis", res.Redis).Uint64("ledger", res.Ledger).Msg("counters consistent")
	return res, nil
}

// Repair raises the Redis counter to the ledger maximum when the ledger is ahead.
func (v *VerifyService) Repair(ctx context.Context) (VerifyResult, error) {
	res, err := v.Verify(ctx)
	if err == nil || !errors.Is(err, domain.ErrCounterMismatch) {
		return res, err
	}
	diff, err := v.counter.Advance(ctx, res.Ledger)
	if err != nil {
		return res, err
	}
	v.logger.Warn().Uint64("diff", diff).Uint64("value", res.Ledger).Msg("counter advanced to ledger")
	return v.Verify(ctx)
}
