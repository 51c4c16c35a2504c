/*
 * Created by Zed 05.12.2023, 21:19
 */

package service

import (
	"context"
	"fmt"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/script"
	"github.com/axgrid/ctrprep/utils"
	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"io"
	"os"
)

type InitializerService struct {
	opts   domain.InitializerOptions
	client redis.UniversalClient
	logger zerolog.Logger
	out    io.Writer
}

func NewInitializerService(opts domain.InitializerOptions) (*InitializerService, error) {
	if opts.Redis.Client == nil {
		return nil, domain.ErrRedisNotConfigured
	}
	if opts.Redis.Key == "" {
		return nil, errors.New("empty counter key")
	}
	if _, err := utils.ParseCounter(opts.Value); err != nil {
		return nil, errors.WrapPrefix(domain.ErrCounterNotNumber, opts.Value, 0)
	}
	if opts.Mode == "" {
		opts.Mode = domain.SEED_IF_ABSENT
	}
	if _, err := domain.ParseSeedMode(opts.Mode.String()); err != nil {
		return nil, err
	}
	s := &InitializerService{
		opts:   opts,
		client: opts.Redis.Client,
		logger: opts.Logger.With().Str("name", opts.Name).Str("key", opts.Redis.Key).Logger(),
		out:    opts.Output,
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	return s, nil
}

func (s *InitializerService) GetOpts() domain.ServiceOpts {
	return &s.opts
}

// Run connects, registers the compare-and-swap script, seeds the counter and closes the client.
// The client is closed on every path, so an InitializerService runs once.
func (s *InitializerService) Run(ctx context.Context) (domain.Report, error) {
	if s.opts.Redis.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Redis.Timeout)
		defer cancel()
	}
	report := domain.Report{
		RunID: uuid.New(),
		Key:   s.opts.Redis.Key,
		Mode:  s.opts.Mode,
	}
	logger := s.logger.With().Str("run", report.RunID.String()).Logger()

	err := s.run(ctx, logger, &report)
	if closeErr := s.client.Close(); closeErr != nil {
		logger.Warn().Err(closeErr).Msg("close redis client")
	}
	if err != nil {
		return report, err
	}
	fmt.Fprintln(s.out, "Done")
	return report, nil
}

func (s *InitializerService) run(ctx context.Context, logger zerolog.Logger, report *domain.Report) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.WrapPrefix(err, "connect", 0)
	}
	logger.Debug().Msg("connected")

	sha, err := script.Load(ctx, s.client)
	if err != nil {
		return err
	}
	if sha != script.Hash() {
		logger.Warn().Str("server", sha).Str("local", script.Hash()).Msg("script sha differs from local hash")
	}
	report.ScriptSHA = sha
	logger.Info().Str("sha", sha).Msg("script loaded")
	fmt.Fprintf(s.out, "Redis script sha = %s\n", sha)

	if err = s.seed(ctx, logger, report); err != nil {
		return err
	}

	value, err := s.client.Get(ctx, s.opts.Redis.Key).Result()
	if err != nil {
		return errors.WrapPrefix(err, "read back counter", 0)
	}
	report.Value = value
	if !report.Seeded {
		report.Previous = value
	}
	fmt.Fprintf(s.out, "Starting from %s\n", value)

	if s.opts.Ledger != nil {
		if err = s.opts.Ledger.Record(ctx, *report); err != nil {
			return err
		}
	}
	return nil
}

func (s *InitializerService) seed(ctx context.Context, logger zerolog.Logger, report *domain.Report) error {
	key := s.opts.Redis.Key
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return errors.WrapPrefix(err, "exists "+key, 0)
	}
	report.Existed = n > 0

	switch s.opts.Mode {
	case domain.SEED_OVERWRITE:
		if report.Existed {
			if report.Previous, err = s.client.Get(ctx, key).Result(); err != nil && !errors.Is(err, redis.Nil) {
				return errors.WrapPrefix(err, "get "+key, 0)
			}
		}
		if err = s.client.Set(ctx, key, s.opts.Value, 0).Err(); err != nil {
			return errors.WrapPrefix(err, "set "+key, 0)
		}
		report.Seeded = true
		if report.Existed && report.Previous != s.opts.Value {
			logger.Warn().Str("previous", report.Previous).Str("value", s.opts.Value).Msg("counter overwritten")
		}
	default:
		if report.Existed {
			logger.Info().Msg("counter exists, left untouched")
			return nil
		}
		ok, err := s.client.SetNX(ctx, key, s.opts.Value, 0).Result()
		if err != nil {
			return errors.WrapPrefix(err, "setnx "+key, 0)
		}
		report.Seeded = ok
		if !ok {
			report.Existed = true
			logger.Info().Msg("counter created concurrently, left untouched")
		}
	}
	if report.Seeded {
		logger.Info().Str("value", s.opts.Value).Msg("counter seeded")
	}
	return nil
}
