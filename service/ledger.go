package service

import (
	"context"
	"github.com/axgrid/ctrprep/domain"
	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"sync"
)

// LedgerService reads the highest counter persisted in the durable store and keeps a journal of
// initializer runs next to it.
type LedgerService struct {
	opts   domain.LedgerOptions
	db     *gorm.DB
	logger zerolog.Logger

	migrateOnce sync.Once
	migrateErr  error
}

func NewLedgerService(opts domain.LedgerOptions) (*LedgerService, error) {
	if opts.DB == nil {
		return nil, domain.ErrLedgerNotConfigured
	}
	if opts.Table == "" {
		opts.Table = domain.DefaultLedgerTable
	}
	if opts.Column == "" {
		opts.Column = domain.DefaultLedgerColumn
	}
	l := &LedgerService{
		opts:   opts,
		db:     opts.DB,
		logger: opts.Logger.With().Str("name", opts.Name).Str("table", opts.Table).Logger(),
	}
	return l, nil
}

func (l *LedgerService) GetOpts() domain.ServiceOpts {
	return &l.opts
}

func (l *LedgerService) MaxCounter(ctx context.Context) (uint64, error) {
	var maxCounter uint64
	err := l.db.WithContext(ctx).
		Table(l.opts.Table).
		Select("COALESCE(MAX(?), 0)", clause.Column{Name: l.opts.Column}).
		Row().
		Scan(&maxCounter)
	if err != nil {
		return 0, errors.WrapPrefix(err, "max counter", 0)
	}
	l.logger.Debug().Uint64("max", maxCounter).Msg("ledger max counter")
	return maxCounter, nil
}

// migrate creates the run journal on first write only, so reads never touch the schema.
func (l *LedgerService) migrate(ctx context.Context) error {
	l.migrateOnce.Do(func() {
		if err := l.db.WithContext(ctx).AutoMigrate(&domain.RunRecord{}); err != nil {
			l.migrateErr = errors.WrapPrefix(err, "migrate run journal", 0)
		}
	})
	return l.migrateErr
}

func (l *LedgerService) Record(ctx context.Context, report domain.Report) error {
	if err := l.migrate(ctx); err != nil {
		return err
	}
	if err := l.db.WithContext(ctx).Create(domain.NewRunRecord(report)).Error; err != nil {
		return errors.WrapPrefix(err, "record run", 0)
	}
	return nil
}

// Runs returns the latest journal rows, newest first.
func (l *LedgerService) Runs(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	var runs []domain.RunRecord
	if !l.db.WithContext(ctx).Migrator().HasTable(&domain.RunRecord{}) {
		return runs, nil
	}
	err := l.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, errors.WrapPrefix(err, "list runs", 0)
	}
	return runs, nil
}

func (l *LedgerService) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
