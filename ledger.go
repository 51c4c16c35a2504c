package ctrprep

import (
	"context"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/service"
	"github.com/axgrid/ctrprep/utils"
	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"time"
)

type Ledger interface {
	domain.Ledger
	Runs(ctx context.Context, limit int) ([]domain.RunRecord, error)
	GetOpts() domain.ServiceOpts
	Close() error
}

type LedgerBuilder struct {
	opts domain.LedgerOptions
	dsn  string
}

func NewLedger() *LedgerBuilder {
	return &LedgerBuilder{
		opts: domain.LedgerOptions{
			BaseOptions: domain.BaseOptions{
				Logger: zerolog.Nop(),
				Name:   "ledger",
			},
			Table:  domain.DefaultLedgerTable,
			Column: domain.DefaultLedgerColumn,
		},
	}
}

func (b *LedgerBuilder) WithName(name string) *LedgerBuilder {
	b.opts.Name = name
	return b
}

func (b *LedgerBuilder) WithLogger(logger zerolog.Logger) *LedgerBuilder {
	b.opts.Logger = logger
	return b
}

func (b *LedgerBuilder) WithDB(db *gorm.DB) *LedgerBuilder {
	b.opts.DB = db
	return b
}

// WithDSN sets a go-sql-driver/mysql DSN, e.g. "root:@tcp(localhost:3306)/plasma".
func (b *LedgerBuilder) WithDSN(dsn string) *LedgerBuilder {
	b.dsn = dsn
	return b
}

func (b *LedgerBuilder) WithMySQL(params domain.DBParams) *LedgerBuilder {
	b.dsn = utils.MySQLConnectionString(params.User, params.Password, params.Host, params.Port, params.DBName)
	return b
}

func (b *LedgerBuilder) WithTable(table string) *LedgerBuilder {
	b.opts.Table = table
	return b
}

func (b *LedgerBuilder) WithColumn(column string) *LedgerBuilder {
	b.opts.Column = column
	return b
}

func (b *LedgerBuilder) Build() (Ledger, error) {
	if b.opts.DB == nil {
		if b.dsn == "" {
			return nil, domain.ErrLedgerNotConfigured
		}
		gLogger := utils.NewGLogger(b.opts.Logger, true).LogMode(utils.GormLogLevel(b.opts.Logger.GetLevel()))
		db, err := gorm.Open(mysql.Open(b.dsn), &gorm.Config{Logger: gLogger, NowFunc: func() time.Time { return time.Now().UTC() }})
		if err != nil {
			return nil, errors.WrapPrefix(err, "open ledger", 0)
		}
		b.opts.DB = db
	}
	res, err := service.NewLedgerService(b.opts)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (b *LedgerBuilder) ShouldBuild() Ledger {
	res, err := b.Build()
	if err != nil {
		panic(err)
	}
	return res
}
