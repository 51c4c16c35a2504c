package domain

import "context"

type Ledger interface {
	MaxCounter(ctx context.Context) (uint64, error)
	Record(ctx context.Context, report Report) error
}

type DBParams struct {
	User     string
	Password string
	Host     string
	Port     int
	DBName   string
}
