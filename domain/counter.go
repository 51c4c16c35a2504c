package domain

import "context"

type Counter interface {
	Get(ctx context.Context) (uint64, error)
	Next(ctx context.Context) (uint64, error)
	Advance(ctx context.Context, candidate uint64) (uint64, error)
	ScriptLoaded(ctx context.Context) (bool, error)
	Key() string
	LastId() uint64
}
