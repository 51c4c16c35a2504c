package ctrprep

import (
	"context"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/service"
	"github.com/rs/zerolog"
)

type Verifier interface {
	Verify(ctx context.Context) (service.VerifyResult, error)
	Repair(ctx context.Context) (service.VerifyResult, error)
	GetOpts() domain.ServiceOpts
}

type VerifierBuilder struct {
	opts domain.VerifyOptions
}

func NewVerifier() *VerifierBuilder {
	return &VerifierBuilder{
		opts: domain.VerifyOptions{
			BaseOptions: domain.BaseOptions{
				Logger: zerolog.Nop(),
				Name:   "verifier",
			},
		},
	}
}

func (b *VerifierBuilder) WithName(name string) *VerifierBuilder {
	b.opts.Name = name
	return b
}

func (b *VerifierBuilder) WithLogger(logger zerolog.Logger) *VerifierBuilder {
	b.opts.Logger = logger
	return b
}

func (b *VerifierBuilder) WithCounter(c domain.Counter) *VerifierBuilder {
	b.opts.Counter = c
	return b
}

func (b *VerifierBuilder) WithLedger(l domain.Ledger) *VerifierBuilder {
	b.opts.Ledger = l
	return b
}

func (b *VerifierBuilder) Build() (Verifier, error) {
	res, err := service.NewVerifyService(b.opts)
	if err != nil {
		return nil, err
	}
	return res, nil
}
