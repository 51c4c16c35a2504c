package domain

import "errors"

var (
	ErrCounterMissing      = errors.New("counter key does not exist")
	ErrCounterNotNumber    = errors.New("counter value is not an unsigned integer")
	ErrCounterMismatch     = errors.New("counters mismatch")
	ErrCounterOutOfRange   = errors.New("counter value is out of range")
	ErrInvalidSeedMode     = errors.New("invalid seed mode")
	ErrLedgerNotConfigured = errors.New("ledger is not configured")
	ErrRedisNotConfigured  = errors.New("redis client is not configured")
)
