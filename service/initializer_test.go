package service

import (
	"bytes"
	"context"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/script"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

func newInitializer(t *testing.T, c redis.UniversalClient, mode domain.SeedMode, ledger domain.Ledger) (*InitializerService, *bytes.Buffer) {
	out := &bytes.Buffer{}
	s, err := NewInitializerService(domain.InitializerOptions{
		BaseOptions: domain.BaseOptions{Name: "test", Logger: log.Logger},
		Redis:       domain.RedisOptions{Client: c, Key: domain.DefaultCounterKey},
		Value:       domain.DefaultCounterValue,
		Mode:        mode,
		Output:      out,
		Ledger:      ledger,
	})
	require.Nil(t, err)
	return s, out
}

func TestInitializerService_SeedsMissingCounter(t *testing.T) {
	m, c := newRedis(t)
	s, out := newInitializer(t, c, domain.SEED_IF_ABSENT, nil)

	report, err := s.Run(context.Background())
	require.Nil(t, err)

	v, err := m.Get("ctr")
	require.Nil(t, err)
	assert.Equal(t, "4294967295", v)
	assert.False(t, report.Existed)
	assert.True(t, report.Seeded)
	assert.Equal(t, "4294967295", report.Value)
	assert.Equal(t, script.Hash(), report.ScriptSHA)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"Redis script sha = " + script.Hash(),
		"Starting from 4294967295",
		"Done",
	}, lines)
}

func TestInitializerService_KeepsExistingCounter(t *testing.T) {
	m, c := newRedis(t)
	require.Nil(t, m.Set("ctr", "4294968000"))
	s, _ := newInitializer(t, c, domain.SEED_IF_ABSENT, nil)

	report, err := s.Run(context.Background())
	require.Nil(t, err)

	v, _ := m.Get("ctr")
	assert.Equal(t, "4294968000", v)
	assert.True(t, report.Existed)
	assert.False(t, report.Seeded)
	assert.False(t, report.Overwritten())
	assert.Equal(t, "4294968000", report.Previous)
}

func TestInitializerService_Idempotent(t *testing.T) {
	m, _ := newRedis(t)
	for i := 0; i < 3; i++ {
		c := redis.NewClient(&redis.Options{Addr: m.Addr()})
		s, _ := newInitializer(t, c, domain.SEED_IF_ABSENT, nil)
		_, err := s.Run(context.Background())
		require.Nil(t, err)
		m.Incr("ctr", 1)
	}
	v, _ := m.Get("ctr")
	assert.Equal(t, "4294967298", v)
}

func TestInitializerService_Overwrite(t *testing.T) {
	m, c := newRedis(t)
	require.Nil(t, m.Set("ctr", "5000000000"))
	s, _ := newInitializer(t, c, domain.SEED_OVERWRITE, nil)

	report, err := s.Run(context.Background())
	require.Nil(t, err)

	v, _ := m.Get("ctr")
	assert.Equal(t, "4294967295", v)
	assert.True(t, report.Existed)
	assert.True(t, report.Seeded)
	assert.True(t, report.Overwritten())
	assert.Equal(t, "5000000000", report.Previous)
}

func TestInitializerService_RegistersScript(t *testing.T) {
	m, c := newRedis(t)
	s, _ := newInitializer(t, c, domain.SEED_IF_ABSENT, nil)
	_, err := s.Run(context.Background())
	require.Nil(t, err)

	other := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer other.Close()
	ok, err := script.Loaded(context.Background(), other)
	require.Nil(t, err)
	assert.True(t, ok)
}

func TestInitializerService_ConnectError(t *testing.T) {
	m, c := newRedis(t)
	m.Close()
	s, out := newInitializer(t, c, domain.SEED_IF_ABSENT, nil)

	_, err := s.Run(context.Background())
	assert.NotNil(t, err)
	assert.NotContains(t, out.String(), "Done")
}

func TestInitializerService_TimeoutExpires(t *testing.T) {
	m, c := newRedis(t)
	out := &bytes.Buffer{}
	s, err := NewInitializerService(domain.InitializerOptions{
		BaseOptions: domain.BaseOptions{Name: "test", Logger: log.Logger},
		Redis:       domain.RedisOptions{Client: c, Key: domain.DefaultCounterKey, Timeout: time.Nanosecond},
		Value:       domain.DefaultCounterValue,
		Mode:        domain.SEED_IF_ABSENT,
		Output:      out,
	})
	require.Nil(t, err)

	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotContains(t, out.String(), "Done")
	assert.False(t, m.Exists("ctr"))
}

func TestInitializerService_RecordsRun(t *testing.T) {
	_, c := newRedis(t)
	ledger := newLedger(t, newLedgerDB(t))
	s, _ := newInitializer(t, c, domain.SEED_IF_ABSENT, ledger)

	report, err := s.Run(context.Background())
	require.Nil(t, err)

	runs, err := ledger.Runs(context.Background(), 10)
	require.Nil(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.RunID, runs[0].RunID)
	assert.Equal(t, "ctr", runs[0].Key)
	assert.Equal(t, "if-absent", runs[0].Mode)
	assert.True(t, runs[0].Seeded)
	assert.Equal(t, "4294967295", runs[0].Value)
}

func TestNewInitializerService_Validation(t *testing.T) {
	_, c := newRedis(t)
	base := domain.BaseOptions{Name: "test", Logger: log.Logger}

	_, err := NewInitializerService(domain.InitializerOptions{BaseOptions: base, Value: "1"})
	assert.ErrorIs(t, err, domain.ErrRedisNotConfigured)

	_, err = NewInitializerService(domain.InitializerOptions{
		BaseOptions: base,
		Redis:       domain.RedisOptions{Client: c, Key: "ctr"},
		Value:       "not a number",
	})
	assert.ErrorIs(t, err, domain.ErrCounterNotNumber)

	_, err = NewInitializerService(domain.InitializerOptions{
		BaseOptions: base,
		Redis:       domain.RedisOptions{Client: c, Key: "ctr"},
		Value:       "1",
		Mode:        "sometimes",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSeedMode)
}
