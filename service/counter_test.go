package service

import (
	"context"
	"github.com/axgrid/ctrprep/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

func TestCounterService_Get(t *testing.T) {
	m, c := newRedis(t)
	counter := newCounter(t, c)
	ctx := context.Background()

	_, err := counter.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrCounterMissing)

	require.Nil(t, m.Set("ctr", "4294967295"))
	v, err := counter.Get(ctx)
	require.Nil(t, err)
	assert.Equal(t, uint64(4294967295), v)
	assert.Equal(t, v, counter.LastId())

	require.Nil(t, m.Set("ctr", "garbage"))
	_, err = counter.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrCounterNotNumber)
}

func TestCounterService_Next(t *testing.T) {
	m, c := newRedis(t)
	require.Nil(t, m.Set("ctr", "4294967295"))
	counter := newCounter(t, c)

	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := counter.Next(context.Background())
			assert.Nil(t, err)
		}()
	}
	wg.Wait()

	v, err := counter.Get(context.Background())
	require.Nil(t, err)
	assert.Equal(t, uint64(4294967395), v)
}

func TestCounterService_Advance(t *testing.T) {
	m, c := newRedis(t)
	counter := newCounter(t, c)
	ctx := context.Background()

	diff, err := counter.Advance(ctx, 10)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), diff)
	assert.False(t, m.Exists("ctr"))

	require.Nil(t, m.Set("ctr", "100"))
	diff, err = counter.Advance(ctx, 130)
	require.Nil(t, err)
	assert.Equal(t, uint64(30), diff)

	diff, err = counter.Advance(ctx, 90)
	require.Nil(t, err)
	assert.Equal(t, uint64(40), diff)

	v, err := counter.Get(ctx)
	require.Nil(t, err)
	assert.Equal(t, uint64(130), v)
}

func TestCounterService_ScriptLoaded(t *testing.T) {
	_, c := newRedis(t)
	counter := newCounter(t, c)
	ctx := context.Background()

	ok, err := counter.ScriptLoaded(ctx)
	require.Nil(t, err)
	assert.False(t, ok)

	_, err = counter.Advance(ctx, 1)
	require.Nil(t, err)
	ok, err = counter.ScriptLoaded(ctx)
	require.Nil(t, err)
	assert.True(t, ok)
}
