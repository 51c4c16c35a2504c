package utils

import (
	"bytes"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
	"math"
	"testing"
)

func TestDiff(t *testing.T) {
	assert.Equal(t, uint64(5), Diff[uint64](10, 5))
	assert.Equal(t, uint64(5), Diff[uint64](5, 10))
	assert.Equal(t, uint64(0), Diff[uint64](7, 7))
	assert.Equal(t, uint64(math.MaxUint64), Diff[uint64](0, math.MaxUint64))
	assert.Equal(t, 3, Diff(-1, 2))
}

func TestParseCounter(t *testing.T) {
	v, err := ParseCounter("4294967295")
	require.Nil(t, err)
	assert.Equal(t, uint64(4294967295), v)

	_, err = ParseCounter("-1")
	assert.NotNil(t, err)
	_, err = ParseCounter("abc")
	assert.NotNil(t, err)
}

func TestRedisAddr(t *testing.T) {
	assert.Equal(t, "redis:6379", RedisAddr("redis", 6379))
	assert.Equal(t, "[::1]:6380", RedisAddr("::1", 6380))
}

func TestShortener(t *testing.T) {
	assert.Equal(t, "run_1b4e...a3e1", Shortener("run_1b4e28ba-2fa1-11d2-883f-0016d3cca3e1"))
	assert.Equal(t, "e0e3...bd3f", Shortener("e0e38f1e7e3e63a2fd4b8f30bba50dd9f1e0bd3f"))
	assert.Equal(t, "ctr", Shortener("ctr"))
	assert.Equal(t, "my_counter", Shortener("my_counter"))
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, GetLogLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, GetLogLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, GetLogLevel("err"))
	assert.Equal(t, zerolog.InfoLevel, GetLogLevel(""))
	assert.Equal(t, zerolog.Disabled, GetLogLevel("off"))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, GormLogLevel(zerolog.DebugLevel))
	assert.Equal(t, logger.Warn, GormLogLevel(zerolog.InfoLevel))
	assert.Equal(t, logger.Error, GormLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, logger.Silent, GormLogLevel(zerolog.Disabled))
}

func TestInitLoggerTo(t *testing.T) {
	buf := &bytes.Buffer{}
	l := InitLoggerTo(buf, "warn")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestMySQLConnectionString(t *testing.T) {
	assert.Equal(t, "root:@tcp(localhost:3306)/plasma?charset=utf8&parseTime=True&loc=Local",
		MySQLConnectionString("root", "", "localhost", 3306, "plasma"))
}
