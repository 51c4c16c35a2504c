package utils

import (
	"context"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"io"
	"os"
	"time"
)

// GLogger routes gorm logs into zerolog.
type GLogger struct {
	zerolog.Logger
	level                     logger.LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

func NewGLogger(zlog zerolog.Logger, ignoreRecordNotFoundError bool) GLogger {
	return GLogger{
		Logger:                    zlog.With().Str("component", "gorm").Logger(),
		level:                     logger.Warn,
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: ignoreRecordNotFoundError,
	}
}

func (g GLogger) LogMode(level logger.LogLevel) logger.Interface {
	g.level = level
	return g
}

func (g GLogger) Info(_ context.Context, s string, i ...interface{}) {
	if g.level >= logger.Info {
		g.Logger.Info().Msgf(s, i...)
	}
}

func (g GLogger) Warn(_ context.Context, s string, i ...interface{}) {
	if g.level >= logger.Warn {
		g.Logger.Warn().Msgf(s, i...)
	}
}

func (g GLogger) Error(_ context.Context, s string, i ...interface{}) {
	if g.level >= logger.Error {
		g.Logger.Error().Msgf(s, i...)
	}
}

func (g GLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	var ev *zerolog.Event
	switch {
	case err != nil && g.level >= logger.Error && (!errors.Is(err, gorm.ErrRecordNotFound) || !g.IgnoreRecordNotFoundError):
		ev = g.Logger.Error().Err(err)
	case g.SlowThreshold != 0 && elapsed > g.SlowThreshold && g.level >= logger.Warn:
		ev = g.Logger.Warn().Str("slow", g.SlowThreshold.String())
	case g.level >= logger.Info:
		ev = g.Logger.Debug()
	default:
		return
	}
	sql, rows := fc()
	ev = ev.Str("time", fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6))
	if rows != -1 {
		ev = ev.Int64("rows", rows)
	}
	ev.Msg(sql)
}

func GetLogLevel(levelString string) zerolog.Level {
	switch levelString {
	default:
		return zerolog.InfoLevel
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "err", "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "off", "disabled":
		return zerolog.Disabled
	}
}

// GormLogLevel maps the zerolog level onto the closest gorm level.
func GormLogLevel(level zerolog.Level) logger.LogLevel {
	switch {
	case level == zerolog.Disabled:
		return logger.Silent
	case level <= zerolog.DebugLevel:
		return logger.Info
	case level <= zerolog.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}

const LogTimeFormat = "2006-01-02 15:04:05.00000"

func InitLogger(level string) zerolog.Logger {
	return InitLoggerTo(os.Stderr, level)
}

func InitLoggerTo(out io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: LogTimeFormat}).Level(GetLogLevel(level))
	return log.Logger
}
