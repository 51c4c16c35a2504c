package utils

import (
	"fmt"
	"github.com/go-errors/errors"
	"golang.org/x/exp/constraints"
	"net"
	"strconv"
	"strings"
)

// Diff returns |a - b| without wrapping on unsigned types.
func Diff[T constraints.Integer](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

func RedisAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func MySQLConnectionString(user, password, host string, port int, dbName string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8&parseTime=True&loc=Local", user, password, host, port, dbName)
}

// ParseCounter parses a counter value as stored in Redis.
func ParseCounter(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.WrapPrefix(err, fmt.Sprintf("parse counter %q", s), 0)
	}
	return v, nil
}
