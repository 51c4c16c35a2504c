package ctrprep

import (
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/utils"
	"github.com/redis/go-redis/v9"
	"time"
)

type redisParams struct {
	client   redis.UniversalClient
	host     string
	port     int
	password string
	db       int
	timeout  time.Duration
}

func defaultRedisParams() redisParams {
	return redisParams{
		host: domain.DefaultRedisHost,
		port: domain.DefaultRedisPort,
	}
}

func (p redisParams) open() redis.UniversalClient {
	if p.client != nil {
		return p.client
	}
	opts := &redis.Options{
		Addr:     utils.RedisAddr(p.host, p.port),
		Password: p.password,
		DB:       p.db,
	}
	if p.timeout > 0 {
		opts.DialTimeout = p.timeout
	}
	return redis.NewClient(opts)
}
