package cache

import (
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
)

func dial(url string) (redis.Conn, error) {
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		return redis.DialURL(url)
	}
	return redis.Dial("tcp", url)
}

func CreateRedisPool(url string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		Dial:        func() (redis.Conn, error) { return dial(url) },
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}
