package cache

import (
	"github.com/gomodule/redigo/redis"
)

func Del(conn redis.Conn, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := conn.Do("DEL", redis.Args{}.AddFlat(keys)...)
	return err
}

func HSETALL(conn redis.Conn, key string, fields []interface{}) error {
	_, err := conn.Do("HSET", redis.Args{}.Add(key).AddFlat(fields)...)
	return err
}

func HGETALL(conn redis.Conn, key string) (map[string]string, error) {
	return redis.StringMap(conn.Do("HGETALL", key))
}

func Watch(conn redis.Conn, key string) error {
	_, err := conn.Do("WATCH", key)
	return err
}

func Unwatch(conn redis.Conn) {
	conn.Do("UNWATCH")
}

// Exec runs fields as a single HSET inside MULTI/EXEC. It reports false when
// a watched key changed and the transaction was discarded.
func Exec(conn redis.Conn, key string, fields []interface{}) (bool, error) {
	if err := conn.Send("MULTI"); err != nil {
		return false, err
	}
	if err := conn.Send("HSET", redis.Args{}.Add(key).AddFlat(fields)...); err != nil {
		return false, err
	}
	reply, err := conn.Do("EXEC")
	if err != nil {
		return false, err
	}
	return reply != nil, nil
}
