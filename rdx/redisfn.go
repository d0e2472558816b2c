package rdx

import (
	"os"
	"time"

	"labdesk/globals"
	"labdesk/logs"

	"github.com/redis/go-redis/v9"
)

// Conn is nil when REDIS_ADDR is unset; every helper degrades to a no-op
// then. The cache is an accelerator, never a source of truth.
var Conn *redis.Client

func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logs.Logger.Info("REDIS_ADDR not set; running without cache")
		return
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	if err := Conn.Ping(globals.Ctx).Err(); err != nil {
		logs.Logger.Warnf("redis ping failed: %v (cache disabled)", err)
		Conn = nil
	}
}

func RdxSet(key, value string) error {
	if Conn == nil {
		return nil
	}
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

func RdxGet(key string) (string, error) {
	if Conn == nil {
		return "", redis.Nil
	}
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxDel(key string) error {
	if Conn == nil {
		return nil
	}
	return Conn.Del(globals.Ctx, key).Err()
}

func RdxHset(hash, field, value string) error {
	if Conn == nil {
		return nil
	}
	return Conn.HSet(globals.Ctx, hash, field, value).Err()
}

func RdxHdel(hash, field string) error {
	if Conn == nil {
		return nil
	}
	return Conn.HDel(globals.Ctx, hash, field).Err()
}
