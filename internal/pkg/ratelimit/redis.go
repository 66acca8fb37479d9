package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter shared by every server instance.
type Redis struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedis(rdb redis.Scripter, limit int, window time.Duration, prefix string) *Redis {
	limit, window = normalize(limit, window)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "rl"
	}
	return &Redis{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	count, err := r.incr(ctx, r.prefix+":"+key)
	if err != nil {
		return false, err
	}
	return count <= int64(r.limit), nil
}

func (r *Redis) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, r.window.Milliseconds()).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit script failed: %w", err)
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse rate limit counter: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}
