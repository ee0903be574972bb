package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:sms:"

// The key's TTL is the window: a missing key means no open window.
// Returns {allowed, count, pttl_ms}.
var admitScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	redis.call('SET', KEYS[1], 1, 'PX', ARGV[2])
	return {1, 1, 0}
end
current = tonumber(current)
if current < tonumber(ARGV[1]) then
	current = redis.call('INCR', KEYS[1])
	return {1, current, 0}
end
return {0, current, redis.call('PTTL', KEYS[1])}
`)

// RedisLimiter shares windows between API processes through Redis.
type RedisLimiter struct {
	rdb    redis.Scripter
	max    int
	window time.Duration
}

func NewRedis(rdb redis.Scripter, max int, window time.Duration) (*RedisLimiter, error) {
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	if max <= 0 {
		return nil, errors.New("max must be > 0")
	}
	if window < time.Millisecond {
		return nil, errors.New("window must be >= 1ms")
	}

	return &RedisLimiter{rdb: rdb, max: max, window: window}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := admitScript.Run(ctx, l.rdb, []string{redisKeyPrefix + key}, l.max, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("run admit script: %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("admit script: unexpected reply %v", res)
	}

	d := Decision{
		Allowed: res[0] == 1,
		Count:   int(res[1]),
	}
	if !d.Allowed {
		d.RetryAfter = time.Duration(res[2]) * time.Millisecond
	}

	return d, nil
}
