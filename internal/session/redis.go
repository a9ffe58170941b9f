package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mmynk/shopfront/internal/models"
)

var _ Registry = (*Redis)(nil)

// keySession is the hash holding one session: session:{id}
const keySession = "session:%s"

// validateScript performs the whole validate step atomically on the server.
//
// KEYS[1] session hash. ARGV: now (ms), timeout (ms), window (ms), max requests.
// Returns 0 ok, 1 not found, 2 expired, 3 rate limited.
var validateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 1
end
local now = tonumber(ARGV[1])
local timeout = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local max = tonumber(ARGV[4])
local last = tonumber(redis.call("HGET", KEYS[1], "last_seen"))
if now - last > timeout then
  redis.call("DEL", KEYS[1])
  return 2
end
local wstart = tonumber(redis.call("HGET", KEYS[1], "window_start"))
local count = tonumber(redis.call("HGET", KEYS[1], "request_count"))
if now - wstart >= window then
  wstart = now
  count = 0
end
if count >= max then
  redis.call("HSET", KEYS[1], "window_start", wstart, "request_count", count)
  return 3
end
redis.call("HSET", KEYS[1], "window_start", wstart, "request_count", count + 1, "last_seen", now)
redis.call("PEXPIRE", KEYS[1], timeout)
return 0
`)

// Redis is a Registry backed by one Redis hash per session.
// Keys carry a TTL equal to the idle timeout, so Redis also evicts abandoned
// sessions on its own.
type Redis struct {
	rdb    *redis.Client
	prefix string
	limits Limits
	now    func() time.Time
}

// NewRedis creates a registry on an existing client. prefix namespaces the keys.
func NewRedis(rdb *redis.Client, prefix string, limits Limits) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, limits: limits.withDefaults(), now: time.Now}
}

// NewRedisClient dials addr with the timeouts used by the session backend.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func (r *Redis) key(id string) string {
	return r.prefix + fmt.Sprintf(keySession, id)
}

// Open creates or resets a session.
func (r *Redis) Open(ctx context.Context, id string) (models.Session, error) {
	if id == "" {
		id = uuid.New().String()
	}
	now := r.now()
	ms := now.UnixMilli()
	key := r.key(id)

	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key,
			"created_at", ms,
			"last_seen", ms,
			"window_start", ms,
			"request_count", 0,
		)
		p.PExpire(ctx, key, r.limits.Timeout)
		return nil
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("open session: %w", err)
	}

	return models.Session{ID: id, CreatedAt: now, LastSeen: now, WindowStart: now}, nil
}

// Validate runs the validate script.
func (r *Redis) Validate(ctx context.Context, id string) error {
	code, err := validateScript.Run(ctx, r.rdb, []string{r.key(id)},
		r.now().UnixMilli(),
		r.limits.Timeout.Milliseconds(),
		r.limits.Window.Milliseconds(),
		r.limits.MaxRequests,
	).Int()
	if err != nil {
		return fmt.Errorf("validate session: %w", err)
	}

	switch code {
	case 0:
		return nil
	case 1:
		return ErrNotFound
	case 2:
		return ErrExpired
	case 3:
		return ErrRateLimited
	default:
		return fmt.Errorf("validate session: unexpected result %d", code)
	}
}

// Close deletes the session.
func (r *Redis) Close(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Len counts session keys under the prefix.
func (r *Redis) Len(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	pattern := r.prefix + fmt.Sprintf(keySession, "*")
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return 0, fmt.Errorf("count sessions: %w", err)
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return errors.Join(errors.New("redis unavailable"), err)
	}
	return nil
}
