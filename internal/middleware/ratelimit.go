package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-seat-booking/internal/config"
)

// tokenBucketScript implements a token bucket atomically in Redis.  State
// is a hash of {tokens, last_refill_ms} per client key; the script refills
// based on elapsed intervals, consumes one token when available and returns
// {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_s = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last = tonumber(state[2])
	if tokens == nil or last == nil then
		tokens = capacity
		last = now_ms
	end

	local elapsed = now_ms - last
	if elapsed > 0 and interval_ms > 0 then
		local steps = math.floor(elapsed / interval_ms)
		if steps > 0 then
			tokens = math.min(capacity, tokens + steps * refill)
			last = last + steps * interval_ms
		end
	end

	local allowed = 0
	local retry_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_ms = interval_ms - (now_ms - last)
		if retry_ms < 0 then retry_ms = 0 end
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last)
	redis.call('EXPIRE', key, ttl_s)
	return { allowed, tokens, retry_ms }
`)

// RateLimit returns token-bucket middleware keyed per client and route.
// Authenticated requests are limited per user; anonymous requests per IP.
// When Redis is unavailable requests pass through unlimited rather than
// failing closed.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Slice()
			if err != nil || len(vals) != 3 {
				return next(c)
			}

			allowed, _ := vals[0].(int64)
			remaining, _ := vals[1].(int64)
			retryMs, _ := vals[2].(int64)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if allowed != 1 {
				retry := (retryMs + 999) / 1000 // round up to whole seconds
				if retry < 1 {
					retry = 1
				}
				h.Set("Retry-After", strconv.FormatInt(retry, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}

// rateKey identifies a client: the user ID set by JWTAuth when present,
// otherwise the caller's IP, combined with the route template.
func rateKey(prefix string, c echo.Context) string {
	client := c.RealIP()
	if uid, ok := c.Get("user_id").(uint64); ok {
		client = "u" + strconv.FormatUint(uid, 10)
	}
	return fmt.Sprintf("%s:%s:%s", prefix, client, c.Path())
}
