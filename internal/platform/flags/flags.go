// Package flags exposes runtime feature flags. Flags live in redis so they
// can be flipped without a deploy; when redis is absent or unreachable the
// static default applies.
package flags

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Flag names the known feature flags.
type Flag string

// SuppressArrivalEvents disables PersonArrived and PersonDeparted domain
// event emission while downstream consumers catch up. Other event types are
// unaffected.
const SuppressArrivalEvents Flag = "suppress-arrival-events"

const keyPrefix = "placements:flags:"

// Source answers whether a flag is enabled.
type Source interface {
	Enabled(ctx context.Context, flag Flag) bool
}

// Static is a fixed in-memory flag source, used in tests and as the
// fallback when redis is not configured.
type Static map[Flag]bool

func (s Static) Enabled(_ context.Context, flag Flag) bool {
	return s[flag]
}

// RedisSource reads flags from redis, falling back to per-flag defaults on
// missing keys or transient errors.
type RedisSource struct {
	client   redis.Cmdable
	defaults Static
	logger   *slog.Logger
}

func NewRedisSource(client redis.Cmdable, defaults Static, logger *slog.Logger) *RedisSource {
	if defaults == nil {
		defaults = Static{}
	}
	return &RedisSource{client: client, defaults: defaults, logger: logger}
}

func (s *RedisSource) Enabled(ctx context.Context, flag Flag) bool {
	val, err := s.client.Get(ctx, keyPrefix+string(flag)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.WarnContext(ctx, "flag read failed, using default",
				"flag", string(flag),
				"error", err,
			)
		}
		return s.defaults[flag]
	}
	return val == "true" || val == "1"
}
