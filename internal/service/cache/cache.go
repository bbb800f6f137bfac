package cache

import "time"

// BytesCache is a minimal cache API storing raw bytes with TTL. Both the
// HTTP response cache and the social-stats cache speak this interface so
// deployments can swap the in-process cache for Redis via config.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

var (
	_ BytesCache = (*TTLCache)(nil)
	_ BytesCache = (*RedisCache)(nil)
)
