package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"parish-backend/internal/models"
)

const RegistryKey = "registry:certificates"

// Connect opens a Redis client and pings it. On failure the client is closed
// and nil is returned with the error; callers run without a cache.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// RegistryCache stores the certificate registry projection. A nil cache or a
// nil client degrades to always-miss.
type RegistryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRegistryCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RegistryCache {
	return &RegistryCache{client: client, ttl: ttl, log: log}
}

func (c *RegistryCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *RegistryCache) Get(ctx context.Context) ([]*models.CertificateGroup, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, RegistryKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("Registry cache read failed")
		}
		return nil, false
	}
	var groups []*models.CertificateGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		c.log.Warn().Err(err).Msg("Discarding unreadable registry cache entry")
		return nil, false
	}
	return groups, true
}

func (c *RegistryCache) Set(ctx context.Context, groups []*models.CertificateGroup) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(groups)
	if err != nil {
		c.log.Warn().Err(err).Msg("Registry cache encode failed")
		return
	}
	if err := c.client.Set(ctx, RegistryKey, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Registry cache write failed")
	}
}

// Invalidate drops the cached projection after any write that can change it.
func (c *RegistryCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, RegistryKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Registry cache invalidation failed")
	}
}
