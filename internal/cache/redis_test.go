package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"parish-backend/internal/models"
)

func TestNilRegistryCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()

	for _, c := range []*RegistryCache{nil, NewRegistryCache(nil, time.Minute, zerolog.Nop())} {
		c.Set(ctx, []*models.CertificateGroup{{Key: "k"}})
		c.Invalidate(ctx)
		groups, ok := c.Get(ctx)
		assert.False(t, ok)
		assert.Nil(t, groups)
	}
}

func TestConnectFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := Connect(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
	assert.Nil(t, client)
}
