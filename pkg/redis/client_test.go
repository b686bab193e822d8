package redis

import (
	"testing"

	"github.com/partspoint/checkout-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)
}

func TestOptionsFromConfigURLWins(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://:secret@cache.local:6380/2",
		Address:  "ignored:6379",
		PoolSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "cache.local:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 10, opts.PoolSize)
}

func TestKeyBuilders(t *testing.T) {
	t.Parallel()

	c := &Client{}
	assert.Equal(t, "pp:checkout_session:abc", c.SessionKey("abc"))
	assert.Equal(t, "pp:idempotency:scope:key", c.IdempotencyKey("scope", "key"))
}
