package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "crm:dashboard:5", Key("dashboard", "5"))
	assert.Equal(t, "crm:", Key())
}

func TestStore_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()

	for _, store := range []*Store{nil, NewStore(nil, time.Minute)} {
		assert.False(t, store.Enabled())
		require.NoError(t, store.SetJSON(ctx, "k", map[string]int{"a": 1}))

		var out map[string]int
		hit, err := store.GetJSON(ctx, "k", &out)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.NoError(t, store.Ping(ctx))
	}
}

func TestStore_UnreachableRedisReportsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewStore(client, time.Minute)
	assert.True(t, store.Enabled())

	var out map[string]int
	hit, err := store.GetJSON(context.Background(), "k", &out)
	assert.Error(t, err)
	assert.False(t, hit)
}
