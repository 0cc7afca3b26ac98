package cache

import (
	"context"
	"testing"
	"time"

	"profile-hub/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestMemory_RoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	var out payload
	hit, err := m.GetJSON(ctx, "profile:1", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, m.SetJSON(ctx, "profile:1", payload{Name: "a", Items: []string{"x"}}, 0))
	hit, err = m.GetJSON(ctx, "profile:1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "a", Items: []string{"x"}}, out)

	require.NoError(t, m.Delete(ctx, "profile:1"))
	hit, err = m.GetJSON(ctx, "profile:1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_CounterStartsAtZeroAndOutlivesTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10 * time.Millisecond)

	n, err := m.Counter(ctx, "gen")
	require.NoError(t, err)
	assert.Zero(t, n)

	for want := int64(1); want <= 3; want++ {
		n, err = m.Incr(ctx, "gen")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	time.Sleep(30 * time.Millisecond)
	n, err = m.Counter(ctx, "gen")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestMemory_Expires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	require.NoError(t, m.SetJSON(ctx, "k", payload{Name: "a"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var out payload
	hit, err := m.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNew_FallsBackWhenRedisIsDown(t *testing.T) {
	c := New(context.Background(), config.CacheConfig{
		RedisHost:  "127.0.0.1",
		RedisPort:  "1",
		ProfileTTL: time.Minute,
	}, zerolog.Nop())

	_, isMemory := c.(*Memory)
	assert.True(t, isMemory)
	assert.NoError(t, c.Ping(context.Background()))
}
