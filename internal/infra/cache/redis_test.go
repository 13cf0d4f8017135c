package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

func setup(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, time.Minute), mr
}

func TestResponseCache_RoundTrip(t *testing.T) {
	c, mr := setup(t)
	ctx := context.Background()
	key := ai.NewAnalysisRequest("p", nil, ai.ActionNone).Fingerprint("openai")

	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	want := &ai.AIResponse{Response: "## X\n\nY", Summary: &ai.Summary{Title: "X", Metrics: []ai.SummaryMetric{{Title: "m", Value: "1", ChangeType: ai.ChangeNeutral, Icon: "target"}}, Insights: []string{}}}
	require.NoError(t, c.Set(ctx, key, want))

	got, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	_, hit, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestResponseCache_CorruptEntry(t *testing.T) {
	c, mr := setup(t)
	require.NoError(t, mr.Set(keyPrefix+"k", "not json"))

	_, hit, err := c.Get(context.Background(), "k")

	assert.Error(t, err)
	assert.False(t, hit)
}

func TestPing(t *testing.T) {
	c, mr := setup(t)
	require.NoError(t, c.Ping(context.Background()))
	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
