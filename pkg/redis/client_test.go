package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/startupidea/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return NewFromRaw(raw), mr
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	key := client.SessionKey("default")
	require.NoError(t, client.Set(ctx, key, "payload", time.Minute))

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "payload", got)
	require.Equal(t, time.Minute, mr.TTL(key))

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPing(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	require.Error(t, client.Ping(context.Background()))
}

func TestNewConnectsWithURL(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr() + "/0", PoolSize: 2}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()))
}

func TestSessionKeyNamespacing(t *testing.T) {
	client := &Client{}
	if got := client.SessionKey("default"); got != "ideaboard:session:default" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.SessionKey(" "); got != "ideaboard:session" {
		t.Fatalf("blank parts should be skipped, got %s", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	var client *Client
	if err := client.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatalf("expected error from nil client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil client should be a no-op, got %v", err)
	}
}

func TestOptionsFromConfigRequiresAddress(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, 7, opts.PoolSize)
	require.Equal(t, time.Second, opts.DialTimeout)
}
