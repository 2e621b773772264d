package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mercadoperto/mercadoperto-backend/pkg/config"
)

type stubStore struct {
	counts  map[string]int64
	expired map[string]time.Duration
}

func newStubStore() *stubStore {
	return &stubStore{counts: map[string]int64{}, expired: map[string]time.Duration{}}
}

func (s *stubStore) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (s *stubStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	s.counts[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(s.counts[key])
	return cmd
}

func (s *stubStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	s.expired[key] = ttl
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func TestFixedWindowAllow(t *testing.T) {
	store := newStubStore()
	client := &Client{store: store}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, count, err := client.FixedWindowAllow(ctx, "ip:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if count != int64(i) {
			t.Fatalf("expected count %d, got %d", i, count)
		}
	}

	allowed, _, err := client.FixedWindowAllow(ctx, "ip:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("fourth request should be throttled")
	}

	key := client.RateLimitKey("ip:1.2.3.4")
	if store.expired[key] != time.Minute {
		t.Fatalf("expected TTL set on first increment, got %v", store.expired[key])
	}
}

func TestRateLimitKeyNamespacing(t *testing.T) {
	client := &Client{}
	if got := client.RateLimitKey("feed"); got != "mp:rate_limit:feed" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(configRedis("")); err == nil {
		t.Fatal("expected error without url or address")
	}
	opts, err := optionsFromConfig(configRedis("redis://localhost:6379/2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2 from url, got %d", opts.DB)
	}
}

func configRedis(url string) (cfg config.RedisConfig) {
	cfg.URL = url
	return cfg
}
