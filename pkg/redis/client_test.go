package redis

import (
	"context"
	"testing"
	"time"

	"github.com/freshmart/inventory-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	setNXResult bool
	getValue    string
	getErr      error
	deleted     []string
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if f.getErr != nil {
		cmd.SetErr(f.getErr)
		return cmd
	}
	cmd.SetVal(f.getValue)
	return cmd
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(f.setNXResult)
	return cmd
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.deleted = append(f.deleted, keys...)
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://localhost:6379/2",
		PoolSize: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("expected addr localhost:6379, got %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2, got %d", opts.DB)
	}
	if opts.PoolSize != 15 {
		t.Fatalf("expected pool size 15, got %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigAddressFallback(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:  "redis.internal:6380",
		Password: "secret",
		DB:       1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "redis.internal:6380" {
		t.Fatalf("expected configured addr, got %s", opts.Addr)
	}
	if opts.Password != "secret" || opts.DB != 1 {
		t.Fatalf("credentials not propagated: %+v", opts)
	}
}

func TestClientOperations(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{setNXResult: true, getValue: "42"}
	client := &Client{store: store}

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if err := client.Set(ctx, "k", "v", time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "42" {
		t.Fatalf("expected 42, got %s", got)
	}
	ok, err := client.SetNX(ctx, "k", "v", time.Second)
	if err != nil || !ok {
		t.Fatalf("expected setnx true, got %v %v", ok, err)
	}
	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "k" {
		t.Fatalf("expected k deleted, got %v", store.deleted)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("orders", "abc"); got != "fm:idempotency:orders:abc" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.LockKey("product", "1002"); got != "fm:lock:product:1002" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := client.LockKey(" product ", ""); got != "fm:lock:product" {
		t.Fatalf("expected blank parts skipped, got %s", got)
	}
}

func TestNilClientGuards(t *testing.T) {
	var client *Client
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from nil client")
	}
}
