package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	values map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "fm:idempotency:" + scope + ":" + id
}

func newIdempotentHandler(store *fakeIdempotencyStore, calls *int32) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"order_id":11}}`))
	})
	return Idempotency(store, nil)(inner)
}

func postOrders(handler http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyRequiresKeyOnReservations(t *testing.T) {
	var calls int32
	handler := newIdempotentHandler(newFakeIdempotencyStore(), &calls)

	rec := postOrders(handler, "", `{"product_id":1002,"quantity":3}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run without key, ran %d times", calls)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	var calls int32
	handler := newIdempotentHandler(newFakeIdempotencyStore(), &calls)
	body := `{"product_id":1002,"quantity":3}`

	first := postOrders(handler, "key-1", body)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	second := postOrders(handler, "key-1", body)
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler must run once, ran %d times", calls)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	var calls int32
	handler := newIdempotentHandler(newFakeIdempotencyStore(), &calls)

	if rec := postOrders(handler, "key-1", `{"product_id":1002,"quantity":3}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	rec := postOrders(handler, "key-1", `{"product_id":1002,"quantity":5}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "IDEMPOTENCY_KEY_REUSED") {
		t.Fatalf("expected IDEMPOTENCY_KEY_REUSED, got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler must run once, ran %d times", calls)
	}
}

func TestIdempotencyIgnoresUnmatchedRoutes(t *testing.T) {
	var calls int32
	store := newFakeIdempotencyStore()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	})
	handler := Idempotency(store, nil)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/1002", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || calls != 1 {
		t.Fatalf("expected pass-through, got code=%d calls=%d", rec.Code, calls)
	}
	if len(store.values) != 0 {
		t.Fatalf("nothing should be stored for unmatched routes, got %v", store.values)
	}
}
