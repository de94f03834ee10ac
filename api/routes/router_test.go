package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/freshmart/inventory-backend/api/controllers"
	inventorysvc "github.com/freshmart/inventory-backend/internal/inventory"
	ordersvc "github.com/freshmart/inventory-backend/internal/orders"
	"github.com/freshmart/inventory-backend/pkg/config"
	"github.com/freshmart/inventory-backend/pkg/enums"
	"github.com/freshmart/inventory-backend/pkg/logger"
	"github.com/freshmart/inventory-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubInventoryService struct{}

func (stubInventoryService) GetView(ctx context.Context, productID int64, strategyName string) (*inventorysvc.ViewDTO, error) {
	return &inventorysvc.ViewDTO{
		ProductID:     productID,
		ProductName:   "Bluetooth Speaker",
		Strategy:      enums.StrategyFIFO,
		TotalQuantity: 112,
		Batches: []inventorysvc.BatchDTO{
			{BatchID: 9, Quantity: 29, ExpiryDate: "2026-05-31"},
			{BatchID: 10, Quantity: 83, ExpiryDate: "2026-11-15"},
		},
	}, nil
}

func (stubInventoryService) Strategies(context.Context) inventorysvc.StrategiesDTO {
	return inventorysvc.StrategiesDTO{
		Available: []enums.Strategy{enums.StrategyFIFO, enums.StrategyLIFO},
		Default:   enums.StrategyFIFO,
	}
}

type stubOrderService struct {
	reserves int
}

func (s *stubOrderService) Reserve(ctx context.Context, input ordersvc.ReserveInput) (*ordersvc.OrderDTO, error) {
	s.reserves++
	return &ordersvc.OrderDTO{
		OrderID:          11,
		ProductID:        input.ProductID,
		ProductName:      "Bluetooth Speaker",
		Quantity:         input.Quantity,
		Status:           enums.OrderStatusPlaced,
		ReservedBatchIDs: []int64{9},
		OrderDate:        time.Now().UTC(),
	}, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID int64) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{OrderID: orderID, Status: enums.OrderStatusPlaced}, nil
}

func (s *stubOrderService) ListOrders(ctx context.Context, params pagination.Params) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

type memoryIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{records: make(map[string]string)}
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.records[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (s *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = value.(string)
	return true, nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "test:idempotency:" + scope + ":" + id
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           testConfig(),
		Logger:           logg,
		InventoryService: stubInventoryService{},
		OrderService:     &stubOrderService{},
		IdempotencyStore: newMemoryIdempotencyStore(),
		Pingers:          map[string]controllers.Pinger{"database": stubPinger{}},
		Metrics:          prometheus.NewRegistry(),
	})
}

func TestHealthEndpointsAreMounted(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 on %s got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpointServesWhenGathererPresent(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on /metrics got %d", resp.Code)
	}
}

func TestInventoryRoutesAreMounted(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/1002?strategy=FIFO", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"product_id":1002`) {
		t.Fatalf("expected product in body, got %s", resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCreateOrderRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(t)

	body := `{"product_id":1002,"quantity":3,"strategy":"FIFO"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "order-1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with key got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDuplicateIdempotencyKeyReplaysResponse(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	svc := &stubOrderService{}
	router := NewRouter(Deps{
		Config:           testConfig(),
		Logger:           logg,
		InventoryService: stubInventoryService{},
		OrderService:     svc,
		IdempotencyStore: newMemoryIdempotencyStore(),
		Pingers:          map[string]controllers.Pinger{},
	})

	body := `{"product_id":1002,"quantity":3}`
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "order-replay")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	second := send()
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected 201 twice, got %d then %d", first.Code, second.Code)
	}
	if svc.reserves != 1 {
		t.Fatalf("expected a single reservation, got %d", svc.reserves)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay should return the stored body")
	}
}

func TestOrderReadRoutesAreMounted(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=10", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on list got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/11", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on detail got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"order_id":11`) {
		t.Fatalf("expected order in body, got %s", resp.Body.String())
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/warehouse", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
