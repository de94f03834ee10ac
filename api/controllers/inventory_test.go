package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	inventorysvc "github.com/freshmart/inventory-backend/internal/inventory"
	"github.com/freshmart/inventory-backend/pkg/enums"
	pkgerrors "github.com/freshmart/inventory-backend/pkg/errors"
	"github.com/freshmart/inventory-backend/pkg/logger"
	"github.com/freshmart/inventory-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubInventoryService struct {
	view    *inventorysvc.ViewDTO
	viewErr error

	gotProductID int64
	gotStrategy  string
}

func (s *stubInventoryService) GetView(ctx context.Context, productID int64, strategyName string) (*inventorysvc.ViewDTO, error) {
	s.gotProductID = productID
	s.gotStrategy = strategyName
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	return s.view, nil
}

func (s *stubInventoryService) Strategies(context.Context) inventorysvc.StrategiesDTO {
	return inventorysvc.StrategiesDTO{
		Available: []enums.Strategy{enums.StrategyFIFO, enums.StrategyLIFO},
		Default:   enums.StrategyFIFO,
	}
}

func inventoryRequest(t *testing.T, svc inventorysvc.Service, productID, strategy string) *httptest.ResponseRecorder {
	t.Helper()

	target := "/api/v1/inventory/" + productID
	if strategy != "" {
		target += "?strategy=" + strategy
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", productID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	GetInventory(svc, testLogger()).ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error
}

func TestGetInventory(t *testing.T) {
	t.Run("returns the strategy view", func(t *testing.T) {
		svc := &stubInventoryService{view: &inventorysvc.ViewDTO{
			ProductID:     1002,
			ProductName:   "Bluetooth Speaker",
			Strategy:      enums.StrategyFIFO,
			TotalQuantity: 112,
			Batches: []inventorysvc.BatchDTO{
				{BatchID: 9, Quantity: 29, ExpiryDate: "2026-05-31"},
				{BatchID: 10, Quantity: 83, ExpiryDate: "2026-11-15"},
			},
		}}

		rec := inventoryRequest(t, svc, "1002", "FIFO")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.gotProductID != 1002 || svc.gotStrategy != "FIFO" {
			t.Fatalf("service received (%d, %q)", svc.gotProductID, svc.gotStrategy)
		}

		var envelope struct {
			Data inventorysvc.ViewDTO `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if envelope.Data.TotalQuantity != 112 || len(envelope.Data.Batches) != 2 {
			t.Fatalf("unexpected view: %+v", envelope.Data)
		}
		if envelope.Data.Batches[0].BatchID != 9 {
			t.Fatalf("expected batch 9 first, got %d", envelope.Data.Batches[0].BatchID)
		}
	})

	t.Run("rejects a non numeric product id", func(t *testing.T) {
		svc := &stubInventoryService{}
		rec := inventoryRequest(t, svc, "speaker", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if apiErr := decodeError(t, rec); apiErr.Code != string(pkgerrors.CodeValidation) {
			t.Fatalf("expected VALIDATION_ERROR, got %s", apiErr.Code)
		}
		if svc.gotProductID != 0 {
			t.Fatal("service should not be called for an invalid path param")
		}
	})

	t.Run("maps unknown strategy to 400", func(t *testing.T) {
		svc := &stubInventoryService{viewErr: pkgerrors.New(pkgerrors.CodeUnknownStrategy, "unknown strategy CHEAPEST_FIRST")}
		rec := inventoryRequest(t, svc, "1002", "CHEAPEST_FIRST")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if apiErr := decodeError(t, rec); apiErr.Code != string(pkgerrors.CodeUnknownStrategy) {
			t.Fatalf("expected UNKNOWN_STRATEGY, got %s", apiErr.Code)
		}
	})

	t.Run("maps missing product to 404", func(t *testing.T) {
		svc := &stubInventoryService{viewErr: pkgerrors.New(pkgerrors.CodeNotFound, "no batches for product 9999")}
		rec := inventoryRequest(t, svc, "9999", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("nil service answers 500", func(t *testing.T) {
		rec := inventoryRequest(t, nil, "1002", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestGetStrategies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	rec := httptest.NewRecorder()
	GetStrategies(&stubInventoryService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data inventorysvc.StrategiesDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data.Default != enums.StrategyFIFO {
		t.Fatalf("expected FIFO default, got %s", envelope.Data.Default)
	}
	if len(envelope.Data.Available) != 2 {
		t.Fatalf("expected two strategies, got %v", envelope.Data.Available)
	}
}
