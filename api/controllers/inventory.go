package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshmart/inventory-backend/api/responses"
	"github.com/freshmart/inventory-backend/api/validators"
	inventorysvc "github.com/freshmart/inventory-backend/internal/inventory"
	pkgerrors "github.com/freshmart/inventory-backend/pkg/errors"
	"github.com/freshmart/inventory-backend/pkg/logger"
)

// GetInventory returns a product's batches in strategy consumption order.
func GetInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := validators.ParsePathInt64(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetView(r.Context(), productID, r.URL.Query().Get("strategy"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// GetStrategies lists the registered consumption strategies.
func GetStrategies(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Strategies(r.Context()))
	}
}
