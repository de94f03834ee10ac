package inventory

import (
	"github.com/freshmart/inventory-backend/pkg/db/models"
	"github.com/freshmart/inventory-backend/pkg/enums"
)

const expiryDateLayout = "2006-01-02"

// BatchDTO is one batch row as returned to API consumers.
type BatchDTO struct {
	BatchID    int64  `json:"batch_id"`
	Quantity   int    `json:"quantity"`
	ExpiryDate string `json:"expiry_date"`
}

// ViewDTO is the per-product inventory view in consumption order.
type ViewDTO struct {
	ProductID     int64          `json:"product_id"`
	ProductName   string         `json:"product_name"`
	Strategy      enums.Strategy `json:"strategy"`
	TotalQuantity int            `json:"total_quantity"`
	Batches       []BatchDTO     `json:"batches"`
}

// StrategiesDTO lists the registered strategies and the default.
type StrategiesDTO struct {
	Available []enums.Strategy `json:"available"`
	Default   enums.Strategy   `json:"default"`
}

func toViewDTO(productID int64, strategy enums.Strategy, batches []models.Batch) ViewDTO {
	view := ViewDTO{
		ProductID: productID,
		Strategy:  strategy,
		Batches:   make([]BatchDTO, 0, len(batches)),
	}
	for _, batch := range batches {
		view.ProductName = batch.ProductName
		view.TotalQuantity += batch.Quantity
		view.Batches = append(view.Batches, BatchDTO{
			BatchID:    batch.BatchID,
			Quantity:   batch.Quantity,
			ExpiryDate: batch.ExpiryDate.Format(expiryDateLayout),
		})
	}
	return view
}
