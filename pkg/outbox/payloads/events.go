package payloads

import (
	"time"

	"github.com/freshmart/inventory-backend/pkg/enums"
)

// OrderPlacedEvent is emitted when a reservation commits and an order is created.
type OrderPlacedEvent struct {
	OrderID          int64             `json:"order_id"`
	ProductID        int64             `json:"product_id"`
	ProductName      string            `json:"product_name"`
	Quantity         int               `json:"quantity"`
	Strategy         enums.Strategy    `json:"strategy"`
	Status           enums.OrderStatus `json:"status"`
	ReservedBatchIDs []int64           `json:"reserved_batch_ids"`
	OrderDate        time.Time         `json:"order_date"`
}
