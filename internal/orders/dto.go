package orders

import (
	"time"

	"github.com/freshmart/inventory-backend/pkg/db/models"
	"github.com/freshmart/inventory-backend/pkg/enums"
)

// ReserveInput captures a reservation request.
type ReserveInput struct {
	ProductID int64
	Quantity  int
	Strategy  string
}

// OrderDTO exposes a persisted order to API consumers.
type OrderDTO struct {
	OrderID          int64             `json:"order_id"`
	ProductID        int64             `json:"product_id"`
	ProductName      string            `json:"product_name"`
	Quantity         int               `json:"quantity"`
	Status           enums.OrderStatus `json:"status"`
	ReservedBatchIDs []int64           `json:"reserved_batch_ids"`
	OrderDate        time.Time         `json:"order_date"`
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toOrderDTO(order models.Order) OrderDTO {
	return OrderDTO{
		OrderID:          order.OrderID,
		ProductID:        order.ProductID,
		ProductName:      order.ProductName,
		Quantity:         order.Quantity,
		Status:           order.Status,
		ReservedBatchIDs: []int64(order.ReservedBatchIDs),
		OrderDate:        order.OrderDate,
	}
}
