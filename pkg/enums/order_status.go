package enums

// OrderStatus captures the lifecycle state of an order within this service.
// Downstream fulfillment states (delivered, cancelled) live outside this core.
type OrderStatus string

const (
	// OrderStatusPlaced means the allocation plan was committed to the ledger.
	OrderStatusPlaced OrderStatus = "PLACED"
	// OrderStatusFailed is reserved for reconciliation tooling; the service
	// itself never persists a failed order.
	OrderStatusFailed OrderStatus = "FAILED"
)

// IsValid reports whether the value is a declared order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusFailed:
		return true
	}
	return false
}
