package enums

// OutboxEventType enumerates events emitted through the transactional outbox.
type OutboxEventType string

const (
	OutboxEventOrderPlaced OutboxEventType = "order.placed"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateOrder OutboxAggregateType = "order"
)
