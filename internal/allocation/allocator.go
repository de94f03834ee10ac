package allocation

import (
	"fmt"

	pkgerrors "github.com/freshmart/inventory-backend/pkg/errors"
)

// BatchView is a read-only snapshot of one batch as seen at decision time.
// The slice order is the consumption order chosen by the strategy.
type BatchView struct {
	BatchID  int64
	Quantity int
}

// Line is one planned deduction against a single batch.
type Line struct {
	BatchID  int64
	Quantity int
}

// Plan is the full set of deductions for a reservation. Line quantities
// always sum to exactly the requested quantity.
type Plan struct {
	Lines []Line
}

// Total returns the summed quantity across all plan lines.
func (p Plan) Total() int {
	total := 0
	for _, line := range p.Lines {
		total += line.Quantity
	}
	return total
}

// BatchIDs returns the batch ids in plan order.
func (p Plan) BatchIDs() []int64 {
	ids := make([]int64, 0, len(p.Lines))
	for _, line := range p.Lines {
		ids = append(ids, line.BatchID)
	}
	return ids
}

// Allocate walks the batches in the order given and greedily takes
// min(remaining, available) from each until the request is covered.
// It never plans a partial fulfillment: when the snapshot cannot cover
// the request the whole allocation fails before any line is emitted.
func Allocate(batches []BatchView, quantity int) (Plan, error) {
	if quantity <= 0 {
		return Plan{}, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("quantity must be positive, got %d", quantity),
		)
	}

	available := 0
	for _, batch := range batches {
		if batch.Quantity > 0 {
			available += batch.Quantity
		}
	}
	if available < quantity {
		return Plan{}, pkgerrors.New(
			pkgerrors.CodeInsufficient,
			fmt.Sprintf("requested %d but only %d available", quantity, available),
		).WithDetails(map[string]any{"requested": quantity, "available": available})
	}

	plan := Plan{Lines: make([]Line, 0, 2)}
	remaining := quantity
	for _, batch := range batches {
		if remaining == 0 {
			break
		}
		if batch.Quantity <= 0 {
			continue
		}
		take := remaining
		if batch.Quantity < take {
			take = batch.Quantity
		}
		plan.Lines = append(plan.Lines, Line{BatchID: batch.BatchID, Quantity: take})
		remaining -= take
	}

	return plan, nil
}
