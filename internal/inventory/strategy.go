package inventory

import (
	"context"

	"github.com/freshmart/inventory-backend/internal/allocation"
	"github.com/freshmart/inventory-backend/pkg/db/models"
	"github.com/freshmart/inventory-backend/pkg/enums"
)

// Strategy decides the order batches are consumed in and applies the
// planned deductions. View returns batches in consumption order; the
// ordering itself is a pure read with no side effects.
type Strategy interface {
	Type() enums.Strategy
	View(ctx context.Context, repo Repository, productID int64) ([]models.Batch, error)
	Apply(ctx context.Context, repo Repository, plan allocation.Plan) error
}

// BatchViews converts ordered batches into the allocator's read model.
func BatchViews(batches []models.Batch) []allocation.BatchView {
	views := make([]allocation.BatchView, 0, len(batches))
	for _, batch := range batches {
		views = append(views, allocation.BatchView{
			BatchID:  batch.BatchID,
			Quantity: batch.Quantity,
		})
	}
	return views
}

type fifoStrategy struct{}

// NewFIFO consumes batches nearest to expiry first.
func NewFIFO() Strategy {
	return fifoStrategy{}
}

func (fifoStrategy) Type() enums.Strategy {
	return enums.StrategyFIFO
}

func (fifoStrategy) View(ctx context.Context, repo Repository, productID int64) ([]models.Batch, error) {
	return repo.ListByProduct(ctx, productID, ExpiryAsc)
}

func (fifoStrategy) Apply(ctx context.Context, repo Repository, plan allocation.Plan) error {
	return applyPlan(ctx, repo, plan)
}

type lifoStrategy struct{}

// NewLIFO consumes batches furthest from expiry first.
func NewLIFO() Strategy {
	return lifoStrategy{}
}

func (lifoStrategy) Type() enums.Strategy {
	return enums.StrategyLIFO
}

func (lifoStrategy) View(ctx context.Context, repo Repository, productID int64) ([]models.Batch, error) {
	return repo.ListByProduct(ctx, productID, ExpiryDesc)
}

func (lifoStrategy) Apply(ctx context.Context, repo Repository, plan allocation.Plan) error {
	return applyPlan(ctx, repo, plan)
}

func applyPlan(ctx context.Context, repo Repository, plan allocation.Plan) error {
	for _, line := range plan.Lines {
		if err := repo.DeductQuantity(ctx, line.BatchID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}
