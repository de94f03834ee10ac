package inventory

import (
	"context"
	"fmt"

	"github.com/freshmart/inventory-backend/pkg/enums"
	pkgerrors "github.com/freshmart/inventory-backend/pkg/errors"
)

// Service exposes read operations over the batch ledger.
type Service interface {
	GetView(ctx context.Context, productID int64, strategyName string) (*ViewDTO, error)
	Strategies(ctx context.Context) StrategiesDTO
}

type service struct {
	repo     Repository
	registry *Registry
}

// NewService wires an inventory service with the provided dependencies.
func NewService(repo Repository, registry *Registry) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if registry == nil {
		return nil, fmt.Errorf("strategy registry required")
	}
	return &service{repo: repo, registry: registry}, nil
}

// GetView returns the product's batches in the order the chosen strategy
// would consume them. Reading never mutates the ledger.
func (s *service) GetView(ctx context.Context, productID int64, strategyName string) (*ViewDTO, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product id must be positive, got %d", productID))
	}

	strategy, err := s.registry.Resolve(strategyName)
	if err != nil {
		return nil, err
	}

	batches, err := strategy.View(ctx, s.repo, productID)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no batches for product %d", productID))
	}

	view := toViewDTO(productID, strategy.Type(), batches)
	return &view, nil
}

func (s *service) Strategies(context.Context) StrategiesDTO {
	return StrategiesDTO{
		Available: s.registry.Available(),
		Default:   enums.DefaultStrategy(),
	}
}
