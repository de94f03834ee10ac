package orders

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/freshmart/inventory-backend/internal/allocation"
	"github.com/freshmart/inventory-backend/internal/inventory"
	"github.com/freshmart/inventory-backend/internal/reservation"
	"github.com/freshmart/inventory-backend/pkg/db/models"
	dbtypes "github.com/freshmart/inventory-backend/pkg/db/types"
	"github.com/freshmart/inventory-backend/pkg/enums"
	pkgerrors "github.com/freshmart/inventory-backend/pkg/errors"
	"github.com/freshmart/inventory-backend/pkg/logger"
	"github.com/freshmart/inventory-backend/pkg/metrics"
	"github.com/freshmart/inventory-backend/pkg/outbox"
	"github.com/freshmart/inventory-backend/pkg/outbox/payloads"
	"github.com/freshmart/inventory-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service coordinates reservations and exposes order reads.
type Service interface {
	Reserve(ctx context.Context, input ReserveInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID int64) (*OrderDTO, error)
	ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo          Repository
	inventoryRepo inventory.Repository
	registry      *inventory.Registry
	tx            txRunner
	locker        reservation.Locker
	outbox        outboxPublisher
	metrics       *metrics.ReservationMetrics
	logg          *logger.Logger
	commitRetries int
}

// Deps carries the coordinator's dependencies.
type Deps struct {
	Repo          Repository
	InventoryRepo inventory.Repository
	Registry      *inventory.Registry
	Tx            txRunner
	Locker        reservation.Locker
	Outbox        outboxPublisher
	Metrics       *metrics.ReservationMetrics
	Logger        *logger.Logger
	CommitRetries int
}

// NewService wires the reservation coordinator.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.InventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("strategy registry required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Locker == nil {
		return nil, fmt.Errorf("product locker required")
	}
	if deps.CommitRetries < 0 {
		deps.CommitRetries = 0
	}
	return &service{
		repo:          deps.Repo,
		inventoryRepo: deps.InventoryRepo,
		registry:      deps.Registry,
		tx:            deps.Tx,
		locker:        deps.Locker,
		outbox:        deps.Outbox,
		metrics:       deps.Metrics,
		logg:          deps.Logger,
		commitRetries: deps.CommitRetries,
	}, nil
}

// Reserve runs the read-decide-commit sequence under the product lock.
// A guarded deduction that loses the race rolls the whole transaction
// back and the sequence re-runs from the read, at most commitRetries
// times. Deductions, the order row, and the outbox event share one
// transaction, so no partial reservation can ever commit.
func (s *service) Reserve(ctx context.Context, input ReserveInput) (*OrderDTO, error) {
	started := time.Now()

	if input.ProductID <= 0 {
		return nil, s.finish(ctx, started, nil,
			pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product id must be positive, got %d", input.ProductID)))
	}
	if input.Quantity <= 0 {
		return nil, s.finish(ctx, started, nil,
			pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be positive, got %d", input.Quantity)))
	}

	strategy, err := s.registry.Resolve(input.Strategy)
	if err != nil {
		return nil, s.finish(ctx, started, nil, err)
	}

	if s.logg != nil {
		ctx = s.logg.WithProductID(ctx, input.ProductID)
		ctx = s.logg.WithStrategy(ctx, string(strategy.Type()))
	}

	release, err := s.locker.Acquire(ctx, input.ProductID)
	if err != nil {
		return nil, s.finish(ctx, started, strategy, err)
	}
	defer release(ctx)

	var dto *OrderDTO
	for attempt := 0; ; attempt++ {
		dto, err = s.reserveOnce(ctx, input, strategy)
		if err == nil {
			break
		}
		if !pkgerrors.HasCode(err, pkgerrors.CodeCommitConflict) || attempt >= s.commitRetries {
			break
		}
		s.metrics.IncCommitRetry(string(strategy.Type()))
		if s.logg != nil {
			s.logg.Warn(ctx, "reservation commit conflict, re-running read-decide-commit")
		}
	}

	return dto, s.finish(ctx, started, strategy, err)
}

func (s *service) reserveOnce(ctx context.Context, input ReserveInput, strategy inventory.Strategy) (*OrderDTO, error) {
	var dto *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.inventoryRepo.WithTx(tx)

		batches, err := strategy.View(ctx, invRepo, input.ProductID)
		if err != nil {
			return err
		}
		if len(batches) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no batches for product %d", input.ProductID))
		}

		plan, err := allocation.Allocate(inventory.BatchViews(batches), input.Quantity)
		if err != nil {
			return err
		}

		if err := strategy.Apply(ctx, invRepo, plan); err != nil {
			return err
		}

		order := &models.Order{
			ProductID:        input.ProductID,
			ProductName:      batches[0].ProductName,
			Quantity:         input.Quantity,
			Status:           enums.OrderStatusPlaced,
			ReservedBatchIDs: dbtypes.Int64List(plan.BatchIDs()),
		}
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}

		if s.outbox != nil {
			event := outbox.DomainEvent{
				EventType:     enums.OutboxEventOrderPlaced,
				AggregateType: enums.OutboxAggregateOrder,
				AggregateID:   order.OrderID,
				Version:       1,
				Data: payloads.OrderPlacedEvent{
					OrderID:          order.OrderID,
					ProductID:        order.ProductID,
					ProductName:      order.ProductName,
					Quantity:         order.Quantity,
					Strategy:         strategy.Type(),
					Status:           order.Status,
					ReservedBatchIDs: plan.BatchIDs(),
					OrderDate:        order.OrderDate,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}

		result := toOrderDTO(*order)
		dto = &result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// finish records metrics and logs the outcome, passing the error through.
func (s *service) finish(ctx context.Context, started time.Time, strategy inventory.Strategy, err error) error {
	label := "unknown"
	if strategy != nil {
		label = string(strategy.Type())
	}
	s.metrics.ObserveDuration(label, time.Since(started))
	s.metrics.IncOutcome(label, outcomeFor(err))

	if s.logg == nil {
		return err
	}
	if err == nil {
		s.logg.Info(ctx, "reservation placed")
		return nil
	}
	if pkgerrors.HasCode(err, pkgerrors.CodeInconsistent) {
		s.logg.Error(ctx, "reservation left inconsistent state, manual reconciliation required", err)
	} else {
		s.logg.Warn(ctx, fmt.Sprintf("reservation failed: %v", err))
	}
	return err
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomePlaced
	case pkgerrors.HasCode(err, pkgerrors.CodeInsufficient):
		return metrics.OutcomeInsufficient
	case pkgerrors.HasCode(err, pkgerrors.CodeCommitConflict):
		return metrics.OutcomeConflict
	case pkgerrors.HasCode(err, pkgerrors.CodeValidation),
		pkgerrors.HasCode(err, pkgerrors.CodeUnknownStrategy),
		pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func (s *service) GetOrder(ctx context.Context, orderID int64) (*OrderDTO, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("order id must be positive, got %d", orderID))
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error) {
	return s.repo.List(ctx, params)
}
