package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgdb "github.com/freshmart/inventory-backend/pkg/db"
	"github.com/freshmart/inventory-backend/pkg/db/models"
	pkgerrors "github.com/freshmart/inventory-backend/pkg/errors"
)

// ExpiryOrder selects how per-product reads are sorted.
type ExpiryOrder string

const (
	ExpiryAsc  ExpiryOrder = "ASC"
	ExpiryDesc ExpiryOrder = "DESC"
)

// Repository manages persistence for inventory batches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByProduct(ctx context.Context, productID int64, order ExpiryOrder) ([]models.Batch, error)
	FindByID(ctx context.Context, batchID int64) (*models.Batch, error)
	DeductQuantity(ctx context.Context, batchID int64, quantity int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a batch repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByProduct(ctx context.Context, productID int64, order ExpiryOrder) ([]models.Batch, error) {
	direction := "ASC"
	if order == ExpiryDesc {
		direction = "DESC"
	}

	var batches []models.Batch
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(fmt.Sprintf("expiry_date %s", direction)).
		Order("batch_id ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *repository) FindByID(ctx context.Context, batchID int64) (*models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("batch %d not found", batchID))
		}
		return nil, err
	}
	return &batch, nil
}

// DeductQuantity applies a guarded decrement. The WHERE clause refuses to
// take a batch below zero; when no row matches, the snapshot the caller
// decided on no longer holds and the deduction is reported as a commit
// conflict that was never applied.
func (r *repository) DeductQuantity(ctx context.Context, batchID int64, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("deduction must be positive, got %d", quantity))
	}

	result := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("batch_id = ? AND quantity >= ?", batchID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		// A check violation means the guard was raced past; same outcome
		// as losing the guarded update, nothing was applied.
		if pkgdb.IsCheckViolation(result.Error, "") {
			return pkgerrors.Wrap(pkgerrors.CodeCommitConflict, result.Error,
				fmt.Sprintf("batch %d would go negative, deduction of %d not applied", batchID, quantity))
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(
			pkgerrors.CodeCommitConflict,
			fmt.Sprintf("batch %d changed since read, deduction of %d not applied", batchID, quantity),
		).WithDetails(map[string]any{"batch_id": batchID, "quantity": quantity})
	}
	return nil
}
