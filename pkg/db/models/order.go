package models

import (
	"time"

	dbtypes "github.com/freshmart/inventory-backend/pkg/db/types"
	"github.com/freshmart/inventory-backend/pkg/enums"
)

// Order records one committed reservation. Rows are written only after the
// allocation plan was applied to the ledger, inside the same transaction.
type Order struct {
	OrderID          int64             `gorm:"column:order_id;primaryKey;autoIncrement"`
	ProductID        int64             `gorm:"column:product_id;not null"`
	ProductName      string            `gorm:"column:product_name;not null"`
	Quantity         int               `gorm:"column:quantity;not null"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null"`
	ReservedBatchIDs dbtypes.Int64List `gorm:"column:reserved_batch_ids;type:text"`
	OrderDate        time.Time         `gorm:"column:order_date;autoCreateTime"`
}

// TableName matches the legacy orders table.
func (Order) TableName() string {
	return "orders"
}
