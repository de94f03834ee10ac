package models

import "time"

// Batch is one stock lot of a product. A product usually spans several
// batches with different expiry dates; consumption order between them is a
// strategy decision, not a property of the row.
//
// Quantity never goes negative: the only mutation path is the guarded
// deduction in the inventory repository. Exhausted batches stay in the table
// as historical records.
type Batch struct {
	BatchID     int64     `gorm:"column:batch_id;primaryKey"`
	ProductID   int64     `gorm:"column:product_id;not null;index:idx_batches_product"`
	ProductName string    `gorm:"column:product_name;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	ExpiryDate  time.Time `gorm:"column:expiry_date;not null"`
}

// TableName overrides the default pluralization.
func (Batch) TableName() string {
	return "batches"
}
