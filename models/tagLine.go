package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TagLine is one scanned line item. Many lines share a tag; a tag belongs to
// exactly one employee except when the ingestion feed flags it as a duplicate.
type TagLine struct {
	Id         int             `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreId    string          `gorm:"size:32;index:idx_tl_store_tag,priority:1;index:idx_tl_store_emp,priority:1" json:"store_id"`
	EmployeeId string          `gorm:"size:16;index:idx_tl_store_emp,priority:2" json:"employee_id"`
	TagId      int             `gorm:"index:idx_tl_store_tag,priority:2" json:"tag_id"`
	ProductId  string          `gorm:"size:32" json:"product_id"`
	Quantity   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
