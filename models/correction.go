package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CorrectionEntry is the counted side of a queued correction: the line as the
// counter recorded it, pulled for review.
type CorrectionEntry struct {
	Id              int             `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreId         string          `gorm:"size:32;index" json:"store_id"`
	ZoneId          int             `json:"zone_id"`
	TagId           int             `gorm:"index" json:"tag_id"`
	ProductId       string          `gorm:"size:32" json:"product_id"`
	CountedQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"counted_quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CorrectionResult is the auditor's counterpart row. Every entry under review
// gets exactly one result; the raw source reads the two with an inner join.
type CorrectionResult struct {
	EntryId           int              `gorm:"primaryKey" json:"entry_id"`
	CorrectedQuantity decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"corrected_quantity"`
	Reason            CorrectionReason `gorm:"size:20" json:"reason"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Correction is the joined discrepancy event the engine consumes. Not a table.
type Correction struct {
	ZoneId            int              `json:"zone_id"`
	TagId             int              `json:"tag_id"`
	ProductId         string           `json:"product_id"`
	CountedQuantity   decimal.Decimal  `json:"counted_quantity"`
	CorrectedQuantity decimal.Decimal  `json:"corrected_quantity"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	Reason            CorrectionReason `json:"reason"`
}

// DollarDelta is the absolute dollar difference between the counted and the
// corrected extension.
func (c Correction) DollarDelta() decimal.Decimal {
	counted := c.UnitPrice.Mul(c.CountedQuantity)
	corrected := c.UnitPrice.Mul(c.CorrectedQuantity)
	return counted.Sub(corrected).Abs()
}
