package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TagAggregate is the ingestion-owned per-tag rollup. It is the cheap path for
// totaling the common (non-duplicate) case and is read-only to this backend.
//
// NOTE: the rollup cannot distinguish owners, so it must never be used for
// tags in duplicate_tags; those are totaled line-level per employee.
type TagAggregate struct {
	StoreId       string          `gorm:"primaryKey;size:32" json:"store_id"`
	TagId         int             `gorm:"primaryKey" json:"tag_id"`
	TotalQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_quantity"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DuplicateTag marks a tag counted by more than one source feed. Flagged by
// ingestion, never derived here.
type DuplicateTag struct {
	StoreId string `gorm:"primaryKey;size:32" json:"store_id"`
	TagId   int    `gorm:"primaryKey" json:"tag_id"`
}
