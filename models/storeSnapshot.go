package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeSnapshot is the last-computed per-store accuracy row for one
// employee. It is the baseline for delta computation when a store is
// reprocessed: overwritten, never appended.
type EmployeeSnapshot struct {
	StoreId    string    `gorm:"primaryKey;size:32" json:"store_id"`
	EmployeeId string    `gorm:"primaryKey;size:16" json:"employee_id"`
	Name       string    `gorm:"size:100" json:"name"`
	CountDate  time.Time `gorm:"index" json:"count_date"`

	TotalTags          int             `gorm:"default:0" json:"total_tags"`
	TotalQuantity      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_quantity"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	DiscrepancyDollars decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discrepancy_dollars"`
	DiscrepancyTags    int             `gorm:"default:0" json:"discrepancy_tags"`
	Hours              decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"hours"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ZoneSnapshot mirrors EmployeeSnapshot keyed by zone. Zones carry no hours.
type ZoneSnapshot struct {
	StoreId   string    `gorm:"primaryKey;size:32" json:"store_id"`
	ZoneId    int       `gorm:"primaryKey" json:"zone_id"`
	Name      string    `gorm:"size:100" json:"name"`
	CountDate time.Time `gorm:"index" json:"count_date"`

	TotalTags          int             `gorm:"default:0" json:"total_tags"`
	TotalQuantity      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_quantity"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	DiscrepancyDollars decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discrepancy_dollars"`
	DiscrepancyTags    int             `gorm:"default:0" json:"discrepancy_tags"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
