package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeSeasonTotal is the running season-to-date aggregate for one
// employee across stores. Derived data: it is mutated in place by the season
// merger and can always be rebuilt from snapshots (cmd/season-rebuild).
//
// StoreCount equals the number of distinct stores contributing to the row and
// is the averaging denominator when season statistics are read back.
type EmployeeSeasonTotal struct {
	EmployeeId string `gorm:"primaryKey;size:16" json:"employee_id"`
	Name       string `gorm:"size:100" json:"name"`

	TotalTags          int             `gorm:"default:0" json:"total_tags"`
	TotalQuantity      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_quantity"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	DiscrepancyDollars decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discrepancy_dollars"`
	DiscrepancyTags    int             `gorm:"default:0" json:"discrepancy_tags"`
	Hours              decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"hours"`
	StoreCount         int             `gorm:"default:0" json:"store_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ZoneSeasonTotal mirrors EmployeeSeasonTotal keyed by zone id.
type ZoneSeasonTotal struct {
	ZoneId int    `gorm:"primaryKey" json:"zone_id"`
	Name   string `gorm:"size:100" json:"name"`

	TotalTags          int             `gorm:"default:0" json:"total_tags"`
	TotalQuantity      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_quantity"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	DiscrepancyDollars decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discrepancy_dollars"`
	DiscrepancyTags    int             `gorm:"default:0" json:"discrepancy_tags"`
	StoreCount         int             `gorm:"default:0" json:"store_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
