package accuracy

import (
	"time"

	"bitbucket.org/tallyworks/counts_backend/models"
	"bitbucket.org/tallyworks/counts_backend/utils"
	"github.com/shopspring/decimal"
)

// EmployeeAccuracy is the assembled per-employee record for one load.
// Constructed fresh per load, never persisted directly; only its numeric
// fields feed the season ledger (via Snapshot).
type EmployeeAccuracy struct {
	EmployeeId         string             `json:"employee_id"`
	Name               string             `json:"name"`
	TotalTags          int                `json:"total_tags"`
	TotalQuantity      decimal.Decimal    `json:"total_quantity"`
	TotalPrice         decimal.Decimal    `json:"total_price"`
	DiscrepancyDollars decimal.Decimal    `json:"discrepancy_dollars"`
	DiscrepancyTags    int                `json:"discrepancy_tags"`
	DiscrepancyPercent decimal.Decimal    `json:"discrepancy_percent"`
	Hours              decimal.Decimal    `json:"hours"`
	TagSet             map[int]struct{}   `json:"-"`
	Events             []models.Correction `json:"events,omitempty"`
}

// ZoneAccuracy is the zone analog of EmployeeAccuracy.
type ZoneAccuracy struct {
	ZoneId             int                 `json:"zone_id"`
	Name               string              `json:"name"`
	TotalTags          int                 `json:"total_tags"`
	TotalQuantity      decimal.Decimal     `json:"total_quantity"`
	TotalPrice         decimal.Decimal     `json:"total_price"`
	DiscrepancyDollars decimal.Decimal     `json:"discrepancy_dollars"`
	DiscrepancyTags    int                 `json:"discrepancy_tags"`
	DiscrepancyPercent decimal.Decimal     `json:"discrepancy_percent"`
	Events             []models.Correction `json:"events,omitempty"`
}

// BuildEmployeeAccuracy is pure assembly of the component outputs.
func BuildEmployeeAccuracy(emp models.Employee, tagSet map[int]struct{}, totals Rollup, attr Attribution, hours decimal.Decimal) *EmployeeAccuracy {
	return &EmployeeAccuracy{
		EmployeeId:         emp.EmployeeId,
		Name:               emp.Name,
		TotalTags:          len(tagSet),
		TotalQuantity:      totals.Quantity,
		TotalPrice:         totals.Price,
		DiscrepancyDollars: attr.Dollars,
		DiscrepancyTags:    len(attr.TagIds),
		DiscrepancyPercent: utils.SafePercent(attr.Dollars, totals.Price),
		Hours:              hours,
		TagSet:             tagSet,
		Events:             attr.Events,
	}
}

func BuildZoneAccuracy(zone models.Zone, rollup ZoneRollup, attr Attribution) *ZoneAccuracy {
	return &ZoneAccuracy{
		ZoneId:             zone.ZoneId,
		Name:               zone.Name,
		TotalTags:          rollup.Tags,
		TotalQuantity:      rollup.Quantity,
		TotalPrice:         rollup.Price,
		DiscrepancyDollars: attr.Dollars,
		DiscrepancyTags:    len(attr.TagIds),
		DiscrepancyPercent: utils.SafePercent(attr.Dollars, rollup.Price),
		Events:             attr.Events,
	}
}

// Snapshot projects the record onto the persisted per-store row.
func (a *EmployeeAccuracy) Snapshot(storeId string, countDate time.Time) *models.EmployeeSnapshot {
	return &models.EmployeeSnapshot{
		StoreId:            storeId,
		EmployeeId:         a.EmployeeId,
		Name:               a.Name,
		CountDate:          countDate,
		TotalTags:          a.TotalTags,
		TotalQuantity:      a.TotalQuantity,
		TotalPrice:         a.TotalPrice,
		DiscrepancyDollars: a.DiscrepancyDollars,
		DiscrepancyTags:    a.DiscrepancyTags,
		Hours:              a.Hours,
	}
}

func (a *ZoneAccuracy) Snapshot(storeId string, countDate time.Time) *models.ZoneSnapshot {
	return &models.ZoneSnapshot{
		StoreId:            storeId,
		ZoneId:             a.ZoneId,
		Name:               a.Name,
		CountDate:          countDate,
		TotalTags:          a.TotalTags,
		TotalQuantity:      a.TotalQuantity,
		TotalPrice:         a.TotalPrice,
		DiscrepancyDollars: a.DiscrepancyDollars,
		DiscrepancyTags:    a.DiscrepancyTags,
	}
}
