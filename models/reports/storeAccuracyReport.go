package reports

import (
	"context"
	"errors"

	"bitbucket.org/tallyworks/counts_backend/config"
	"bitbucket.org/tallyworks/counts_backend/models"
	"bitbucket.org/tallyworks/counts_backend/utils"
	"github.com/shopspring/decimal"
)

// StoreAccuracyEmployee is one employee snapshot row with the display percent
// derived on read.
type StoreAccuracyEmployee struct {
	*models.EmployeeSnapshot
	DiscrepancyPercent decimal.Decimal `json:"discrepancy_percent"`
}

type StoreAccuracyZone struct {
	*models.ZoneSnapshot
	DiscrepancyPercent decimal.Decimal `json:"discrepancy_percent"`
}

// StoreAccuracyResponse is the persisted per-store record set read back from
// snapshots (the last load's result for the store).
type StoreAccuracyResponse struct {
	StoreId   string                   `json:"store_id"`
	Employees []*StoreAccuracyEmployee `json:"employees"`
	Zones     []*StoreAccuracyZone     `json:"zones"`
}

// GetStoreAccuracyReport returns utils.ErrorRecordNotFound for a store that
// has never been loaded.
func GetStoreAccuracyReport(ctx context.Context, storeId string) (*StoreAccuracyResponse, error) {
	count, err := utils.ResourceCountWhere[models.EmployeeSnapshot](ctx, storeId, "")
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, utils.ErrorRecordNotFound
	}

	db := config.GetDB()

	var employees []*models.EmployeeSnapshot
	if err := db.WithContext(ctx).
		Where("store_id = ?", storeId).
		Order("employee_id").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	var zones []*models.ZoneSnapshot
	if err := db.WithContext(ctx).
		Where("store_id = ?", storeId).
		Order("zone_id").
		Find(&zones).Error; err != nil {
		return nil, err
	}

	resp := &StoreAccuracyResponse{StoreId: storeId}
	for _, snap := range employees {
		resp.Employees = append(resp.Employees, &StoreAccuracyEmployee{
			EmployeeSnapshot:   snap,
			DiscrepancyPercent: utils.SafePercent(snap.DiscrepancyDollars, snap.TotalPrice),
		})
	}
	for _, snap := range zones {
		resp.Zones = append(resp.Zones, &StoreAccuracyZone{
			ZoneSnapshot:       snap,
			DiscrepancyPercent: utils.SafePercent(snap.DiscrepancyDollars, snap.TotalPrice),
		})
	}
	return resp, nil
}

// IsNotFound reports whether a report error means the store is unknown.
func IsNotFound(err error) bool {
	return errors.Is(err, utils.ErrorRecordNotFound)
}
