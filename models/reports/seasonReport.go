package reports

import (
	"context"
	"time"

	"bitbucket.org/tallyworks/counts_backend/config"
	"bitbucket.org/tallyworks/counts_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	employeeSeasonCacheKey = "seasonReport:employees"
	zoneSeasonCacheKey     = "seasonReport:zones"
)

// EmployeeSeasonResponse is one season-to-date row with derived statistics.
// Averages use StoreCount as the denominator; UPH = quantity / hours.
type EmployeeSeasonResponse struct {
	EmployeeId         string          `json:"employee_id"`
	Name               string          `json:"name"`
	TotalTags          int             `json:"total_tags"`
	TotalQuantity      decimal.Decimal `json:"total_quantity"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	DiscrepancyDollars decimal.Decimal `json:"discrepancy_dollars"`
	DiscrepancyTags    int             `json:"discrepancy_tags"`
	Hours              decimal.Decimal `json:"hours"`
	StoreCount         int             `json:"store_count"`

	DiscrepancyPercent decimal.Decimal `json:"discrepancy_percent"`
	AvgDollarsPerStore decimal.Decimal `json:"avg_dollars_per_store"`
	UnitsPerHour       decimal.Decimal `json:"units_per_hour"`
}

type ZoneSeasonResponse struct {
	ZoneId             int             `json:"zone_id"`
	Name               string          `json:"name"`
	TotalTags          int             `json:"total_tags"`
	TotalQuantity      decimal.Decimal `json:"total_quantity"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	DiscrepancyDollars decimal.Decimal `json:"discrepancy_dollars"`
	DiscrepancyTags    int             `json:"discrepancy_tags"`
	StoreCount         int             `json:"store_count"`

	DiscrepancyPercent decimal.Decimal `json:"discrepancy_percent"`
	AvgDollarsPerStore decimal.Decimal `json:"avg_dollars_per_store"`
}

// GetEmployeeSeasonReport reads the running season aggregate. When a date
// range is given the rows are re-aggregated from store snapshots instead (the
// engine never interprets the range; it is purely a row-selection filter
// here). The unfiltered read goes through the redis cache when enabled.
func GetEmployeeSeasonReport(ctx context.Context, fromDate, toDate *time.Time) ([]*EmployeeSeasonResponse, error) {
	ranged := fromDate != nil || toDate != nil

	var records []*EmployeeSeasonResponse
	if !ranged && cacheGet(employeeSeasonCacheKey, &records) {
		return records, nil
	}

	sqlTemplate := `
{{- if .ranged }}
SELECT
    employee_id,
    MAX(name) AS name,
    COALESCE(SUM(total_tags), 0) AS total_tags,
    COALESCE(SUM(total_quantity), 0) AS total_quantity,
    COALESCE(SUM(total_price), 0) AS total_price,
    COALESCE(SUM(discrepancy_dollars), 0) AS discrepancy_dollars,
    COALESCE(SUM(discrepancy_tags), 0) AS discrepancy_tags,
    COALESCE(SUM(hours), 0) AS hours,
    COUNT(store_id) AS store_count
FROM
    employee_snapshots
WHERE
    1 = 1
    {{- if .fromDate }} AND count_date >= @fromDate {{- end }}
    {{- if .toDate }} AND count_date <= @toDate {{- end }}
GROUP BY
    employee_id
ORDER BY
    employee_id
{{- else }}
SELECT
    employee_id, name, total_tags, total_quantity, total_price,
    discrepancy_dollars, discrepancy_tags, hours, store_count
FROM
    employee_season_totals
ORDER BY
    employee_id
{{- end }}
`
	sql, err := utils.ExecTemplate(sqlTemplate, map[string]interface{}{
		"ranged":   ranged,
		"fromDate": fromDate != nil,
		"toDate":   toDate != nil,
	})
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"fromDate": utils.DereferencePtr(fromDate),
		"toDate":   utils.DereferencePtr(toDate),
	}).Scan(&records).Error; err != nil {
		return nil, err
	}

	for _, r := range records {
		r.DiscrepancyPercent = utils.SafePercent(r.DiscrepancyDollars, r.TotalPrice)
		r.AvgDollarsPerStore = utils.SafeDiv(r.DiscrepancyDollars, decimal.NewFromInt(int64(r.StoreCount)))
		r.UnitsPerHour = utils.SafeDiv(r.TotalQuantity, r.Hours)
	}

	if !ranged {
		cacheSet(employeeSeasonCacheKey, records)
	}
	return records, nil
}

// GetZoneSeasonReport is the zone analog of GetEmployeeSeasonReport.
func GetZoneSeasonReport(ctx context.Context, fromDate, toDate *time.Time) ([]*ZoneSeasonResponse, error) {
	ranged := fromDate != nil || toDate != nil

	var records []*ZoneSeasonResponse
	if !ranged && cacheGet(zoneSeasonCacheKey, &records) {
		return records, nil
	}

	sqlTemplate := `
{{- if .ranged }}
SELECT
    zone_id,
    MAX(name) AS name,
    COALESCE(SUM(total_tags), 0) AS total_tags,
    COALESCE(SUM(total_quantity), 0) AS total_quantity,
    COALESCE(SUM(total_price), 0) AS total_price,
    COALESCE(SUM(discrepancy_dollars), 0) AS discrepancy_dollars,
    COALESCE(SUM(discrepancy_tags), 0) AS discrepancy_tags,
    COUNT(store_id) AS store_count
FROM
    zone_snapshots
WHERE
    1 = 1
    {{- if .fromDate }} AND count_date >= @fromDate {{- end }}
    {{- if .toDate }} AND count_date <= @toDate {{- end }}
GROUP BY
    zone_id
ORDER BY
    zone_id
{{- else }}
SELECT
    zone_id, name, total_tags, total_quantity, total_price,
    discrepancy_dollars, discrepancy_tags, store_count
FROM
    zone_season_totals
ORDER BY
    zone_id
{{- end }}
`
	sql, err := utils.ExecTemplate(sqlTemplate, map[string]interface{}{
		"ranged":   ranged,
		"fromDate": fromDate != nil,
		"toDate":   toDate != nil,
	})
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"fromDate": utils.DereferencePtr(fromDate),
		"toDate":   utils.DereferencePtr(toDate),
	}).Scan(&records).Error; err != nil {
		return nil, err
	}

	for _, r := range records {
		r.DiscrepancyPercent = utils.SafePercent(r.DiscrepancyDollars, r.TotalPrice)
		r.AvgDollarsPerStore = utils.SafeDiv(r.DiscrepancyDollars, decimal.NewFromInt(int64(r.StoreCount)))
	}

	if !ranged {
		cacheSet(zoneSeasonCacheKey, records)
	}
	return records, nil
}
