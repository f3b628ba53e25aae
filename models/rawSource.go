package models

import (
	"context"
	"errors"

	"bitbucket.org/tallyworks/counts_backend/config"
	"bitbucket.org/tallyworks/counts_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormRawSource exposes one store's counting dataset through the narrow read
// contract the engine consumes. All shape validation happens here, never
// inside the aggregation logic.
type GormRawSource struct {
	db      *gorm.DB
	storeId string
}

func NewRawSource(db *gorm.DB, storeId string) *GormRawSource {
	if db == nil {
		db = config.GetDB()
	}
	return &GormRawSource{db: db, storeId: storeId}
}

func (r *GormRawSource) Employees(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", r.storeId).
		Order("employee_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRawSource) TagLines(ctx context.Context) ([]TagLine, error) {
	var rows []TagLine
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", r.storeId).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRawSource) DuplicateTags(ctx context.Context) (map[int]struct{}, error) {
	var tagIds []int
	if err := r.db.WithContext(ctx).Model(&DuplicateTag{}).
		Where("store_id = ?", r.storeId).
		Pluck("tag_id", &tagIds).Error; err != nil {
		return nil, err
	}
	set := make(map[int]struct{}, len(tagIds))
	for _, id := range tagIds {
		set[id] = struct{}{}
	}
	return set, nil
}

// AggregateTotals is the single bulk rollup read over the precomputed per-tag
// aggregates. Only valid for non-duplicate tags (the rollup cannot tell
// owners apart).
func (r *GormRawSource) AggregateTotals(ctx context.Context, tagIds []int) (Rollup, error) {
	if len(tagIds) == 0 {
		return Rollup{Quantity: decimal.Zero, Price: decimal.Zero}, nil
	}
	var rollup Rollup
	sql := `
SELECT
    COALESCE(SUM(total_quantity), 0) AS quantity,
    COALESCE(SUM(total_price), 0) AS price
FROM
    tag_aggregates
WHERE
    store_id = @storeId
    AND tag_id IN @tagIds
`
	if err := r.db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"storeId": r.storeId,
		"tagIds":  tagIds,
	}).Scan(&rollup).Error; err != nil {
		return Rollup{}, err
	}
	return rollup, nil
}

// LineTotals sums raw lines for the contested tags, filtered to the evaluated
// employee so the other counter is not credited.
func (r *GormRawSource) LineTotals(ctx context.Context, employeeId string, tagIds []int) (Rollup, error) {
	if len(tagIds) == 0 {
		return Rollup{Quantity: decimal.Zero, Price: decimal.Zero}, nil
	}
	var rollup Rollup
	sql := `
SELECT
    COALESCE(SUM(quantity), 0) AS quantity,
    COALESCE(SUM(quantity * unit_price), 0) AS price
FROM
    tag_lines
WHERE
    store_id = @storeId
    AND employee_id = @employeeId
    AND tag_id IN @tagIds
`
	if err := r.db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"storeId":    r.storeId,
		"employeeId": employeeId,
		"tagIds":     tagIds,
	}).Scan(&rollup).Error; err != nil {
		return Rollup{}, err
	}
	return rollup, nil
}

// LineOwner returns the employee of record for a (tag, product) pair. When
// both counters recorded the same pair, the earliest ingested line wins the
// tie so attribution is stable across reloads.
func (r *GormRawSource) LineOwner(ctx context.Context, tagId int, productId string) (string, error) {
	var owners []string
	if err := r.db.WithContext(ctx).Model(&TagLine{}).
		Where("store_id = ? AND tag_id = ? AND product_id = ?", r.storeId, tagId, productId).
		Order("id").
		Limit(1).
		Pluck("employee_id", &owners).Error; err != nil {
		return "", err
	}
	if len(owners) == 0 {
		return "", utils.ErrorRecordNotFound
	}
	return owners[0], nil
}

// Corrections reads the queued corrections inner-joined to their audit
// counterpart. The row shape is validated column-by-column: a drifted join is
// a fatal shape error for the load, not a scan surprise downstream.
func (r *GormRawSource) Corrections(ctx context.Context) ([]Correction, error) {
	sql := `
SELECT
    e.zone_id,
    e.tag_id,
    e.product_id,
    e.counted_quantity,
    r.corrected_quantity,
    e.unit_price,
    r.reason
FROM
    correction_entries e
    INNER JOIN correction_results r ON r.entry_id = e.id
WHERE
    e.store_id = @storeId
`
	rows, err := r.db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"storeId": r.storeId,
	}).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) != 7 {
		return nil, NewShapeError("corrections",
			errors.New("correction join returned unexpected column count"))
	}

	var out []Correction
	for rows.Next() {
		var c Correction
		if err := rows.Scan(&c.ZoneId, &c.TagId, &c.ProductId,
			&c.CountedQuantity, &c.CorrectedQuantity, &c.UnitPrice, &c.Reason); err != nil {
			return nil, NewShapeError("corrections", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRawSource) Zones(ctx context.Context) ([]Zone, error) {
	var rows []Zone
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", r.storeId).
		Order("zone_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ZoneTotals rolls up the zone's tag range straight from the per-tag
// aggregates. Zone membership is positional (tag ranges), so there is no
// ownership question and the rollup is always safe here.
func (r *GormRawSource) ZoneTotals(ctx context.Context, zone Zone) (ZoneRollup, error) {
	var rollup ZoneRollup
	sql := `
SELECT
    COUNT(tag_id) AS tags,
    COALESCE(SUM(total_quantity), 0) AS quantity,
    COALESCE(SUM(total_price), 0) AS price
FROM
    tag_aggregates
WHERE
    store_id = @storeId
    AND tag_id BETWEEN @tagFrom AND @tagTo
`
	if err := r.db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"storeId": r.storeId,
		"tagFrom": zone.TagFrom,
		"tagTo":   zone.TagTo,
	}).Scan(&rollup).Error; err != nil {
		return ZoneRollup{}, err
	}
	return rollup, nil
}
