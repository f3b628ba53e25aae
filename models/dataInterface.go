package models

import "context"

// RawSource is the read-only window onto one store's counting dataset.
// Implementations own connection/session handling; the engine treats every
// call as a synchronous read that may fail.
type RawSource interface {
	// Employees returns the event's employee directory.
	Employees(ctx context.Context) ([]Employee, error)
	// TagLines returns every scanned line for the event.
	TagLines(ctx context.Context) ([]TagLine, error)
	// DuplicateTags returns the ingestion-flagged duplicate tag set.
	DuplicateTags(ctx context.Context) (map[int]struct{}, error)
	// AggregateTotals bulk-sums the precomputed per-tag rollups for tagIds.
	// Must only be called with non-duplicate tags.
	AggregateTotals(ctx context.Context, tagIds []int) (Rollup, error)
	// LineTotals sums raw lines for tagIds filtered to one employee. The
	// line-level path for contested tags.
	LineTotals(ctx context.Context, employeeId string, tagIds []int) (Rollup, error)
	// LineOwner returns the employee of record for a tag/product pair, or
	// utils.ErrorRecordNotFound when no line exists.
	LineOwner(ctx context.Context, tagId int, productId string) (string, error)
	// Corrections returns the queued corrections joined to their results.
	Corrections(ctx context.Context) ([]Correction, error)
	// Zones returns the zone directory.
	Zones(ctx context.Context) ([]Zone, error)
	// ZoneTotals is the range-based rollup for one zone.
	ZoneTotals(ctx context.Context, zone Zone) (ZoneRollup, error)
}

// AggregateStore is the read/write window onto the persisted aggregate data
// (store snapshots + season totals). Get methods return (nil, nil) when the
// row does not exist; Save methods upsert.
type AggregateStore interface {
	EmployeeSnapshot(ctx context.Context, storeId string, employeeId string) (*EmployeeSnapshot, error)
	SaveEmployeeSnapshot(ctx context.Context, snap *EmployeeSnapshot) error
	EmployeeSeason(ctx context.Context, employeeId string) (*EmployeeSeasonTotal, error)
	SaveEmployeeSeason(ctx context.Context, row *EmployeeSeasonTotal) error

	ZoneSnapshot(ctx context.Context, storeId string, zoneId int) (*ZoneSnapshot, error)
	SaveZoneSnapshot(ctx context.Context, snap *ZoneSnapshot) error
	ZoneSeason(ctx context.Context, zoneId int) (*ZoneSeasonTotal, error)
	SaveZoneSeason(ctx context.Context, row *ZoneSeasonTotal) error

	// Transact runs fn atomically: either every write inside fn is persisted
	// or none are. The season merge runs entirely inside one call.
	Transact(ctx context.Context, fn func(AggregateStore) error) error
}
