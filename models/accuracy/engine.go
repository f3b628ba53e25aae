package accuracy

import (
	"context"
	"time"

	"bitbucket.org/tallyworks/counts_backend/models"
	"bitbucket.org/tallyworks/counts_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("counts-backend/accuracy")

// Engine runs the accuracy pipeline for one store event: ownership index →
// totals → discrepancy attribution → record assembly, then optionally the
// season merge. Single-threaded, one batch per invocation.
type Engine struct {
	raw    RawSource
	store  AggregateStore
	logger *logrus.Logger
}

func NewEngine(raw RawSource, store AggregateStore, logger *logrus.Logger) *Engine {
	return &Engine{raw: raw, store: store, logger: logger}
}

// LoadOptions carries per-load inputs collected outside the engine.
type LoadOptions struct {
	// CountDate is the inventory event date.
	CountDate time.Time
	// Hours per employee id, entered by the operator. Pass-through numerics.
	Hours map[string]decimal.Decimal
}

// LoadResult is the full record set of one load. Employees and Zones are
// ordered (by id) for the reporting collaborator.
type LoadResult struct {
	StoreId   string              `json:"store_id"`
	CountDate time.Time           `json:"count_date"`
	Employees []*EmployeeAccuracy `json:"employees"`
	Zones     []*ZoneAccuracy     `json:"zones"`
}

// ComputeStore computes the per-store record set without touching the
// aggregate store. Either the full record set is returned or an error;
// never a partial one.
func (e *Engine) ComputeStore(ctx context.Context, storeId string, opts LoadOptions) (*LoadResult, error) {
	ctx, span := tracer.Start(ctx, "accuracy.ComputeStore",
		trace.WithAttributes(attribute.String("store_id", storeId)))
	defer span.End()

	if _, ok := utils.GetCorrelationIdFromContext(ctx); !ok {
		ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())
	}

	employees, err := e.raw.Employees(ctx)
	if err != nil {
		return nil, wrapIO("employees", err)
	}
	lines, err := e.raw.TagLines(ctx)
	if err != nil {
		return nil, wrapIO("tag_lines", err)
	}
	duplicateSet, err := e.raw.DuplicateTags(ctx)
	if err != nil {
		return nil, wrapIO("duplicate_tags", err)
	}
	corrections, err := e.raw.Corrections(ctx)
	if err != nil {
		return nil, wrapIO("corrections", err)
	}

	index := BuildOwnershipIndex(lines)
	resolver := NewOwnerResolver(e.raw)

	directory := make(map[string]models.Employee, len(employees))
	for _, emp := range employees {
		directory[emp.EmployeeId] = emp
	}

	result := &LoadResult{StoreId: storeId, CountDate: opts.CountDate}
	for _, employeeId := range index.Employees() {
		tagSet := index.TagSet(employeeId)
		totals, err := AggregateTotals(ctx, e.raw, employeeId, tagSet, duplicateSet)
		if err != nil {
			return nil, err
		}
		attr, err := AttributeDiscrepancies(ctx, employeeId, tagSet, duplicateSet, corrections, resolver)
		if err != nil {
			return nil, err
		}

		emp, ok := directory[employeeId]
		if !ok {
			// Counted lines but missing from the directory: keep the id so
			// the numbers still reconcile, surface the gap in the name.
			emp = models.Employee{StoreId: storeId, EmployeeId: employeeId, Name: employeeId}
		}
		hours := decimal.Zero
		if opts.Hours != nil {
			if h, ok := opts.Hours[employeeId]; ok {
				hours = h
			}
		}
		result.Employees = append(result.Employees, BuildEmployeeAccuracy(emp, tagSet, totals, attr, hours))
	}

	zones, err := e.raw.Zones(ctx)
	if err != nil {
		return nil, wrapIO("zones", err)
	}
	for _, zone := range zones {
		rollup, err := e.raw.ZoneTotals(ctx, zone)
		if err != nil {
			return nil, wrapIO("zone_totals", err)
		}
		attr := AttributeZoneDiscrepancies(zone.ZoneId, corrections)
		result.Zones = append(result.Zones, BuildZoneAccuracy(zone, rollup, attr))
	}

	e.logger.WithFields(logrus.Fields{
		"module":    "accuracy",
		"store_id":  storeId,
		"employees": len(result.Employees),
		"zones":     len(result.Zones),
	}).Info("store accuracy computed")

	return result, nil
}

// LoadStore runs the full load action: compute, then merge into the season
// ledger. The merge is atomic; a failed merge persists nothing.
func (e *Engine) LoadStore(ctx context.Context, storeId string, opts LoadOptions) (*LoadResult, error) {
	result, err := e.ComputeStore(ctx, storeId, opts)
	if err != nil {
		return nil, err
	}
	if err := e.MergeSeason(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// wrapIO classifies collaborator failures as IO errors, preserving already
// classified errors from the adapters (shape, integrity).
func wrapIO(stage string, err error) error {
	if models.ErrorKindOf(err) != "" {
		return err
	}
	return models.NewIOError(stage, err)
}
