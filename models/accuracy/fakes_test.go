package accuracy

// In-memory fakes for the two collaborator interfaces. These tests are
// intentionally DB-free: they validate the pipeline and merge semantics.
// Full MySQL integration coverage belongs in an environment that can run
// docker, following the models regression-test harness.

import (
	"context"
	"fmt"
	"io"
	"testing"

	"bitbucket.org/tallyworks/counts_backend/models"
	"bitbucket.org/tallyworks/counts_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("NewFromString(%q): %v", s, err)
	}
	return d
}

type fakeRawSource struct {
	employees   []models.Employee
	lines       []models.TagLine
	duplicates  map[int]struct{}
	corrections []models.Correction
	zones       []models.Zone

	// owner code per "tagId|productId"; missing key means no line of record.
	owners map[string]string

	ownerLookups int
}

func (f *fakeRawSource) Employees(ctx context.Context) ([]models.Employee, error) {
	return f.employees, nil
}

func (f *fakeRawSource) TagLines(ctx context.Context) ([]models.TagLine, error) {
	return f.lines, nil
}

func (f *fakeRawSource) DuplicateTags(ctx context.Context) (map[int]struct{}, error) {
	if f.duplicates == nil {
		return map[int]struct{}{}, nil
	}
	return f.duplicates, nil
}

// AggregateTotals sums the raw lines per tag, which is what the precomputed
// rollup table holds for non-duplicate tags.
func (f *fakeRawSource) AggregateTotals(ctx context.Context, tagIds []int) (models.Rollup, error) {
	want := make(map[int]struct{}, len(tagIds))
	for _, id := range tagIds {
		want[id] = struct{}{}
	}
	var out models.Rollup
	out.Quantity = decimal.Zero
	out.Price = decimal.Zero
	for _, line := range f.lines {
		if _, ok := want[line.TagId]; !ok {
			continue
		}
		out.Quantity = out.Quantity.Add(line.Quantity)
		out.Price = out.Price.Add(line.UnitPrice.Mul(line.Quantity))
	}
	return out, nil
}

func (f *fakeRawSource) LineTotals(ctx context.Context, employeeId string, tagIds []int) (models.Rollup, error) {
	want := make(map[int]struct{}, len(tagIds))
	for _, id := range tagIds {
		want[id] = struct{}{}
	}
	var out models.Rollup
	out.Quantity = decimal.Zero
	out.Price = decimal.Zero
	for _, line := range f.lines {
		if line.EmployeeId != employeeId {
			continue
		}
		if _, ok := want[line.TagId]; !ok {
			continue
		}
		out.Quantity = out.Quantity.Add(line.Quantity)
		out.Price = out.Price.Add(line.UnitPrice.Mul(line.Quantity))
	}
	return out, nil
}

func (f *fakeRawSource) LineOwner(ctx context.Context, tagId int, productId string) (string, error) {
	f.ownerLookups++
	code, ok := f.owners[fmt.Sprintf("%d|%s", tagId, productId)]
	if !ok {
		return "", utils.ErrorRecordNotFound
	}
	return code, nil
}

func (f *fakeRawSource) Corrections(ctx context.Context) ([]models.Correction, error) {
	return f.corrections, nil
}

func (f *fakeRawSource) Zones(ctx context.Context) ([]models.Zone, error) {
	return f.zones, nil
}

func (f *fakeRawSource) ZoneTotals(ctx context.Context, zone models.Zone) (models.ZoneRollup, error) {
	tags := make(map[int]struct{})
	out := models.ZoneRollup{Quantity: decimal.Zero, Price: decimal.Zero}
	for _, line := range f.lines {
		if line.TagId < zone.TagFrom || line.TagId > zone.TagTo {
			continue
		}
		tags[line.TagId] = struct{}{}
		out.Quantity = out.Quantity.Add(line.Quantity)
		out.Price = out.Price.Add(line.UnitPrice.Mul(line.Quantity))
	}
	out.Tags = len(tags)
	return out, nil
}

type empSnapKey struct {
	storeId    string
	employeeId string
}

type zoneSnapKey struct {
	storeId string
	zoneId  int
}

// fakeAggregateStore keeps snapshots and season rows in maps. Transact runs
// fn against a deep copy and commits only on success, so abort tests can
// assert that nothing was persisted.
type fakeAggregateStore struct {
	empSnaps    map[empSnapKey]models.EmployeeSnapshot
	empSeasons  map[string]models.EmployeeSeasonTotal
	zoneSnaps   map[zoneSnapKey]models.ZoneSnapshot
	zoneSeasons map[int]models.ZoneSeasonTotal
}

func newFakeAggregateStore() *fakeAggregateStore {
	return &fakeAggregateStore{
		empSnaps:    map[empSnapKey]models.EmployeeSnapshot{},
		empSeasons:  map[string]models.EmployeeSeasonTotal{},
		zoneSnaps:   map[zoneSnapKey]models.ZoneSnapshot{},
		zoneSeasons: map[int]models.ZoneSeasonTotal{},
	}
}

func (f *fakeAggregateStore) clone() *fakeAggregateStore {
	c := newFakeAggregateStore()
	for k, v := range f.empSnaps {
		c.empSnaps[k] = v
	}
	for k, v := range f.empSeasons {
		c.empSeasons[k] = v
	}
	for k, v := range f.zoneSnaps {
		c.zoneSnaps[k] = v
	}
	for k, v := range f.zoneSeasons {
		c.zoneSeasons[k] = v
	}
	return c
}

func (f *fakeAggregateStore) EmployeeSnapshot(ctx context.Context, storeId, employeeId string) (*models.EmployeeSnapshot, error) {
	if snap, ok := f.empSnaps[empSnapKey{storeId, employeeId}]; ok {
		out := snap
		return &out, nil
	}
	return nil, nil
}

func (f *fakeAggregateStore) SaveEmployeeSnapshot(ctx context.Context, snap *models.EmployeeSnapshot) error {
	f.empSnaps[empSnapKey{snap.StoreId, snap.EmployeeId}] = *snap
	return nil
}

func (f *fakeAggregateStore) EmployeeSeason(ctx context.Context, employeeId string) (*models.EmployeeSeasonTotal, error) {
	if row, ok := f.empSeasons[employeeId]; ok {
		out := row
		return &out, nil
	}
	return nil, nil
}

func (f *fakeAggregateStore) SaveEmployeeSeason(ctx context.Context, row *models.EmployeeSeasonTotal) error {
	f.empSeasons[row.EmployeeId] = *row
	return nil
}

func (f *fakeAggregateStore) ZoneSnapshot(ctx context.Context, storeId string, zoneId int) (*models.ZoneSnapshot, error) {
	if snap, ok := f.zoneSnaps[zoneSnapKey{storeId, zoneId}]; ok {
		out := snap
		return &out, nil
	}
	return nil, nil
}

func (f *fakeAggregateStore) SaveZoneSnapshot(ctx context.Context, snap *models.ZoneSnapshot) error {
	f.zoneSnaps[zoneSnapKey{snap.StoreId, snap.ZoneId}] = *snap
	return nil
}

func (f *fakeAggregateStore) ZoneSeason(ctx context.Context, zoneId int) (*models.ZoneSeasonTotal, error) {
	if row, ok := f.zoneSeasons[zoneId]; ok {
		out := row
		return &out, nil
	}
	return nil, nil
}

func (f *fakeAggregateStore) SaveZoneSeason(ctx context.Context, row *models.ZoneSeasonTotal) error {
	f.zoneSeasons[row.ZoneId] = *row
	return nil
}

func (f *fakeAggregateStore) Transact(ctx context.Context, fn func(models.AggregateStore) error) error {
	scratch := f.clone()
	if err := fn(scratch); err != nil {
		return err
	}
	f.empSnaps = scratch.empSnaps
	f.empSeasons = scratch.empSeasons
	f.zoneSnaps = scratch.zoneSnaps
	f.zoneSeasons = scratch.zoneSeasons
	return nil
}

func newTestEngine(raw RawSource, store AggregateStore) *Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewEngine(raw, store, logger)
}

func tagSetOf(ids ...int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
