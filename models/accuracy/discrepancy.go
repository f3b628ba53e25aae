package accuracy

import (
	"context"

	"bitbucket.org/tallyworks/counts_backend/models"
	"github.com/shopspring/decimal"
)

// Fixed business constants: only miscount corrections above $50 count
// against accuracy. Not configurable.
var chargeableThreshold = decimal.NewFromInt(50)

// Chargeable reports whether a correction can affect accuracy at all.
func Chargeable(c models.Correction) bool {
	if c.Reason != models.CorrectionReasonMiscounted {
		return false
	}
	return c.DollarDelta().GreaterThan(chargeableThreshold)
}

// Attribution is the discrepancy outcome for one employee or zone.
type Attribution struct {
	Dollars decimal.Decimal
	// TagIds holds the distinct tags with at least one accepted event;
	// len(TagIds) is the discrepancy tag count.
	TagIds map[int]struct{}
	Events []models.Correction
}

func newAttribution() Attribution {
	return Attribution{Dollars: decimal.Zero, TagIds: make(map[int]struct{})}
}

func (a *Attribution) accept(c models.Correction) {
	a.Dollars = a.Dollars.Add(c.DollarDelta())
	a.TagIds[c.TagId] = struct{}{}
	a.Events = append(a.Events, c)
}

// AttributeDiscrepancies charges corrections against one employee. A
// correction counts when its tag is in the employee's tag set and it is
// chargeable; for contested (duplicate) tags the resolver decides: a shared
// owner charges every original counter, a different employee of record means
// this event belongs to someone else and is skipped.
func AttributeDiscrepancies(ctx context.Context, employeeId string, tagSet, duplicateSet map[int]struct{}, corrections []models.Correction, resolver OwnerResolver) (Attribution, error) {
	attr := newAttribution()
	for _, c := range corrections {
		if _, counted := tagSet[c.TagId]; !counted {
			continue
		}
		if !Chargeable(c) {
			continue
		}
		if _, contested := duplicateSet[c.TagId]; contested {
			owner, err := resolver.ResolveOwner(ctx, c.TagId, c.ProductId)
			if err != nil {
				return Attribution{}, err
			}
			if owner.Kind != OwnerShared && !owner.IsEmployee(employeeId) {
				// Belongs to the other counter; do not double-charge.
				continue
			}
		}
		attr.accept(c)
	}
	return attr, nil
}

// AttributeZoneDiscrepancies charges corrections against one zone. Zone
// attribution is by the event's zone id; there is no ownership question.
func AttributeZoneDiscrepancies(zoneId int, corrections []models.Correction) Attribution {
	attr := newAttribution()
	for _, c := range corrections {
		if c.ZoneId != zoneId {
			continue
		}
		if !Chargeable(c) {
			continue
		}
		attr.accept(c)
	}
	return attr
}
