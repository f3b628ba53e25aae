package accuracy

import (
	"context"
	"sort"
)

// AggregateTotals computes an employee's quantity/price totals over their tag
// set. Non-duplicate tags go through the precomputed rollup in one bulk read;
// duplicate tags are summed line-level filtered to the employee, so two
// counters of the same tag are never both credited.
func AggregateTotals(ctx context.Context, raw RawSource, employeeId string, tagSet, duplicateSet map[int]struct{}) (Rollup, error) {
	nonDup, dup := splitTagSet(tagSet, duplicateSet)

	var totals Rollup
	if len(nonDup) > 0 {
		bulk, err := raw.AggregateTotals(ctx, nonDup)
		if err != nil {
			return Rollup{}, wrapIO("aggregate_totals", err)
		}
		totals = totals.Add(bulk)
	}
	if len(dup) > 0 {
		lines, err := raw.LineTotals(ctx, employeeId, dup)
		if err != nil {
			return Rollup{}, wrapIO("line_totals", err)
		}
		totals = totals.Add(lines)
	}
	// Empty tag sets fall through to (0, 0); not an error.
	return totals, nil
}

// splitTagSet partitions tagSet into (tagSet − duplicateSet, tagSet ∩
// duplicateSet), both sorted so the generated SQL is stable.
func splitTagSet(tagSet, duplicateSet map[int]struct{}) (nonDup []int, dup []int) {
	for tagId := range tagSet {
		if _, contested := duplicateSet[tagId]; contested {
			dup = append(dup, tagId)
		} else {
			nonDup = append(nonDup, tagId)
		}
	}
	sort.Ints(nonDup)
	sort.Ints(dup)
	return nonDup, dup
}
