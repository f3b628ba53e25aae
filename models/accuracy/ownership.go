package accuracy

import (
	"sort"

	"bitbucket.org/tallyworks/counts_backend/models"
)

// OwnershipIndex maps each employee to the distinct set of tags they counted.
// Pure in-memory assembly: a tag seen under multiple employees is expected to
// also be in the duplicate set (flagged by ingestion); the index does not
// detect duplication itself.
type OwnershipIndex struct {
	byEmployee map[string]map[int]struct{}
}

func BuildOwnershipIndex(lines []models.TagLine) *OwnershipIndex {
	idx := &OwnershipIndex{byEmployee: make(map[string]map[int]struct{})}
	for _, line := range lines {
		// Added-item lines carry the unassigned sentinel, not a counter;
		// they influence duplicate resolution but never get a record.
		if line.EmployeeId == models.AddedItemOwnerCode {
			continue
		}
		set, ok := idx.byEmployee[line.EmployeeId]
		if !ok {
			set = make(map[int]struct{})
			idx.byEmployee[line.EmployeeId] = set
		}
		set[line.TagId] = struct{}{}
	}
	return idx
}

// TagSet returns the distinct tags counted by employeeId. Never nil.
func (idx *OwnershipIndex) TagSet(employeeId string) map[int]struct{} {
	if set, ok := idx.byEmployee[employeeId]; ok {
		return set
	}
	return map[int]struct{}{}
}

// Employees returns every employee that counted at least one line, sorted for
// deterministic processing order.
func (idx *OwnershipIndex) Employees() []string {
	out := make([]string, 0, len(idx.byEmployee))
	for id := range idx.byEmployee {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
