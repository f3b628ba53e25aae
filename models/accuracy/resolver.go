package accuracy

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/tallyworks/counts_backend/models"
	"bitbucket.org/tallyworks/counts_backend/utils"
)

// OwnerKind tags the two resolution outcomes for a duplicate tag.
type OwnerKind int

const (
	// OwnerEmployee: the line lookup found a regular employee of record.
	OwnerEmployee OwnerKind = iota
	// OwnerShared: the line carries the added-item code; both original
	// counters missed the item, so blame is shared.
	OwnerShared
)

type Owner struct {
	Kind       OwnerKind
	EmployeeId string
}

// IsEmployee reports whether the owner is the given employee.
func (o Owner) IsEmployee(employeeId string) bool {
	return o.Kind == OwnerEmployee && o.EmployeeId == employeeId
}

// OwnerResolver decides true attribution for a tag in the duplicate set.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, tagId int, productId string) (Owner, error)
}

type ownerKey struct {
	tagId     int
	productId string
}

// lineOwnerResolver looks up line-level ownership through the raw source.
// Lookups are memoized: duplicate tags are rare, but the same tag/product
// pair can carry several corrections.
type lineOwnerResolver struct {
	raw  RawSource
	memo map[ownerKey]Owner
}

func NewOwnerResolver(raw RawSource) OwnerResolver {
	return &lineOwnerResolver{raw: raw, memo: make(map[ownerKey]Owner)}
}

func (r *lineOwnerResolver) ResolveOwner(ctx context.Context, tagId int, productId string) (Owner, error) {
	key := ownerKey{tagId: tagId, productId: productId}
	if owner, ok := r.memo[key]; ok {
		return owner, nil
	}

	code, err := r.raw.LineOwner(ctx, tagId, productId)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			// The duplicate set says this tag was counted twice, but the line
			// table has no row for it: the two feeds disagree.
			return Owner{}, models.NewIntegrityError("resolve_owner",
				fmt.Sprintf("tag=%d product=%s", tagId, productId),
				errors.New("duplicate tag has no line-level owner"))
		}
		return Owner{}, models.NewIOError("resolve_owner", err)
	}

	owner := Owner{Kind: OwnerEmployee, EmployeeId: code}
	if code == models.AddedItemOwnerCode {
		owner = Owner{Kind: OwnerShared}
	}
	r.memo[key] = owner
	return owner, nil
}
