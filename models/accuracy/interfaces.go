package accuracy

import "bitbucket.org/tallyworks/counts_backend/models"

// The collaborator contracts and rollup shapes live in models (shared with
// the gorm adapters); aliases keep the engine signatures short.
type (
	RawSource      = models.RawSource
	AggregateStore = models.AggregateStore
	Rollup         = models.Rollup
	ZoneRollup     = models.ZoneRollup
)
