package models

// CorrectionReason is the reason code carried by a queued count correction.
// Only miscounts are chargeable against accuracy; the other reasons exist in
// source data but never affect discrepancy dollars.
type CorrectionReason string

const (
	CorrectionReasonMiscounted CorrectionReason = "miscounted"
	CorrectionReasonDamaged    CorrectionReason = "damaged"
	CorrectionReasonNotCounted CorrectionReason = "not_counted"
	CorrectionReasonRecount    CorrectionReason = "recount"
)

// AddedItemOwnerCode is the owner code the counting feed writes on lines for
// items that were added during audit, i.e. missed by both original counters.
const AddedItemOwnerCode = "ZZ9999"

// AccuracyKey distinguishes the two snapshot/season keyspaces.
type AccuracyKey string

const (
	AccuracyKeyEmployee AccuracyKey = "employee"
	AccuracyKeyZone     AccuracyKey = "zone"
)

// LoadStatus tracks a count_loads row through one load action.
type LoadStatus string

const (
	LoadStatusRunning  LoadStatus = "Running"
	LoadStatusMerged   LoadStatus = "Merged"
	LoadStatusComputed LoadStatus = "Computed"
	LoadStatusFailed   LoadStatus = "Failed"
)
