package repository

import "errors"

// Sentinel errors surfaced by conditional writes. Services translate these
// into the typed domain error taxonomy; repositories stay HTTP-agnostic.
var (
	// ErrSlotClaimed is returned when a claim lost the race for a
	// vendor/mentor slot that another registration already bound.
	ErrSlotClaimed = errors.New("slot already claimed")

	// ErrReferralNotUsable is returned when the conditional usage-count
	// increment matched no row: the code is missing, inactive, expired or
	// exhausted. Callers re-read the code to classify the failure.
	ErrReferralNotUsable = errors.New("referral code not usable")

	// ErrDuplicateEnrollment is returned when an enrollment for the same
	// (student, course) pair already exists.
	ErrDuplicateEnrollment = errors.New("enrollment already exists")

	// ErrActiveCodeLimit is returned when a mentor already holds the
	// maximum number of simultaneously active referral codes.
	ErrActiveCodeLimit = errors.New("active referral code limit reached")
)
