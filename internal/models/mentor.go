package models

import "time"

// Mentor represents a mentor slot under a vendor. Like vendor slots, a
// mentor slot may exist unclaimed. Mentor keys carry no expiry window.
type Mentor struct {
	ID              string         `db:"id" json:"id"`
	MentorKey       string         `db:"mentor_key" json:"mentor_key"`
	VendorID        string         `db:"vendor_id" json:"vendor_id"`
	UserID          *string        `db:"user_id" json:"user_id,omitempty"`
	Specialization  string         `db:"specialization" json:"specialization,omitempty"`
	Bio             string         `db:"bio" json:"bio,omitempty"`
	Status          ApprovalStatus `db:"status" json:"status"`
	CreatedBy       string         `db:"created_by" json:"created_by"`
	ApprovedBy      *string        `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `db:"approved_at" json:"approved_at,omitempty"`
	RejectedBy      *string        `db:"rejected_by" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time     `db:"rejected_at" json:"rejected_at,omitempty"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// Claimed reports whether an identity is already bound to the slot.
func (m *Mentor) Claimed() bool {
	return m.UserID != nil && *m.UserID != ""
}

// MentorDetail enriches a mentor with rollup counts for vendor listings.
type MentorDetail struct {
	Mentor
	StudentCount  int `db:"student_count" json:"student_count"`
	EnrolledCount int `db:"enrolled_count" json:"enrolled_count"`
}
