package models

import "time"

// ApprovalStatus is the lifecycle state shared by vendors and mentors.
// PENDING is always the initial state; auto-approval via a valid key is a
// transition applied immediately after creation. No state is terminal.
type ApprovalStatus string

const (
	StatusPending   ApprovalStatus = "PENDING"
	StatusApproved  ApprovalStatus = "APPROVED"
	StatusRejected  ApprovalStatus = "REJECTED"
	StatusSuspended ApprovalStatus = "SUSPENDED"
)

// SystemActor marks transitions applied by the platform itself, such as
// auto-approval when a slot is claimed with a valid key.
const SystemActor = "SYSTEM"

// Vendor represents a vendor slot. A slot may exist before any identity
// claims it: the key is generated and UserID stays null until registration.
type Vendor struct {
	ID              string         `db:"id" json:"id"`
	VendorKey       string         `db:"vendor_key" json:"vendor_key"`
	CompanyName     string         `db:"company_name" json:"company_name"`
	Description     string         `db:"description" json:"description,omitempty"`
	UserID          *string        `db:"user_id" json:"user_id,omitempty"`
	Status          ApprovalStatus `db:"status" json:"status"`
	CreatedBy       string         `db:"created_by" json:"created_by"`
	ApprovedBy      *string        `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `db:"approved_at" json:"approved_at,omitempty"`
	RejectedBy      *string        `db:"rejected_by" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time     `db:"rejected_at" json:"rejected_at,omitempty"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ExpiresAt       *time.Time     `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// Claimed reports whether an identity is already bound to the slot.
func (v *Vendor) Claimed() bool {
	return v.UserID != nil && *v.UserID != ""
}

// KeyExpired reports whether the registration key validity window has passed.
func (v *Vendor) KeyExpired(now time.Time) bool {
	return v.ExpiresAt != nil && v.ExpiresAt.Before(now)
}

// VendorDetail enriches a vendor with rollup counts for admin listings.
type VendorDetail struct {
	Vendor
	MentorCount  int `db:"mentor_count" json:"mentor_count"`
	StudentCount int `db:"student_count" json:"student_count"`
}
