package models

import "time"

// ReferralCode is a capacity-bounded, time-bounded admission token. Codes
// are mentor-scoped when MentorID is set, vendor-scoped otherwise.
// UsageCount increases monotonically and must never exceed MaxUsage when a
// limit is set; the store-level conditional update enforces this under
// concurrency.
type ReferralCode struct {
	ID         string     `db:"id" json:"id"`
	Code       string     `db:"code" json:"code"`
	VendorID   string     `db:"vendor_id" json:"vendor_id"`
	MentorID   *string    `db:"mentor_id" json:"mentor_id,omitempty"`
	Active     bool       `db:"is_active" json:"is_active"`
	UsageCount int        `db:"usage_count" json:"usage_count"`
	MaxUsage   *int       `db:"max_usage" json:"max_usage,omitempty"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Expired reports whether the code's validity window has passed. Codes
// without an expiry never expire.
func (r *ReferralCode) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// Exhausted reports whether the usage limit has been reached. Codes without
// a limit are never exhausted.
func (r *ReferralCode) Exhausted() bool {
	return r.MaxUsage != nil && r.UsageCount >= *r.MaxUsage
}
