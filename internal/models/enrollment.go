package models

import "time"

// Enrollment is the immutable fact record admitting a student into a
// course. PricePaid snapshots the course price at enrollment time and is
// never recomputed. At most one enrollment exists per (student, course).
type Enrollment struct {
	ID                 string    `db:"id" json:"id"`
	StudentID          string    `db:"student_id" json:"student_id"`
	CourseID           string    `db:"course_id" json:"course_id"`
	MentorID           string    `db:"mentor_id" json:"mentor_id"`
	VendorID           string    `db:"vendor_id" json:"vendor_id"`
	PricePaid          float64   `db:"price_paid" json:"price_paid"`
	ReferralCodeUsed   *string   `db:"referral_code_used" json:"referral_code_used,omitempty"`
	ReferredByMentorID *string   `db:"referred_by_mentor_id" json:"referred_by_mentor_id,omitempty"`
	EnrolledAt         time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollmentDetail enriches an enrollment with display context.
type EnrollmentDetail struct {
	Enrollment
	StudentName string `db:"student_name" json:"student_name,omitempty"`
	CourseTitle string `db:"course_title" json:"course_title,omitempty"`
	CompanyName string `db:"company_name" json:"company_name,omitempty"`
}
