package models

import "time"

// Student binds an identity to the mentor that referred it. ReferralCode is
// the code used at signup, kept as an immutable audit trail. Enrolled flips
// true on the first course enrollment and never reverts.
type Student struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	MentorID     string    `db:"mentor_id" json:"mentor_id"`
	ReferralCode string    `db:"referral_code" json:"referral_code"`
	Enrolled     bool      `db:"is_enrolled" json:"is_enrolled"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentCourse is one row of a student's enrolled-course collection.
type StudentCourse struct {
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// StudentDetail enriches a student with identity and hierarchy context.
type StudentDetail struct {
	Student
	FullName    string `db:"full_name" json:"full_name"`
	Email       string `db:"email" json:"email"`
	MentorName  string `db:"mentor_name" json:"mentor_name,omitempty"`
	CompanyName string `db:"company_name" json:"company_name,omitempty"`
}
