package models

// AdminDashboard is the platform-wide count rollup.
type AdminDashboard struct {
	TotalVendors       int     `db:"total_vendors" json:"total_vendors"`
	TotalMentors       int     `db:"total_mentors" json:"total_mentors"`
	TotalStudents      int     `db:"total_students" json:"total_students"`
	TotalCourses       int     `db:"total_courses" json:"total_courses"`
	TotalEnrollments   int     `db:"total_enrollments" json:"total_enrollments"`
	EnrolledStudents   int     `db:"enrolled_students" json:"enrolled_students"`
	RegisteredStudents int     `db:"registered_students" json:"registered_students"`
	TotalRevenue       float64 `db:"total_revenue" json:"total_revenue"`
}

// VendorDashboard is the per-tenant count rollup.
type VendorDashboard struct {
	CompanyName        string  `db:"company_name" json:"company_name"`
	TotalMentors       int     `db:"total_mentors" json:"total_mentors"`
	TotalStudents      int     `db:"total_students" json:"total_students"`
	EnrolledStudents   int     `db:"enrolled_students" json:"enrolled_students"`
	RegisteredStudents int     `db:"registered_students" json:"registered_students"`
	TotalCourses       int     `db:"total_courses" json:"total_courses"`
	TotalRevenue       float64 `db:"total_revenue" json:"total_revenue"`
}

// StudentDashboard is the per-student rollup.
type StudentDashboard struct {
	EnrolledCourses int     `db:"enrolled_courses" json:"enrolled_courses"`
	TotalSpent      float64 `db:"total_spent" json:"total_spent"`
	MentorName      string  `db:"mentor_name" json:"mentor_name"`
	IsEnrolled      bool    `db:"is_enrolled" json:"is_enrolled"`
}

// MentorDashboard is the per-mentor count rollup.
type MentorDashboard struct {
	TotalStudents      int     `db:"total_students" json:"total_students"`
	EnrolledStudents   int     `db:"enrolled_students" json:"enrolled_students"`
	RegisteredStudents int     `db:"registered_students" json:"registered_students"`
	ActiveCodes        int     `db:"active_referral_codes" json:"active_referral_codes"`
	TotalEnrollments   int     `db:"total_enrollments" json:"total_enrollments"`
	TotalRevenue       float64 `db:"total_revenue" json:"total_revenue"`
}
