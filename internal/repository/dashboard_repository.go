package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentora-api/internal/models"
)

// DashboardRepository computes the count and revenue rollups shown on the
// role dashboards.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Admin returns the platform-wide rollup.
func (r *DashboardRepository) Admin(ctx context.Context) (*models.AdminDashboard, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM vendors) AS total_vendors,
        (SELECT COUNT(*) FROM mentors) AS total_mentors,
        (SELECT COUNT(*) FROM students) AS total_students,
        (SELECT COUNT(*) FROM courses) AS total_courses,
        (SELECT COUNT(*) FROM enrollments) AS total_enrollments,
        (SELECT COUNT(*) FROM students WHERE is_enrolled) AS enrolled_students,
        (SELECT COUNT(*) FROM students WHERE NOT is_enrolled) AS registered_students,
        (SELECT COALESCE(SUM(price_paid), 0) FROM enrollments) AS total_revenue`
	var dash models.AdminDashboard
	if err := r.db.GetContext(ctx, &dash, query); err != nil {
		return nil, fmt.Errorf("admin dashboard: %w", err)
	}
	return &dash, nil
}

// Vendor returns the rollup for one tenant.
func (r *DashboardRepository) Vendor(ctx context.Context, vendorID string) (*models.VendorDashboard, error) {
	const query = `SELECT
        v.company_name,
        (SELECT COUNT(*) FROM mentors m WHERE m.vendor_id = v.id) AS total_mentors,
        (SELECT COUNT(*) FROM students s JOIN mentors m ON m.id = s.mentor_id WHERE m.vendor_id = v.id) AS total_students,
        (SELECT COUNT(*) FROM students s JOIN mentors m ON m.id = s.mentor_id WHERE m.vendor_id = v.id AND s.is_enrolled) AS enrolled_students,
        (SELECT COUNT(*) FROM students s JOIN mentors m ON m.id = s.mentor_id WHERE m.vendor_id = v.id AND NOT s.is_enrolled) AS registered_students,
        (SELECT COUNT(*) FROM courses c WHERE c.vendor_id = v.id) AS total_courses,
        (SELECT COALESCE(SUM(e.price_paid), 0) FROM enrollments e WHERE e.vendor_id = v.id) AS total_revenue
        FROM vendors v WHERE v.id = $1`
	var dash models.VendorDashboard
	if err := r.db.GetContext(ctx, &dash, query, vendorID); err != nil {
		return nil, fmt.Errorf("vendor dashboard: %w", err)
	}
	return &dash, nil
}

// Student returns the rollup for one student, addressed by user id.
func (r *DashboardRepository) Student(ctx context.Context, userID string) (*models.StudentDashboard, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM student_courses sc WHERE sc.student_id = s.id) AS enrolled_courses,
        (SELECT COALESCE(SUM(e.price_paid), 0) FROM enrollments e WHERE e.student_id = s.id) AS total_spent,
        (SELECT COALESCE(u.full_name, '') FROM mentors m LEFT JOIN users u ON u.id = m.user_id WHERE m.id = s.mentor_id) AS mentor_name,
        s.is_enrolled
        FROM students s WHERE s.user_id = $1`
	var dash models.StudentDashboard
	if err := r.db.GetContext(ctx, &dash, query, userID); err != nil {
		return nil, fmt.Errorf("student dashboard: %w", err)
	}
	return &dash, nil
}

// Mentor returns the rollup for one mentor.
func (r *DashboardRepository) Mentor(ctx context.Context, mentorID string) (*models.MentorDashboard, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students s WHERE s.mentor_id = $1) AS total_students,
        (SELECT COUNT(*) FROM students s WHERE s.mentor_id = $1 AND s.is_enrolled) AS enrolled_students,
        (SELECT COUNT(*) FROM students s WHERE s.mentor_id = $1 AND NOT s.is_enrolled) AS registered_students,
        (SELECT COUNT(*) FROM referral_codes rc WHERE rc.mentor_id = $1 AND rc.is_active) AS active_referral_codes,
        (SELECT COUNT(*) FROM enrollments e WHERE e.mentor_id = $1) AS total_enrollments,
        (SELECT COALESCE(SUM(e.price_paid), 0) FROM enrollments e WHERE e.mentor_id = $1) AS total_revenue`
	var dash models.MentorDashboard
	if err := r.db.GetContext(ctx, &dash, query, mentorID); err != nil {
		return nil, fmt.Errorf("mentor dashboard: %w", err)
	}
	return &dash, nil
}
