package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentora-api/internal/models"
)

// CourseRepository handles the course catalog. The catalog is read-only for
// the onboarding flows; only admin handlers mutate it.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, title, description, category, level, price, discount_price, duration,
        max_students, start_date, end_date, vendor_id, is_active, created_at, updated_at`

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, title, description, category, level, price, discount_price, duration,
        max_students, start_date, end_date, vendor_id, is_active, created_at, updated_at)
        VALUES (:id, :title, :description, :category, :level, :price, :discount_price, :duration,
        :max_students, :start_date, :end_date, :vendor_id, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// List returns all courses, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses ORDER BY created_at DESC`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListAvailable returns active courses visible to a student: the vendor's
// own catalog plus platform-wide courses, minus those already enrolled.
func (r *CourseRepository) ListAvailable(ctx context.Context, vendorID, studentID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.title, c.description, c.category, c.level, c.price, c.discount_price, c.duration,
        c.max_students, c.start_date, c.end_date, c.vendor_id, c.is_active, c.created_at, c.updated_at
        FROM courses c
        WHERE c.is_active AND (c.vendor_id = $1 OR c.vendor_id IS NULL)
          AND NOT EXISTS (SELECT 1 FROM student_courses sc WHERE sc.course_id = c.id AND sc.student_id = $2)
        ORDER BY c.created_at DESC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, vendorID, studentID); err != nil {
		return nil, fmt.Errorf("list available courses: %w", err)
	}
	return courses, nil
}

// Update edits a course in place.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, description = :description, category = :category,
        level = :level, price = :price, discount_price = :discount_price, duration = :duration,
        max_students = :max_students, start_date = :start_date, end_date = :end_date,
        vendor_id = :vendor_id, is_active = :is_active, updated_at = :updated_at
        WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}
