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

// StudentRepository handles persistence of students and their admission.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, user_id, mentor_id, referral_code, is_enrolled, created_at`

// Register admits a student in one transaction: the identity row, the
// referral-code consumption and the student row commit together or not at
// all, so a failed admission never burns a ledger use.
func (r *StudentRepository) Register(ctx context.Context, user *models.User, student *models.Student) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rc, err := consumeReferral(ctx, tx, student.ReferralCode)
	if err != nil {
		return err
	}
	if rc.MentorID == nil {
		return ErrReferralNotUsable
	}
	student.MentorID = *rc.MentorID

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	const userQuery = `INSERT INTO users (id, email, password_hash, full_name, phone, role, is_active, is_email_verified, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :full_name, :phone, :role, :is_active, :is_email_verified, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create student user: %w", err)
	}

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	student.UserID = user.ID
	student.CreatedAt = now
	const studentQuery = `INSERT INTO students (id, user_id, mentor_id, referral_code, is_enrolled, created_at)
        VALUES (:id, :user_id, :mentor_id, :referral_code, :is_enrolled, :created_at)`
	if _, err = tx.NamedExecContext(ctx, studentQuery, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit student registration: %w", err)
	}
	return nil
}

// FindByID returns a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// FindByUserID returns the student profile bound to an identity.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE user_id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by user: %w", err)
	}
	return &student, nil
}

// ListByMentor returns a mentor's students with identity context.
func (r *StudentRepository) ListByMentor(ctx context.Context, mentorID string) ([]models.StudentDetail, error) {
	const query = `SELECT s.id, s.user_id, s.mentor_id, s.referral_code, s.is_enrolled, s.created_at,
        u.full_name, u.email
        FROM students s JOIN users u ON u.id = s.user_id
        WHERE s.mentor_id = $1 ORDER BY s.created_at DESC`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, mentorID); err != nil {
		return nil, fmt.Errorf("list mentor students: %w", err)
	}
	return students, nil
}

// ListByVendor returns every student under a vendor's mentors.
func (r *StudentRepository) ListByVendor(ctx context.Context, vendorID string) ([]models.StudentDetail, error) {
	const query = `SELECT s.id, s.user_id, s.mentor_id, s.referral_code, s.is_enrolled, s.created_at,
        u.full_name, u.email, mu.full_name AS mentor_name
        FROM students s
        JOIN users u ON u.id = s.user_id
        JOIN mentors m ON m.id = s.mentor_id
        LEFT JOIN users mu ON mu.id = m.user_id
        WHERE m.vendor_id = $1 ORDER BY s.created_at DESC`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, vendorID); err != nil {
		return nil, fmt.Errorf("list vendor students: %w", err)
	}
	return students, nil
}

// EnrolledCourses returns the student's enrolled-course rows, oldest first.
func (r *StudentRepository) EnrolledCourses(ctx context.Context, studentID string) ([]models.StudentCourse, error) {
	const query = `SELECT student_id, course_id, enrolled_at FROM student_courses WHERE student_id = $1 ORDER BY enrolled_at ASC`
	var courses []models.StudentCourse
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	return courses, nil
}
