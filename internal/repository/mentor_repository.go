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

// MentorRepository handles persistence of mentor slots.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs the repository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

const mentorColumns = `id, mentor_key, vendor_id, user_id, specialization, bio, status, created_by,
        approved_by, approved_at, rejected_by, rejected_at, rejection_reason, created_at`

// Create persists a new mentor slot.
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	if mentor.CreatedAt.IsZero() {
		mentor.CreatedAt = time.Now().UTC()
	}
	if mentor.Status == "" {
		mentor.Status = models.StatusPending
	}
	const query = `INSERT INTO mentors (id, mentor_key, vendor_id, user_id, specialization, bio, status, created_by,
        approved_by, approved_at, rejected_by, rejected_at, rejection_reason, created_at)
        VALUES (:id, :mentor_key, :vendor_id, :user_id, :specialization, :bio, :status, :created_by,
        :approved_by, :approved_at, :rejected_by, :rejected_at, :rejection_reason, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mentor); err != nil {
		return fmt.Errorf("create mentor: %w", err)
	}
	return nil
}

// FindByID returns a mentor slot by identifier.
func (r *MentorRepository) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	query := fmt.Sprintf(`SELECT %s FROM mentors WHERE id = $1`, mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mentor by id: %w", err)
	}
	return &mentor, nil
}

// FindByKey returns a mentor slot by its registration key.
func (r *MentorRepository) FindByKey(ctx context.Context, mentorKey string) (*models.Mentor, error) {
	query := fmt.Sprintf(`SELECT %s FROM mentors WHERE mentor_key = $1`, mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, mentorKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mentor by key: %w", err)
	}
	return &mentor, nil
}

// FindByUserID returns the mentor slot claimed by the given identity.
func (r *MentorRepository) FindByUserID(ctx context.Context, userID string) (*models.Mentor, error) {
	query := fmt.Sprintf(`SELECT %s FROM mentors WHERE user_id = $1`, mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mentor by user: %w", err)
	}
	return &mentor, nil
}

// KeyExists reports whether a mentor key is already allocated.
func (r *MentorRepository) KeyExists(ctx context.Context, mentorKey string) (bool, error) {
	const query = `SELECT 1 FROM mentors WHERE mentor_key = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, mentorKey); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check mentor key: %w", err)
	}
	return true, nil
}

// Claim binds an identity to an unclaimed slot and records the profile
// fields supplied at registration time.
func (r *MentorRepository) Claim(ctx context.Context, id, userID, specialization, bio string) error {
	const query = `UPDATE mentors SET user_id = $2, specialization = $3, bio = $4 WHERE id = $1 AND user_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, userID, specialization, bio)
	if err != nil {
		return fmt.Errorf("claim mentor slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim mentor slot: %w", err)
	}
	if affected == 0 {
		return ErrSlotClaimed
	}
	return nil
}

// SetStatus applies an approval state transition scoped to the owning
// vendor. A mentor belonging to another vendor matches no row and answers
// sql.ErrNoRows, hiding its existence from the caller.
func (r *MentorRepository) SetStatus(ctx context.Context, id, vendorID string, change StatusChange) error {
	var query string
	var args []interface{}
	switch change.Status {
	case models.StatusApproved:
		query = `UPDATE mentors SET status = $3, approved_by = $4, approved_at = $5,
            rejected_by = NULL, rejected_at = NULL, rejection_reason = NULL WHERE id = $1 AND vendor_id = $2`
		args = []interface{}{id, vendorID, change.Status, change.Actor, change.At}
	case models.StatusRejected:
		query = `UPDATE mentors SET status = $3, rejected_by = $4, rejected_at = $5, rejection_reason = $6,
            approved_by = NULL, approved_at = NULL WHERE id = $1 AND vendor_id = $2`
		args = []interface{}{id, vendorID, change.Status, change.Actor, change.At, change.Reason}
	case models.StatusSuspended:
		query = `UPDATE mentors SET status = $3, rejection_reason = $4 WHERE id = $1 AND vendor_id = $2`
		args = []interface{}{id, vendorID, change.Status, change.Reason}
	default:
		return fmt.Errorf("unsupported mentor status transition: %s", change.Status)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update mentor status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update mentor status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByVendor returns a vendor's mentors with student rollup counts.
func (r *MentorRepository) ListByVendor(ctx context.Context, vendorID string) ([]models.MentorDetail, error) {
	const query = `SELECT m.id, m.mentor_key, m.vendor_id, m.user_id, m.specialization, m.bio, m.status, m.created_by,
        m.approved_by, m.approved_at, m.rejected_by, m.rejected_at, m.rejection_reason, m.created_at,
        (SELECT COUNT(*) FROM students s WHERE s.mentor_id = m.id) AS student_count,
        (SELECT COUNT(*) FROM students s WHERE s.mentor_id = m.id AND s.is_enrolled) AS enrolled_count
        FROM mentors m WHERE m.vendor_id = $1 ORDER BY m.created_at DESC`
	var mentors []models.MentorDetail
	if err := r.db.SelectContext(ctx, &mentors, query, vendorID); err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return mentors, nil
}
