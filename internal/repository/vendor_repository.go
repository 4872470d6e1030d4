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

// VendorRepository handles persistence of vendor slots.
type VendorRepository struct {
	db *sqlx.DB
}

// NewVendorRepository constructs the repository.
func NewVendorRepository(db *sqlx.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

const vendorColumns = `id, vendor_key, company_name, description, user_id, status, created_by,
        approved_by, approved_at, rejected_by, rejected_at, rejection_reason, expires_at, created_at`

// Create persists a new vendor slot.
func (r *VendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.NewString()
	}
	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = time.Now().UTC()
	}
	if vendor.Status == "" {
		vendor.Status = models.StatusPending
	}
	const query = `INSERT INTO vendors (id, vendor_key, company_name, description, user_id, status, created_by,
        approved_by, approved_at, rejected_by, rejected_at, rejection_reason, expires_at, created_at)
        VALUES (:id, :vendor_key, :company_name, :description, :user_id, :status, :created_by,
        :approved_by, :approved_at, :rejected_by, :rejected_at, :rejection_reason, :expires_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vendor); err != nil {
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

// FindByID returns a vendor slot by identifier.
func (r *VendorRepository) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	query := fmt.Sprintf(`SELECT %s FROM vendors WHERE id = $1`, vendorColumns)
	var vendor models.Vendor
	if err := r.db.GetContext(ctx, &vendor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find vendor by id: %w", err)
	}
	return &vendor, nil
}

// FindByKey returns a vendor slot by its registration key.
func (r *VendorRepository) FindByKey(ctx context.Context, vendorKey string) (*models.Vendor, error) {
	query := fmt.Sprintf(`SELECT %s FROM vendors WHERE vendor_key = $1`, vendorColumns)
	var vendor models.Vendor
	if err := r.db.GetContext(ctx, &vendor, query, vendorKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find vendor by key: %w", err)
	}
	return &vendor, nil
}

// FindByUserID returns the vendor slot claimed by the given identity.
func (r *VendorRepository) FindByUserID(ctx context.Context, userID string) (*models.Vendor, error) {
	query := fmt.Sprintf(`SELECT %s FROM vendors WHERE user_id = $1`, vendorColumns)
	var vendor models.Vendor
	if err := r.db.GetContext(ctx, &vendor, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find vendor by user: %w", err)
	}
	return &vendor, nil
}

// KeyExists reports whether a vendor key is already allocated.
func (r *VendorRepository) KeyExists(ctx context.Context, vendorKey string) (bool, error) {
	const query = `SELECT 1 FROM vendors WHERE vendor_key = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, vendorKey); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check vendor key: %w", err)
	}
	return true, nil
}

// Claim binds an identity to an unclaimed slot. The WHERE clause makes the
// bind conditional so two concurrent registrations cannot both win.
func (r *VendorRepository) Claim(ctx context.Context, id, userID string) error {
	const query = `UPDATE vendors SET user_id = $2 WHERE id = $1 AND user_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("claim vendor slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim vendor slot: %w", err)
	}
	if affected == 0 {
		return ErrSlotClaimed
	}
	return nil
}

// SetStatus applies an approval state transition. Approvals clear rejection
// metadata, rejections clear approval metadata, suspensions only record the
// reason. Returns sql.ErrNoRows when the vendor does not exist.
func (r *VendorRepository) SetStatus(ctx context.Context, id string, change StatusChange) error {
	var query string
	var args []interface{}
	switch change.Status {
	case models.StatusApproved:
		query = `UPDATE vendors SET status = $2, approved_by = $3, approved_at = $4,
            rejected_by = NULL, rejected_at = NULL, rejection_reason = NULL WHERE id = $1`
		args = []interface{}{id, change.Status, change.Actor, change.At}
	case models.StatusRejected:
		query = `UPDATE vendors SET status = $2, rejected_by = $3, rejected_at = $4, rejection_reason = $5,
            approved_by = NULL, approved_at = NULL WHERE id = $1`
		args = []interface{}{id, change.Status, change.Actor, change.At, change.Reason}
	case models.StatusSuspended:
		query = `UPDATE vendors SET status = $2, rejection_reason = $3 WHERE id = $1`
		args = []interface{}{id, change.Status, change.Reason}
	default:
		return fmt.Errorf("unsupported vendor status transition: %s", change.Status)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update vendor status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vendor status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FirstApproved returns the oldest APPROVED vendor, used as the default
// tenant for self-registered mentors without a key.
func (r *VendorRepository) FirstApproved(ctx context.Context) (*models.Vendor, error) {
	query := fmt.Sprintf(`SELECT %s FROM vendors WHERE status = $1 ORDER BY created_at ASC LIMIT 1`, vendorColumns)
	var vendor models.Vendor
	if err := r.db.GetContext(ctx, &vendor, query, models.StatusApproved); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find first approved vendor: %w", err)
	}
	return &vendor, nil
}

// List returns all vendors with mentor and student rollup counts.
func (r *VendorRepository) List(ctx context.Context) ([]models.VendorDetail, error) {
	const query = `SELECT v.id, v.vendor_key, v.company_name, v.description, v.user_id, v.status, v.created_by,
        v.approved_by, v.approved_at, v.rejected_by, v.rejected_at, v.rejection_reason, v.expires_at, v.created_at,
        (SELECT COUNT(*) FROM mentors m WHERE m.vendor_id = v.id) AS mentor_count,
        (SELECT COUNT(*) FROM students s JOIN mentors m ON m.id = s.mentor_id WHERE m.vendor_id = v.id) AS student_count
        FROM vendors v ORDER BY v.created_at DESC`
	var vendors []models.VendorDetail
	if err := r.db.SelectContext(ctx, &vendors, query); err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}

// Update edits the mutable descriptive fields of a vendor.
func (r *VendorRepository) Update(ctx context.Context, id, companyName, description string) error {
	const query = `UPDATE vendors SET company_name = $2, description = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, companyName, description)
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a vendor slot.
func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM vendors WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	return nil
}

// StatusChange captures an approval state transition and its audit fields.
type StatusChange struct {
	Status models.ApprovalStatus
	Actor  string
	Reason *string
	At     time.Time
}
