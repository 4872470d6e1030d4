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

// ReferralRepository owns the referral-code ledger rows. The conditional
// consume statement is the single authority on remaining capacity: the
// check and the increment are one atomic store operation, so concurrent
// uses of a bounded code can never push usage_count past max_usage.
type ReferralRepository struct {
	db *sqlx.DB
}

// NewReferralRepository constructs the repository.
func NewReferralRepository(db *sqlx.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

const referralColumns = `id, code, vendor_id, mentor_id, is_active, usage_count, max_usage, expires_at, created_at`

// Create persists a new referral code. For mentor-scoped codes the insert
// is conditional on the mentor holding fewer than maxActive active codes,
// so the cap holds even under concurrent creation.
func (r *ReferralRepository) Create(ctx context.Context, code *models.ReferralCode, maxActive int) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}

	if code.MentorID == nil || maxActive <= 0 {
		const query = `INSERT INTO referral_codes (id, code, vendor_id, mentor_id, is_active, usage_count, max_usage, expires_at, created_at)
            VALUES (:id, :code, :vendor_id, :mentor_id, :is_active, :usage_count, :max_usage, :expires_at, :created_at)`
		if _, err := r.db.NamedExecContext(ctx, query, code); err != nil {
			return fmt.Errorf("create referral code: %w", err)
		}
		return nil
	}

	const query = `INSERT INTO referral_codes (id, code, vendor_id, mentor_id, is_active, usage_count, max_usage, expires_at, created_at)
        SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
        WHERE (SELECT COUNT(*) FROM referral_codes WHERE mentor_id = $4 AND is_active) < $10`
	res, err := r.db.ExecContext(ctx, query,
		code.ID, code.Code, code.VendorID, code.MentorID, code.Active,
		code.UsageCount, code.MaxUsage, code.ExpiresAt, code.CreatedAt, maxActive)
	if err != nil {
		return fmt.Errorf("create referral code: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create referral code: %w", err)
	}
	if affected == 0 {
		return ErrActiveCodeLimit
	}
	return nil
}

// FindByCode returns a referral code by its code string.
func (r *ReferralRepository) FindByCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	query := fmt.Sprintf(`SELECT %s FROM referral_codes WHERE code = $1`, referralColumns)
	var rc models.ReferralCode
	if err := r.db.GetContext(ctx, &rc, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find referral code: %w", err)
	}
	return &rc, nil
}

// CodeExists reports whether the code string is already allocated.
func (r *ReferralRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM referral_codes WHERE code = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check referral code: %w", err)
	}
	return true, nil
}

// Consume atomically records one use of the code and returns the updated
// row. ErrReferralNotUsable means the code is missing, inactive, expired or
// exhausted; callers re-read to classify.
func (r *ReferralRepository) Consume(ctx context.Context, code string) (*models.ReferralCode, error) {
	return consumeReferral(ctx, r.db, code)
}

// consumeReferral runs the conditional increment against any executor so
// the enrollment transaction can consume a code inside its own tx.
func consumeReferral(ctx context.Context, ext sqlx.ExtContext, code string) (*models.ReferralCode, error) {
	const query = `UPDATE referral_codes SET usage_count = usage_count + 1
        WHERE code = $1
          AND is_active
          AND (expires_at IS NULL OR expires_at > $2)
          AND (max_usage IS NULL OR usage_count < max_usage)
        RETURNING id, code, vendor_id, mentor_id, is_active, usage_count, max_usage, expires_at, created_at`
	var rc models.ReferralCode
	if err := sqlx.GetContext(ctx, ext, &rc, query, code, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReferralNotUsable
		}
		return nil, fmt.Errorf("consume referral code: %w", err)
	}
	return &rc, nil
}

// ListByMentor returns all codes belonging to a mentor, newest first.
func (r *ReferralRepository) ListByMentor(ctx context.Context, mentorID string) ([]models.ReferralCode, error) {
	query := fmt.Sprintf(`SELECT %s FROM referral_codes WHERE mentor_id = $1 ORDER BY created_at DESC`, referralColumns)
	var codes []models.ReferralCode
	if err := r.db.SelectContext(ctx, &codes, query, mentorID); err != nil {
		return nil, fmt.Errorf("list referral codes: %w", err)
	}
	return codes, nil
}

// Deactivate flips a code inactive. The flip is one-way and owner-scoped:
// a code belonging to another mentor matches no row.
func (r *ReferralRepository) Deactivate(ctx context.Context, id, mentorID string) error {
	const query = `UPDATE referral_codes SET is_active = FALSE WHERE id = $1 AND mentor_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, mentorID)
	if err != nil {
		return fmt.Errorf("deactivate referral code: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate referral code: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
