package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/mentora-api/internal/models"
)

// EnrollmentRepository owns the enrollment transaction: referral
// consumption, the student's enrolled-course set, the is_enrolled flip,
// the immutable enrollment fact and the optional payment record all commit
// as a single unit. A partial application is never observable.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// EnrollParams carries everything the enrollment transaction needs. The
// price is snapshotted by the caller from the course it validated.
type EnrollParams struct {
	StudentID    string
	CourseID     string
	MentorID     string
	VendorID     string
	PricePaid    float64
	ReferralCode string
	Payment      *PaymentParams
}

// PaymentParams describes the simulated payment captured alongside the
// enrollment. Instrument details arrive pre-masked from the service.
type PaymentParams struct {
	Amount         float64
	Method         models.PaymentMethod
	TransactionID  string
	CardLast4      *string
	CardHolderName *string
	UPIID          *string
	WalletName     *string
	BankName       *string
}

// Enroll runs the composite admission. Returned errors: sql.ErrNoRows when
// the student row vanished, ErrDuplicateEnrollment for a repeated
// (student, course) pair, ErrReferralNotUsable when the code consumption
// matched no row. Any failure rolls the whole transaction back.
func (r *EnrollmentRepository) Enroll(ctx context.Context, params EnrollParams) (enrollment *models.Enrollment, payment *models.Payment, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin enrollment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	var referralCodeUsed *string
	var referredBy *string
	if params.ReferralCode != "" {
		var rc *models.ReferralCode
		rc, err = consumeReferral(ctx, tx, params.ReferralCode)
		if err != nil {
			return nil, nil, err
		}
		referralCodeUsed = &rc.Code
		referredBy = rc.MentorID
	}

	var student struct {
		ID       string `db:"id"`
		Enrolled bool   `db:"is_enrolled"`
	}
	const lockQuery = `SELECT id, is_enrolled FROM students WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &student, lockQuery, params.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("lock student: %w", err)
	}

	const dupQuery = `SELECT 1 FROM student_courses WHERE student_id = $1 AND course_id = $2 LIMIT 1`
	var dup int
	switch err = tx.GetContext(ctx, &dup, dupQuery, params.StudentID, params.CourseID); err {
	case sql.ErrNoRows:
		err = nil
	case nil:
		err = ErrDuplicateEnrollment
		return nil, nil, err
	default:
		return nil, nil, fmt.Errorf("check existing enrollment: %w", err)
	}

	const courseInsert = `INSERT INTO student_courses (student_id, course_id, enrolled_at) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, courseInsert, params.StudentID, params.CourseID, now); err != nil {
		if isUniqueViolation(err) {
			err = ErrDuplicateEnrollment
		} else {
			err = fmt.Errorf("append enrolled course: %w", err)
		}
		return nil, nil, err
	}

	if !student.Enrolled {
		const flipQuery = `UPDATE students SET is_enrolled = TRUE WHERE id = $1`
		if _, err = tx.ExecContext(ctx, flipQuery, params.StudentID); err != nil {
			return nil, nil, fmt.Errorf("flip enrolled flag: %w", err)
		}
	}

	enrollment = &models.Enrollment{
		ID:                 uuid.NewString(),
		StudentID:          params.StudentID,
		CourseID:           params.CourseID,
		MentorID:           params.MentorID,
		VendorID:           params.VendorID,
		PricePaid:          params.PricePaid,
		ReferralCodeUsed:   referralCodeUsed,
		ReferredByMentorID: referredBy,
		EnrolledAt:         now,
	}
	const enrollInsert = `INSERT INTO enrollments (id, student_id, course_id, mentor_id, vendor_id, price_paid,
        referral_code_used, referred_by_mentor_id, enrolled_at)
        VALUES (:id, :student_id, :course_id, :mentor_id, :vendor_id, :price_paid,
        :referral_code_used, :referred_by_mentor_id, :enrolled_at)`
	if _, err = tx.NamedExecContext(ctx, enrollInsert, enrollment); err != nil {
		if isUniqueViolation(err) {
			err = ErrDuplicateEnrollment
		} else {
			err = fmt.Errorf("create enrollment: %w", err)
		}
		return nil, nil, err
	}

	if params.Payment != nil {
		payment = &models.Payment{
			ID:                 uuid.NewString(),
			StudentID:          params.StudentID,
			CourseID:           params.CourseID,
			MentorID:           params.MentorID,
			VendorID:           params.VendorID,
			Amount:             params.Payment.Amount,
			Method:             params.Payment.Method,
			Status:             models.PaymentStatusSuccess,
			TransactionID:      params.Payment.TransactionID,
			Gateway:            "dummy",
			CardLast4:          params.Payment.CardLast4,
			CardHolderName:     params.Payment.CardHolderName,
			UPIID:              params.Payment.UPIID,
			WalletName:         params.Payment.WalletName,
			BankName:           params.Payment.BankName,
			ReferralCodeUsed:   referralCodeUsed,
			ReferredByMentorID: referredBy,
			PaidAt:             now,
		}
		const paymentInsert = `INSERT INTO payments (id, student_id, course_id, mentor_id, vendor_id, amount,
            payment_method, payment_status, transaction_id, payment_gateway, card_last4, card_holder_name,
            upi_id, wallet_name, bank_name, referral_code_used, referred_by_mentor_id, paid_at)
            VALUES (:id, :student_id, :course_id, :mentor_id, :vendor_id, :amount,
            :payment_method, :payment_status, :transaction_id, :payment_gateway, :card_last4, :card_holder_name,
            :upi_id, :wallet_name, :bank_name, :referral_code_used, :referred_by_mentor_id, :paid_at)`
		if _, err = tx.NamedExecContext(ctx, paymentInsert, payment); err != nil {
			return nil, nil, fmt.Errorf("record payment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit enrollment: %w", err)
	}
	return enrollment, payment, nil
}

// List returns all enrollments with display context, newest first.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, e.mentor_id, e.vendor_id, e.price_paid,
        e.referral_code_used, e.referred_by_mentor_id, e.enrolled_at,
        u.full_name AS student_name, c.title AS course_title, v.company_name AS company_name
        FROM enrollments e
        LEFT JOIN students s ON s.id = e.student_id
        LEFT JOIN users u ON u.id = s.user_id
        LEFT JOIN courses c ON c.id = e.course_id
        LEFT JOIN vendors v ON v.id = e.vendor_id
        ORDER BY e.enrolled_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByMentor returns a mentor's enrollments, newest first.
func (r *EnrollmentRepository) ListByMentor(ctx context.Context, mentorID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, e.mentor_id, e.vendor_id, e.price_paid,
        e.referral_code_used, e.referred_by_mentor_id, e.enrolled_at,
        u.full_name AS student_name, c.title AS course_title
        FROM enrollments e
        LEFT JOIN students s ON s.id = e.student_id
        LEFT JOIN users u ON u.id = s.user_id
        LEFT JOIN courses c ON c.id = e.course_id
        WHERE e.mentor_id = $1 ORDER BY e.enrolled_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, mentorID); err != nil {
		return nil, fmt.Errorf("list mentor enrollments: %w", err)
	}
	return enrollments, nil
}

// Delete removes an enrollment fact. Admin-only corrective action; the
// student's enrolled-course row is removed with it.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var enrollment models.Enrollment
	const findQuery = `SELECT id, student_id, course_id, mentor_id, vendor_id, price_paid,
        referral_code_used, referred_by_mentor_id, enrolled_at FROM enrollments WHERE id = $1`
	if err = tx.GetContext(ctx, &enrollment, findQuery, id); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("find enrollment: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM student_courses WHERE student_id = $1 AND course_id = $2`,
		enrollment.StudentID, enrollment.CourseID); err != nil {
		return fmt.Errorf("delete enrolled course: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment delete: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
