package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentora-api/internal/models"
)

func TestEnrollmentRepositoryEnroll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, is_enrolled FROM students WHERE id = $1 FOR UPDATE`)).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_enrolled"}).AddRow("student-1", false))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM student_courses WHERE student_id = $1 AND course_id = $2 LIMIT 1`)).
		WithArgs("student-1", "course-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO student_courses`)).
		WithArgs("student-1", "course-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE students SET is_enrolled = TRUE WHERE id = $1`)).
		WithArgs("student-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO enrollments`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	enrollment, payment, err := repo.Enroll(context.Background(), EnrollParams{
		StudentID: "student-1",
		CourseID:  "course-1",
		MentorID:  "mentor-1",
		VendorID:  "vendor-1",
		PricePaid: 500,
		Payment: &PaymentParams{
			Amount:        500,
			Method:        models.PaymentMethodUPI,
			TransactionID: "TXN1700000000000ABCDEFGHI",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, enrollment)
	require.NotNil(t, payment)

	assert.Equal(t, 500.0, enrollment.PricePaid)
	assert.Nil(t, enrollment.ReferralCodeUsed)
	assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, "dummy", payment.Gateway)
	assert.Equal(t, enrollment.EnrolledAt, payment.PaidAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollWithReferral(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	// The consume runs inside the enrollment transaction.
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE referral_codes SET usage_count = usage_count + 1`)).
		WithArgs("MIA123AB456", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(referralRows).
			AddRow("rc-1", "MIA123AB456", "vendor-1", "mentor-9", true, 7, 10, nil, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, is_enrolled FROM students WHERE id = $1 FOR UPDATE`)).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_enrolled"}).AddRow("student-1", true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM student_courses`)).
		WithArgs("student-1", "course-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO student_courses`)).
		WithArgs("student-1", "course-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Already enrolled once: no flag flip this time.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO enrollments`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	enrollment, payment, err := repo.Enroll(context.Background(), EnrollParams{
		StudentID:    "student-1",
		CourseID:     "course-1",
		MentorID:     "mentor-1",
		VendorID:     "vendor-1",
		PricePaid:    350,
		ReferralCode: "MIA123AB456",
	})
	require.NoError(t, err)
	assert.Nil(t, payment)

	require.NotNil(t, enrollment.ReferralCodeUsed)
	assert.Equal(t, "MIA123AB456", *enrollment.ReferralCodeUsed)
	require.NotNil(t, enrollment.ReferredByMentorID)
	assert.Equal(t, "mentor-9", *enrollment.ReferredByMentorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollReferralNotUsable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE referral_codes SET usage_count = usage_count + 1`)).
		WithArgs("DEADCODE", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := repo.Enroll(context.Background(), EnrollParams{
		StudentID:    "student-1",
		CourseID:     "course-1",
		MentorID:     "mentor-1",
		VendorID:     "vendor-1",
		PricePaid:    500,
		ReferralCode: "DEADCODE",
	})
	assert.ErrorIs(t, err, ErrReferralNotUsable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, is_enrolled FROM students WHERE id = $1 FOR UPDATE`)).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_enrolled"}).AddRow("student-1", true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM student_courses`)).
		WithArgs("student-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	_, _, err := repo.Enroll(context.Background(), EnrollParams{
		StudentID: "student-1",
		CourseID:  "course-1",
		MentorID:  "mentor-1",
		VendorID:  "vendor-1",
		PricePaid: 500,
	})
	assert.ErrorIs(t, err, ErrDuplicateEnrollment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollStudentGone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, is_enrolled FROM students WHERE id = $1 FOR UPDATE`)).
		WithArgs("student-gone").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := repo.Enroll(context.Background(), EnrollParams{
		StudentID: "student-gone",
		CourseID:  "course-1",
		MentorID:  "mentor-1",
		VendorID:  "vendor-1",
	})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	enrollmentCols := []string{"id", "student_id", "course_id", "mentor_id", "vendor_id", "price_paid",
		"referral_code_used", "referred_by_mentor_id", "enrolled_at"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments WHERE id = $1`)).
		WithArgs("enr-1").
		WillReturnRows(sqlmock.NewRows(enrollmentCols).
			AddRow("enr-1", "student-1", "course-1", "mentor-1", "vendor-1", 500.0, nil, nil, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments WHERE id = $1`)).
		WithArgs("enr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM student_courses WHERE student_id = $1 AND course_id = $2`)).
		WithArgs("student-1", "course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "enr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM enrollments WHERE id = $1`)).
		WithArgs("enr-missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "enr-missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}
