package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentora-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return sqlxDB, mock, func() { sqlxDB.Close() }
}

var referralRows = []string{"id", "code", "vendor_id", "mentor_id", "is_active", "usage_count", "max_usage", "expires_at", "created_at"}

func TestReferralRepositoryConsume(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE referral_codes SET usage_count = usage_count + 1`)).
		WithArgs("MIA123AB456", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(referralRows).
			AddRow("rc-1", "MIA123AB456", "vendor-1", "mentor-1", true, 4, 10, nil, time.Now()))

	rc, err := repo.Consume(context.Background(), "MIA123AB456")
	require.NoError(t, err)
	assert.Equal(t, 4, rc.UsageCount)
	require.NotNil(t, rc.MentorID)
	assert.Equal(t, "mentor-1", *rc.MentorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryConsumeNotUsable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	// The conditional update matched no row: missing, inactive, expired
	// or exhausted all land here.
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE referral_codes SET usage_count = usage_count + 1`)).
		WithArgs("DEADCODE", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Consume(context.Background(), "DEADCODE")
	assert.ErrorIs(t, err, ErrReferralNotUsable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryCreateVendorScoped(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO referral_codes`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	maxUsage := 100
	code := &models.ReferralCode{
		Code:     "ACM123AB456",
		VendorID: "vendor-1",
		Active:   true,
		MaxUsage: &maxUsage,
	}
	// Vendor-scoped codes bypass the per-mentor cap.
	require.NoError(t, repo.Create(context.Background(), code, 5))
	assert.NotEmpty(t, code.ID)
	assert.False(t, code.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryCreateUnderCap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mentorID := "mentor-1"
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO referral_codes`)).
		WithArgs(sqlmock.AnyArg(), "MIA123AB456", "vendor-1", &mentorID, true, 0, nil, nil, sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	code := &models.ReferralCode{
		Code:     "MIA123AB456",
		VendorID: "vendor-1",
		MentorID: &mentorID,
		Active:   true,
	}
	require.NoError(t, repo.Create(context.Background(), code, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryCreateCapReached(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mentorID := "mentor-1"
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO referral_codes`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	code := &models.ReferralCode{
		Code:     "MIA123AB456",
		VendorID: "vendor-1",
		MentorID: &mentorID,
		Active:   true,
	}
	err := repo.Create(context.Background(), code, 3)
	assert.ErrorIs(t, err, ErrActiveCodeLimit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, code, vendor_id, mentor_id, is_active, usage_count, max_usage, expires_at, created_at FROM referral_codes WHERE code = $1`)).
		WithArgs("MIA123AB456").
		WillReturnRows(sqlmock.NewRows(referralRows).
			AddRow("rc-1", "MIA123AB456", "vendor-1", nil, true, 0, nil, nil, time.Now()))

	rc, err := repo.FindByCode(context.Background(), "MIA123AB456")
	require.NoError(t, err)
	assert.Nil(t, rc.MentorID)
	assert.Nil(t, rc.MaxUsage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryFindByCodeNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM referral_codes WHERE code = $1`)).
		WithArgs("NOPE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByCode(context.Background(), "NOPE")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryCodeExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM referral_codes WHERE code = $1 LIMIT 1`)).
		WithArgs("MIA123AB456").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.CodeExists(context.Background(), "MIA123AB456")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM referral_codes WHERE code = $1 LIMIT 1`)).
		WithArgs("FRESH").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.CodeExists(context.Background(), "FRESH")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE referral_codes SET is_active = FALSE WHERE id = $1 AND mentor_id = $2`)).
		WithArgs("rc-1", "mentor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "rc-1", "mentor-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryDeactivateForeignCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE referral_codes SET is_active = FALSE`)).
		WithArgs("rc-1", "mentor-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), "rc-1", "mentor-2")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepositoryListByMentor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReferralRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM referral_codes WHERE mentor_id = $1 ORDER BY created_at DESC`)).
		WithArgs("mentor-1").
		WillReturnRows(sqlmock.NewRows(referralRows).
			AddRow("rc-2", "MIA999CD111", "vendor-1", "mentor-1", true, 0, nil, nil, time.Now()).
			AddRow("rc-1", "MIA123AB456", "vendor-1", "mentor-1", false, 10, 10, nil, time.Now().Add(-time.Hour)))

	codes, err := repo.ListByMentor(context.Background(), "mentor-1")
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.True(t, codes[0].Active)
	assert.False(t, codes[1].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}
